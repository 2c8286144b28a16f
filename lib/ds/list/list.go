package list

import (
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/ds/common"
	"github.com/ValentinKolb/dStruct/lib/store"
)

const structure = "list"

// List stores every list as a dense run of items (name, 0..n-1) plus a length record.
type List struct {
	table *ckv.Table
}

// New creates the list operations on top of table
func New(table *ckv.Table) *List {
	return &List{table: table}
}

func itemKey(name string, i int64) ckey.Key {
	return ckey.New(ckey.KindListItem, name, ckey.Int(i))
}

func metaKey(name string) ckey.Key {
	return ckey.New(ckey.KindListMeta, name, ckey.None())
}

func readLen(tx ckv.ITable, name string) (int64, error) {
	rec, _, err := tx.Get(metaKey(name))
	if err != nil {
		return 0, err
	}
	return int64(rec.Len), nil
}

func setSize(tx ckv.ITable, name string, n int64) error {
	if n == 0 {
		_, err := tx.Remove(metaKey(name))
		return err
	}
	return tx.Put(metaKey(name), codec.Record{Len: uint64(n)})
}

// item reads index i, a hole inside the dense run means the list is corrupt
func item(tx ckv.ITable, name string, i int64) (codec.Record, error) {
	rec, ok, err := tx.Get(itemKey(name, i))
	if err != nil {
		return codec.Record{}, err
	}
	if !ok {
		return codec.Record{}, store.NewError(store.RetCInternalError, "list "+name+" has a hole at "+itemKey(name, i).String())
	}
	return rec, nil
}

// PushLeft inserts value at index 0 and shifts every element one index up.
// It returns the new length.
func (l *List) PushLeft(name string, value []byte) (n int64, err error) {
	defer common.Observe(structure, "push_left", time.Now(), &err)

	err = l.table.Update(metaKey(name), func(tx ckv.ITable) error {
		size, err := readLen(tx, name)
		if err != nil {
			return err
		}
		for i := size - 1; i >= 0; i-- {
			rec, err := item(tx, name, i)
			if err != nil {
				return err
			}
			if err := tx.Put(itemKey(name, i+1), rec); err != nil {
				return err
			}
		}
		if err := tx.Put(itemKey(name, 0), codec.Record{Value: value}); err != nil {
			return err
		}
		n = size + 1
		return setSize(tx, name, n)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// PushRight appends value and returns the new length
func (l *List) PushRight(name string, value []byte) (n int64, err error) {
	defer common.Observe(structure, "push_right", time.Now(), &err)

	err = l.table.Update(metaKey(name), func(tx ckv.ITable) error {
		size, err := readLen(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Put(itemKey(name, size), codec.Record{Value: value}); err != nil {
			return err
		}
		n = size + 1
		return setSize(tx, name, n)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Index returns the element at index i. Negative indices count from the tail, -1 is the
// last element.
func (l *List) Index(name string, i int64) (value []byte, ok bool, err error) {
	defer common.Observe(structure, "index", time.Now(), &err)

	if i >= 0 {
		rec, ok, err := l.table.Get(itemKey(name, i))
		return rec.Value, ok, err
	}
	err = l.table.View(metaKey(name), func(tx ckv.ITable) error {
		size, err := readLen(tx, name)
		if err != nil {
			return err
		}
		pos, inRange := common.ResolveIndex(i, size)
		if !inRange {
			return nil
		}
		rec, err := item(tx, name, pos)
		if err != nil {
			return err
		}
		value, ok = rec.Value, true
		return nil
	})
	return value, ok, err
}

// PopLeft removes and returns the element at index 0 and shifts the rest down
func (l *List) PopLeft(name string) (value []byte, ok bool, err error) {
	defer common.Observe(structure, "pop_left", time.Now(), &err)

	err = l.table.Update(metaKey(name), func(tx ckv.ITable) error {
		size, err := readLen(tx, name)
		if err != nil || size == 0 {
			return err
		}
		head, err := item(tx, name, 0)
		if err != nil {
			return err
		}
		for i := int64(1); i < size; i++ {
			rec, err := item(tx, name, i)
			if err != nil {
				return err
			}
			if err := tx.Put(itemKey(name, i-1), rec); err != nil {
				return err
			}
		}
		if _, err := tx.Remove(itemKey(name, size-1)); err != nil {
			return err
		}
		value, ok = head.Value, true
		return setSize(tx, name, size-1)
	})
	if err != nil {
		return nil, false, err
	}
	return value, ok, nil
}

// PopRight removes and returns the last element
func (l *List) PopRight(name string) (value []byte, ok bool, err error) {
	defer common.Observe(structure, "pop_right", time.Now(), &err)

	err = l.table.Update(metaKey(name), func(tx ckv.ITable) error {
		size, err := readLen(tx, name)
		if err != nil || size == 0 {
			return err
		}
		tail, err := item(tx, name, size-1)
		if err != nil {
			return err
		}
		if _, err := tx.Remove(itemKey(name, size-1)); err != nil {
			return err
		}
		value, ok = tail.Value, true
		return setSize(tx, name, size-1)
	})
	if err != nil {
		return nil, false, err
	}
	return value, ok, nil
}

// Size returns the length of the list, 0 if it does not exist
func (l *List) Size(name string) (n int64, err error) {
	defer common.Observe(structure, "size", time.Now(), &err)
	return readLen(l.table, name)
}

// ProbeSize counts the dense run of items by probing index 0, 1, ... until the first
// missing one. It must agree with Size and exists to verify the length record.
func (l *List) ProbeSize(name string) (n int64, err error) {
	defer common.Observe(structure, "probe_size", time.Now(), &err)

	err = l.table.View(metaKey(name), func(tx ckv.ITable) error {
		for {
			ok, err := tx.Contains(itemKey(name, n))
			if err != nil || !ok {
				return err
			}
			n++
		}
	})
	return n, err
}

// Range returns the elements from start to stop (both inclusive, negative values count
// from the tail). Out of range bounds are clamped.
func (l *List) Range(name string, start, stop int64) (values [][]byte, err error) {
	defer common.Observe(structure, "range", time.Now(), &err)

	err = l.table.View(metaKey(name), func(tx ckv.ITable) error {
		size, err := readLen(tx, name)
		if err != nil {
			return err
		}
		from, to, ok := common.ResolveRange(start, stop, size)
		if !ok {
			return nil
		}
		values = make([][]byte, 0, to-from+1)
		for i := from; i <= to; i++ {
			rec, err := item(tx, name, i)
			if err != nil {
				return err
			}
			values = append(values, rec.Value)
		}
		return nil
	})
	return values, err
}

// Set overwrites the element at index i. ok is false if the index is out of range.
func (l *List) Set(name string, i int64, value []byte) (ok bool, err error) {
	defer common.Observe(structure, "set", time.Now(), &err)

	err = l.table.Update(metaKey(name), func(tx ckv.ITable) error {
		size, err := readLen(tx, name)
		if err != nil {
			return err
		}
		pos, inRange := common.ResolveIndex(i, size)
		if !inRange {
			return nil
		}
		ok = true
		return tx.Put(itemKey(name, pos), codec.Record{Value: value})
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}
