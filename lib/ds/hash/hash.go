package hash

import (
	"sort"
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/ds/common"
	"github.com/ValentinKolb/dStruct/lib/ds/index"
)

const structure = "hash"

var fields = index.New(ckey.KindHashIndex)

// Hash stores one record per field under (hash, name, field)
type Hash struct {
	table *ckv.Table
}

// New creates the hash operations on top of table
func New(table *ckv.Table) *Hash {
	return &Hash{table: table}
}

func fieldKey(name, field string) ckey.Key {
	return ckey.New(ckey.KindHashField, name, ckey.Str(field))
}

func scope(name string) ckey.Key {
	return ckey.New(ckey.KindHashField, name, ckey.None())
}

// Set writes value to field and reports whether the field was created
func (h *Hash) Set(name, field string, value []byte) (created bool, err error) {
	defer common.Observe(structure, "set", time.Now(), &err)

	err = h.table.Update(scope(name), func(tx ckv.ITable) error {
		existed, err := tx.Contains(fieldKey(name, field))
		if err != nil {
			return err
		}
		if err := tx.Put(fieldKey(name, field), codec.Record{Value: value}); err != nil {
			return err
		}
		if existed {
			return nil
		}
		created = true
		return fields.Insert(tx, name, field)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// SetIfAbsent writes value only if field does not exist and reports whether it did
func (h *Hash) SetIfAbsent(name, field string, value []byte) (created bool, err error) {
	defer common.Observe(structure, "set_if_absent", time.Now(), &err)

	err = h.table.Update(scope(name), func(tx ckv.ITable) error {
		inserted, err := tx.PutIfAbsent(fieldKey(name, field), codec.Record{Value: value})
		if err != nil || !inserted {
			return err
		}
		created = true
		return fields.Insert(tx, name, field)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// Get returns the value of field
func (h *Hash) Get(name, field string) (value []byte, ok bool, err error) {
	defer common.Observe(structure, "get", time.Now(), &err)

	rec, ok, err := h.table.Get(fieldKey(name, field))
	return rec.Value, ok, err
}

// Exists reports whether field exists
func (h *Hash) Exists(name, field string) (ok bool, err error) {
	defer common.Observe(structure, "exists", time.Now(), &err)
	return h.table.Contains(fieldKey(name, field))
}

// Delete removes field and reports whether it existed
func (h *Hash) Delete(name, field string) (removed bool, err error) {
	defer common.Observe(structure, "delete", time.Now(), &err)

	err = h.table.Update(scope(name), func(tx ckv.ITable) error {
		ok, err := tx.Remove(fieldKey(name, field))
		if err != nil || !ok {
			return err
		}
		removed = true
		return fields.Delete(tx, name, field)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Len returns the number of fields
func (h *Hash) Len(name string) (n int64, err error) {
	defer common.Observe(structure, "len", time.Now(), &err)
	return fields.Len(h.table, name)
}

// Fields returns all field names in lexicographic order
func (h *Hash) Fields(name string) (result []string, err error) {
	defer common.Observe(structure, "fields", time.Now(), &err)

	err = h.table.View(scope(name), func(tx ckv.ITable) error {
		result, err = fields.Members(tx, name)
		return err
	})
	sort.Strings(result)
	return result, err
}

// GetAll returns every field with its value
func (h *Hash) GetAll(name string) (result map[string][]byte, err error) {
	defer common.Observe(structure, "get_all", time.Now(), &err)

	err = h.table.View(scope(name), func(tx ckv.ITable) error {
		names, err := fields.Members(tx, name)
		if err != nil {
			return err
		}
		result = make(map[string][]byte, len(names))
		for _, f := range names {
			rec, ok, err := tx.Get(fieldKey(name, f))
			if err != nil {
				return err
			}
			if ok {
				result[f] = rec.Value
			}
		}
		return nil
	})
	return result, err
}
