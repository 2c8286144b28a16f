// Package index maintains the member list of a collection inside the store itself,
// so sets, sorted sets and hashes can enumerate their members without a range scan.
//
// Per collection three kinds of records live in the index kind's key space:
//
//	(kind, name, none)       -> Len     number of members
//	(kind, name, int i)      -> Member  the member in slot i, slots are dense 0..Len-1
//	(kind, name, str member) -> Pos     the slot of member
//
// Insert appends to the slot array. Delete moves the last slot into the freed one,
// so both are O(1) store operations. All methods must run inside a ckv transaction
// holding the collection lock (or a view for the read methods).
package index

import (
	"fmt"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/store"
)

// Index is the member index stored under one key kind
type Index struct {
	kind ckey.Kind
}

// New creates the index stored under kind
func New(kind ckey.Kind) Index {
	return Index{kind: kind}
}

func (x Index) lenKey(name string) ckey.Key {
	return ckey.New(x.kind, name, ckey.None())
}

func (x Index) slotKey(name string, i int64) ckey.Key {
	return ckey.New(x.kind, name, ckey.Int(i))
}

func (x Index) posKey(name, member string) ckey.Key {
	return ckey.New(x.kind, name, ckey.Str(member))
}

func corrupt(format string, args ...any) error {
	return store.NewError(store.RetCInternalError, "index corrupt: "+fmt.Sprintf(format, args...))
}

// Len returns the number of indexed members
func (x Index) Len(tx ckv.ITable, name string) (int64, error) {
	rec, _, err := tx.Get(x.lenKey(name))
	if err != nil {
		return 0, err
	}
	return int64(rec.Len), nil
}

func (x Index) setLen(tx ckv.ITable, name string, n int64) error {
	if n == 0 {
		_, err := tx.Remove(x.lenKey(name))
		return err
	}
	return tx.Put(x.lenKey(name), codec.Record{Len: uint64(n)})
}

// Has reports whether member is indexed
func (x Index) Has(tx ckv.ITable, name, member string) (bool, error) {
	return tx.Contains(x.posKey(name, member))
}

// Insert appends member. Inserting an indexed member is a no-op.
func (x Index) Insert(tx ckv.ITable, name, member string) error {
	n, err := x.Len(tx, name)
	if err != nil {
		return err
	}
	inserted, err := tx.PutIfAbsent(x.posKey(name, member), codec.Record{Pos: n})
	if err != nil || !inserted {
		return err
	}
	if err := tx.Put(x.slotKey(name, n), codec.Record{Member: member}); err != nil {
		return err
	}
	return x.setLen(tx, name, n+1)
}

// Delete removes member. Deleting a member that is not indexed is a no-op.
func (x Index) Delete(tx ckv.ITable, name, member string) error {
	posRec, ok, err := tx.Get(x.posKey(name, member))
	if err != nil || !ok {
		return err
	}
	n, err := x.Len(tx, name)
	if err != nil {
		return err
	}
	pos, last := posRec.Pos, n-1
	if pos < 0 || pos > last {
		return corrupt("%q at slot %d of %d", member, pos, n)
	}

	if pos != last {
		lastRec, ok, err := tx.Get(x.slotKey(name, last))
		if err != nil {
			return err
		}
		if !ok {
			return corrupt("slot %d of %q missing", last, name)
		}
		if err := tx.Put(x.slotKey(name, pos), lastRec); err != nil {
			return err
		}
		if err := tx.Put(x.posKey(name, lastRec.Member), codec.Record{Pos: pos}); err != nil {
			return err
		}
	}

	if _, err := tx.Remove(x.slotKey(name, last)); err != nil {
		return err
	}
	if _, err := tx.Remove(x.posKey(name, member)); err != nil {
		return err
	}
	return x.setLen(tx, name, last)
}

// Members returns all indexed members in slot order
func (x Index) Members(tx ckv.ITable, name string) ([]string, error) {
	n, err := x.Len(tx, name)
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, n)
	for i := int64(0); i < n; i++ {
		rec, ok, err := tx.Get(x.slotKey(name, i))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, corrupt("slot %d of %q missing", i, name)
		}
		members = append(members, rec.Member)
	}
	return members, nil
}
