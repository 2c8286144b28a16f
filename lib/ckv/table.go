package ckv

import (
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/lockmgr"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("ckv")

// ITable is the composite-key view of a store. Every method touches exactly one key.
type ITable interface {
	// Get returns the record stored under key. ok is false if there is none.
	Get(key ckey.Key) (rec codec.Record, ok bool, err error)
	// Put inserts or overwrites the record stored under key.
	Put(key ckey.Key, rec codec.Record) (err error)
	// PutIfAbsent inserts rec only if key is free and reports whether it did.
	PutIfAbsent(key ckey.Key, rec codec.Record) (inserted bool, err error)
	// Remove deletes key and reports whether it existed.
	Remove(key ckey.Key) (removed bool, err error)
	// Contains reports whether key exists.
	Contains(key ckey.Key) (ok bool, err error)
}

// Options configures the locking of scoped transactions
type Options struct {
	// LockLease is the lease of a collection lock in store writes (0 = no lease).
	LockLease uint64
	// LockWait bounds how long a transaction waits for its collection lock.
	LockWait time.Duration
	// Backoff bounds the pause between two lock attempts.
	Backoff lockmgr.Backoff
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		LockLease: 1_000_000,
		LockWait:  5 * time.Second,
		Backoff:   lockmgr.DefaultBackoff,
	}
}

// Table is a composite-key store on top of a store.IStore.
// Its own methods go straight to the store; multi-key sequences use Update or View.
type Table struct {
	store store.IStore
	codec codec.ICodec
	locks lockmgr.ILockManager
	opts  Options
}

// NewTable creates a table that stores records encoded with c in s
func NewTable(s store.IStore, c codec.ICodec, opts Options) *Table {
	return &Table{
		store: s,
		codec: c,
		locks: lockmgr.NewLockManagerWithBackoff(s, opts.Backoff),
		opts:  opts,
	}
}

// Codec returns the codec records are encoded with
func (t *Table) Codec() codec.ICodec { return t.codec }

// Store returns the underlying store
func (t *Table) Store() store.IStore { return t.store }

// --------------------------------------------------------------------------
// Interface Methods (docu see ITable)
// --------------------------------------------------------------------------

func (t *Table) Get(key ckey.Key) (codec.Record, bool, error) {
	raw, ok, err := t.store.Get(key.Encode())
	if err != nil || !ok {
		return codec.Record{}, false, err
	}
	var rec codec.Record
	if err := t.codec.Decode(raw, &rec); err != nil {
		return codec.Record{}, false, store.NewError(store.RetCInternalError, "failed to decode "+key.String()+": "+err.Error())
	}
	return rec, true, nil
}

func (t *Table) Put(key ckey.Key, rec codec.Record) error {
	raw, err := t.codec.Encode(rec)
	if err != nil {
		return err
	}
	return t.store.Set(key.Encode(), raw)
}

func (t *Table) PutIfAbsent(key ckey.Key, rec codec.Record) (bool, error) {
	raw, err := t.codec.Encode(rec)
	if err != nil {
		return false, err
	}
	return t.store.SetIfUnset(key.Encode(), raw, 0)
}

func (t *Table) Remove(key ckey.Key) (bool, error) {
	return t.store.Delete(key.Encode())
}

func (t *Table) Contains(key ckey.Key) (bool, error) {
	return t.store.Has(key.Encode())
}

var _ ITable = (*Table)(nil)
