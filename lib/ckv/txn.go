package ckv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/google/uuid"
)

// --------------------------------------------------------------------------
// Scoped transactions
// --------------------------------------------------------------------------

// Update runs fn while holding the lock of the collection scope belongs to.
// Every key fn writes is journaled on first touch. If fn returns an error (or panics)
// all touched keys are restored in reverse order before the lock is released.
// A failing restore is reported together with the original error.
//
// The lock lease (Options.LockLease) counts writes to the whole store, not only the
// writes of this transaction. If the lease runs out before fn returns, other callers
// may have entered the collection concurrently. Update detects this before it reports
// success and returns a store.RetCConflict error instead. The writes of fn are kept
// in that case, a rollback could overwrite what the new lock holder wrote.
//
// Update must not be nested for the same collection, the lock is not reentrant.
func (t *Table) Update(scope ckey.Key, fn func(tx ITable) error) (err error) {
	owner, lockKey, err := t.lock(scope)
	if err != nil {
		return err
	}
	defer t.unlock(lockKey, owner)

	tx := &txTable{table: t, id: uuid.New()}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.rollback(); rbErr != nil {
				log.Errorf("txn %s: rollback after panic failed: %v", tx.id, rbErr)
			}
			txRollbacks.Inc()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		txRollbacks.Inc()
		log.Warningf("txn %s on %s failed, rolling back %d keys: %v", tx.id, scope, len(tx.journal), err)
		if rbErr := tx.rollback(); rbErr != nil {
			txRollbackFailures.Inc()
			return errors.Join(err, fmt.Errorf("rollback of txn %s failed: %w", tx.id, rbErr))
		}
		return err
	}

	held, err := t.locks.HoldsLock(lockKey, owner)
	if err != nil {
		return err
	}
	if !held {
		lockExpiries.Inc()
		log.Errorf("txn %s on %s: lock lease of %d writes ran out after %d keys", tx.id, scope, t.opts.LockLease, len(tx.journal))
		return store.NewError(store.RetCConflict,
			fmt.Sprintf("lock on %s expired during the transaction, %d keys were written without mutual exclusion", scope, len(tx.journal)))
	}

	txCommits.Inc()
	return nil
}

// View runs fn while holding the lock of the collection scope belongs to.
// The table passed to fn is read-only, writes fail with store.RetCInvalidOperation.
func (t *Table) View(scope ckey.Key, fn func(tx ITable) error) error {
	owner, lockKey, err := t.lock(scope)
	if err != nil {
		return err
	}
	defer t.unlock(lockKey, owner)

	return fn(readOnlyTable{t})
}

func (t *Table) lock(scope ckey.Key) ([]byte, string, error) {
	lockKey := scope.Lock().Encode()

	ctx, cancel := context.WithTimeout(context.Background(), t.opts.LockWait)
	defer cancel()

	start := time.Now()
	owner, err := t.locks.Acquire(ctx, lockKey, t.opts.LockLease)
	lockWait.UpdateDuration(start)
	if err != nil {
		var se *store.Error
		if errors.As(err, &se) && se.Code == store.RetCConflict {
			lockTimeouts.Inc()
			log.Debugf("lock on %s not acquired within %s", scope, t.opts.LockWait)
		}
		return nil, "", err
	}
	return owner, lockKey, nil
}

func (t *Table) unlock(lockKey string, owner []byte) {
	released, err := t.locks.ReleaseLock(lockKey, owner)
	if err != nil {
		// the lease frees the lock eventually
		log.Errorf("failed to release lock: %v", err)
		return
	}
	if !released {
		log.Warningf("lock was taken over before release, its lease ran out")
	}
}

// --------------------------------------------------------------------------
// Journaling table
// --------------------------------------------------------------------------

// beforeImage is the raw state of a key before the transaction first wrote it
type beforeImage struct {
	key     string
	raw     []byte
	existed bool
}

type txTable struct {
	table   *Table
	id      uuid.UUID
	journal []beforeImage
	touched map[string]struct{}
}

// remember journals the current state of key if this is the first write to it
func (tx *txTable) remember(key string) error {
	if _, ok := tx.touched[key]; ok {
		return nil
	}
	raw, existed, err := tx.table.store.Get(key)
	if err != nil {
		return err
	}
	if tx.touched == nil {
		tx.touched = make(map[string]struct{})
	}
	tx.touched[key] = struct{}{}
	tx.journal = append(tx.journal, beforeImage{key: key, raw: raw, existed: existed})
	return nil
}

// rollback restores all journaled keys, newest first. It keeps going after a
// failure so that as many keys as possible are restored.
func (tx *txTable) rollback() error {
	var errs []error
	for i := len(tx.journal) - 1; i >= 0; i-- {
		img := tx.journal[i]
		var err error
		if img.existed {
			err = tx.table.store.Set(img.key, img.raw)
		} else {
			_, err = tx.table.store.Delete(img.key)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %q: %w", img.key, err))
		}
	}
	tx.journal = nil
	tx.touched = nil
	return errors.Join(errs...)
}

func (tx *txTable) Get(key ckey.Key) (codec.Record, bool, error) {
	return tx.table.Get(key)
}

func (tx *txTable) Contains(key ckey.Key) (bool, error) {
	return tx.table.Contains(key)
}

func (tx *txTable) Put(key ckey.Key, rec codec.Record) error {
	if err := tx.remember(key.Encode()); err != nil {
		return err
	}
	return tx.table.Put(key, rec)
}

func (tx *txTable) PutIfAbsent(key ckey.Key, rec codec.Record) (bool, error) {
	if err := tx.remember(key.Encode()); err != nil {
		return false, err
	}
	return tx.table.PutIfAbsent(key, rec)
}

func (tx *txTable) Remove(key ckey.Key) (bool, error) {
	if err := tx.remember(key.Encode()); err != nil {
		return false, err
	}
	return tx.table.Remove(key)
}

// --------------------------------------------------------------------------
// Read-only table
// --------------------------------------------------------------------------

type readOnlyTable struct {
	table *Table
}

var errReadOnly = store.NewError(store.RetCInvalidOperation, "write inside a read-only view")

func (r readOnlyTable) Get(key ckey.Key) (codec.Record, bool, error) { return r.table.Get(key) }
func (r readOnlyTable) Contains(key ckey.Key) (bool, error)          { return r.table.Contains(key) }
func (r readOnlyTable) Put(ckey.Key, codec.Record) error             { return errReadOnly }
func (r readOnlyTable) PutIfAbsent(ckey.Key, codec.Record) (bool, error) {
	return false, errReadOnly
}
func (r readOnlyTable) Remove(ckey.Key) (bool, error) { return false, errReadOnly }
