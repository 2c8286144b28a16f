package lockmgr

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("lockmgr")

// Backoff bounds the wait between two attempts of a blocking Acquire
type Backoff struct {
	Min time.Duration
	Max time.Duration
}

// DefaultBackoff starts at one millisecond and caps at 50 milliseconds
var DefaultBackoff = Backoff{Min: time.Millisecond, Max: 50 * time.Millisecond}

type lockMgrImpl struct {
	store   store.IStore
	backoff Backoff
}

// NewLockManager creates a lock manager with the default backoff
func NewLockManager(store store.IStore) ILockManager {
	return NewLockManagerWithBackoff(store, DefaultBackoff)
}

// NewLockManagerWithBackoff creates a lock manager that waits between min and max for blocking acquires
func NewLockManagerWithBackoff(store store.IStore, backoff Backoff) ILockManager {
	if backoff.Min <= 0 {
		backoff.Min = DefaultBackoff.Min
	}
	if backoff.Max < backoff.Min {
		backoff.Max = backoff.Min
	}
	return &lockMgrImpl{
		store:   store,
		backoff: backoff,
	}
}

func (lm *lockMgrImpl) AcquireLock(key string, lease uint64) (bool, []byte, error) {
	ownerID := generateOwnerID()

	// Try to acquire the lock (by setting the value only if it doesn't exist - atomic CAS operation)
	inserted, err := lm.store.SetIfUnset(key, ownerID, lease)
	if err != nil {
		return false, nil, err
	}
	if !inserted {
		return false, nil, nil
	}
	return true, ownerID, nil
}

func (lm *lockMgrImpl) Acquire(ctx context.Context, key string, lease uint64) ([]byte, error) {
	wait := lm.backoff.Min
	attempts := 0
	for {
		attempts++
		ok, ownerID, err := lm.AcquireLock(key, lease)
		if err != nil {
			return nil, err
		}
		if ok {
			if attempts > 1 {
				log.Debugf("acquired %q after %d attempts", key, attempts)
			}
			return ownerID, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, store.NewError(store.RetCConflict,
				fmt.Sprintf("lock %q not acquired after %d attempts: %v", key, attempts, ctx.Err()))
		case <-timer.C:
		}
		wait = nextBackoff(wait, lm.backoff.Max)
	}
}

func (lm *lockMgrImpl) ReleaseLock(key string, ownerID []byte) (bool, error) {
	// Check if the lock exists
	value, ok, err := lm.store.Get(key)
	if err != nil || !ok {
		return err == nil, err
	}

	// Check if the lock is owned by us
	if !bytes.Equal(ownerID, value) {
		return false, nil
	}

	if _, err := lm.store.Delete(key); err != nil {
		return false, err
	}
	return true, nil
}

func (lm *lockMgrImpl) HoldsLock(key string, ownerID []byte) (bool, error) {
	value, ok, err := lm.store.Get(key)
	if err != nil || !ok {
		return false, err
	}
	return bytes.Equal(ownerID, value), nil
}
