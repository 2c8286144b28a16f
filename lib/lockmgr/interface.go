package lockmgr

import "context"

// ILockManager defines the interface for a lock provider.
type ILockManager interface {
	// AcquireLock tries once to acquire the lock for the given key.
	// lease > 0 releases the lock automatically after lease writes to the store.
	// Return a boolean indicating whether the lock was acquired, an owner ID, and an error if any.
	AcquireLock(key string, lease uint64) (ok bool, ownerID []byte, err error)

	// Acquire blocks until the lock for the given key is acquired or ctx is done.
	// Attempts are retried with exponential backoff. If ctx ends first a *store.Error
	// with code store.RetCConflict is returned.
	Acquire(ctx context.Context, key string, lease uint64) (ownerID []byte, err error)

	// ReleaseLock releases the lock for the given key.
	// Return a boolean indicating whether the lock was released, and an error if any.
	// The method will also return true if the lock did not exist.
	ReleaseLock(key string, ownerID []byte) (ok bool, err error)

	// HoldsLock reports whether the lock for the given key is still held by ownerID.
	// It is false once the lease ran out, even if nobody else took the lock yet.
	HoldsLock(key string, ownerID []byte) (ok bool, err error)
}
