// Package lockmgr implements locks on top of any store.IStore.
//
// The lock manager keeps no state of its own, everything lives in the store. It is
// therefore safe to create several lock managers on the same store, locks taken through
// one are respected by all others.
//
// Implementation Approach:
//
//	- Lock Acquisition: SetIfUnset writes a random owner ID (a UUID) to the lock key. The
//	  store guarantees that exactly one caller inserts the key, and its inserted flag tells
//	  the caller whether it won.
//
//	- Leases: a lock can carry a lease (deleteIn) so a crashed holder cannot block other
//	  callers forever. Leases are measured in store writes, which includes the attempts of
//	  waiting acquirers.
//
//	- Blocking Acquire: retries with exponential backoff between Backoff.Min and
//	  Backoff.Max until the context ends, then fails with store.RetCConflict.
//
//	- Safe Release: ReleaseLock compares the stored owner ID before deleting the key.
//	  Compare and delete are two store operations, so a holder whose lease already ran
//	  out must not rely on the release being exclusive.
package lockmgr
