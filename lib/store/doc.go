// Package store provides the single-key storage interface every higher layer of
// dStruct is written against, together with the shared error type.
//
// Key Components:
//
//   - IStore Interface: point operations (Set, SetIfUnset, Delete, Get, Has) that are each
//     atomic on their own. SetIfUnset and Delete report whether they changed anything,
//     which is what the lock manager and the data structures build their invariants on.
//
//   - Error System: Error carries a RetCode and a message. Layers above the store reuse it
//     for their own failures (for example RetCConflict when a lock could not be acquired).
//
//   - DBFactory: abstracts the creation of the underlying db.KVDB for stores that wrap one.
//
// Implementations:
//
//	- Local Store (lstore): wraps a db.KVDB in process and advances the write index with
//	  an atomic counter. Available in "github.com/ValentinKolb/dStruct/lib/store/lstore".
//
//	- Distributed Store (dstore): replicates every write through the Dragonboat RAFT
//	  library. Available in "github.com/ValentinKolb/dStruct/lib/store/dstore".
//
//	- SQL Store (sqlstore): keeps the entries in a SQLite table with the key as primary key.
//	  Available in "github.com/ValentinKolb/dStruct/lib/store/sqlstore".
//
// The storetesting package contains the conformance suite all implementations pass.
package store
