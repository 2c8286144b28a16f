// Package lstore implements a local, in-process, single-node key-value store based on the
// store.IStore interface. It is a thin wrapper around any db.KVDB implementation that
// manages the write index.
//
// Implementation Details:
//
//   - Write Index Management: the store keeps an atomic counter that is incremented for
//     every write. It starts at the write index of the wrapped database, so loading a
//     snapshot before creating the store continues the logical clock.
//
//   - Leases: SetIfUnset passes deleteIn through to the database. A lease of n means the
//     entry disappears after n further writes to this store.
//
//   - Feature Detection: before executing an operation the store checks whether the
//     database supports it and returns RetCUnsupportedOperation otherwise.
//
// Usage Example:
//
//	database := maple.NewMapleDB(nil)
//	s := lstore.NewLocalStore(func() db.KVDB { return database })
//
//	inserted, err := s.SetIfUnset("lock:orders", ownerID, 1000)
//
// For replication across nodes use the dstore package, which implements the same
// interface on top of RAFT.
package lstore
