// Package ckv is the composite-key store the data structures are built on.
//
// A Table maps ckey.Key to codec.Record on top of any store.IStore. Single-key
// operations are forwarded to the store and are atomic there. Sequences that touch
// several keys run in a scoped transaction:
//
//   - Update takes the lock of the collection (through lockmgr, with a lease so a
//     crashed process cannot block the collection forever), journals the before-image
//     of every key on its first write and, if the sequence fails, restores the journal
//     in reverse order. The lock is released on every path.
//
//   - View takes the same lock without journaling and rejects writes. Multi-key reads
//     use it to see a consistent collection.
//
// The lock serializes writers of one collection against each other. Transactions on
// different collections do not block each other.
package ckv
