// Package maple implements an in-memory key-value database (KVDB) with
// sharded concurrent access and lease based deletion. It provides a complete
// implementation of the db.KVDB interface.
//
// Key Components:
//
//   - mapleImpl: The central database structure implementing db.KVDB. It manages shards,
//     runs the lease sweeper and keeps the write index. The write index is not generated
//     by the database, callers pass it with every write and the database only keeps the
//     maximum it has seen.
//
//   - Shard: A partition of the key space. Each shard holds an xsync.MapOf with the
//     entries and a lease heap guarded by the shard mutex.
//
//   - Entry: Value, lease deadline and the write index the entry was written at.
//
// Internal Mechanisms:
//
//   - Sharding Strategy: string keys are hashed with FNV-1a and a per-database seed, the
//     integer key is right-shifted by 7 bits and taken modulo the shard count.
//
//   - Stale Write Prevention: a write is only applied if its write index is greater than
//     or equal to the index stored with the entry.
//
//   - Conditional Writes: SetIfUnset runs inside xsync.MapOf.Compute, so concurrent callers
//     racing for the same key see exactly one winner. This is what lock managers build on.
//
//   - Leases: SetIfUnset with deleteIn > 0 stores the deadline in the entry and pushes it
//     onto the shard's lease heap. Reads treat an entry whose deadline is reached as absent.
//     A single sweeper goroutine wakes up every GCInterval, pops the due leases of each shard
//     and deletes the entries that are still expired (a key may have been rewritten since).
//
//   - Persistence Format:
//     1. Magic number "MAPLEDB\x00"
//     2. Version number (currently 4)
//     3. Database seed, write index and number of entries
//     4. For each entry: key, lease deadline, index, value length, value bytes
//     Snapshots are fuzzy: Save does not stop writers. Load replaces the full content and
//     must not run concurrently with other calls.
package maple
