// Package internal contains the RAFT log format of the dstore package.
//
//   - Command: a write (Set, SetIfUnset, Delete) that is serialized and proposed to the
//     RAFT shard. The state machine answers with the RetCode in sm.Result.Value and, for
//     SetIfUnset and Delete, a one byte flag in sm.Result.Data telling whether the entry
//     was inserted or removed.
//
//   - Query: a read (Get, Has, GetDBInfo). Queries are executed locally on the state
//     machine and are never serialized.
//
// Command Format:
//
//	- 1 byte: Command type
//	- 8 bytes: DeleteIn (uint64, big endian), the lease length in write-index ticks
//	- 4 bytes: Key length (uint32, big endian)
//	- N bytes: Key data
//	- M bytes: Value data (optional)
package internal
