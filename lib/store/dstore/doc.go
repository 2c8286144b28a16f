// Package dstore implements store.IStore on top of the Dragonboat RAFT consensus library.
// Every write is proposed to a RAFT shard and applied by a state machine that owns a
// db.KVDB, so all replicas apply the same writes in the same order.
//
// Architecture:
//
//   - Store Client (store.go): serializes operations into commands, proposes them with
//     SyncPropose and reads the outcome from the state machine result. SetIfUnset and
//     Delete get their inserted/deleted flag back through sm.Result.Data.
//
//   - State Machine (statemachine.go): a Dragonboat IConcurrentStateMachine. The RAFT log
//     index of an entry is used as its write index, so leases are measured in log entries.
//
//   - Node setup (node.go): NodeConfig and StartNode create a NodeHost, start the replica
//     and wait for a leader. A single replica cluster is the default, which gives a durable
//     local store (the log and snapshots live in DataDir).
//
// Read Operations:
//
//   - Linearizable Reads: Get and Has use SyncRead.
//   - Stale Reads: GetDBInfo uses StaleRead.
//
// Error Handling and Retries:
//
//	When Dragonboat returns ErrSystemBusy the operation is retried after a short delay,
//	up to five times. Every attempt is bounded by the configured timeout.
//
// Snapshotting and Recovery:
//
//	Snapshots are fuzzy and written with db.KVDB.Save. On restart a replica loads the
//	latest snapshot with db.KVDB.Load and replays the log entries committed after it.
//
// Example:
//
//	conf := dstore.DefaultNodeConfig("data")
//	nh, s, err := dstore.StartNode(conf, func() db.KVDB { return maple.NewMapleDB(nil) })
//	if err != nil { ... }
//	defer nh.Close()
//
//	inserted, err := s.SetIfUnset("k", []byte("v"), 0)
package dstore
