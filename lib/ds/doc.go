/*
Package ds provides Redis-like collections on top of any store.IStore.

The store only offers point operations on single keys (get, set, set-if-unset, delete,
has). Every collection is mapped onto composite keys (see package ckey) and every
operation that touches more than one key runs as a scoped transaction: it takes a lock
on the collection, journals each key before its first write and rolls the journal back
if anything fails (see package ckv).

Structures:

  - list:  ordered list with dense integer indices (PushLeft, PushRight, Index, PopLeft, ...)
  - queue: FIFO queue with head and tail sequence numbers (Enqueue, Dequeue, Peek, Size)
  - set:   unique members (Add, Contains, Remove, Members, Intersect, Union, Diff)
  - zset:  members ordered by a float score (Add, Score, IncrementBy, Rank, Range)
  - hash:  field-value maps (Set, SetIfAbsent, Get, Delete, Fields, GetAll)
  - kv:    plain keys (Set, SetIfAbsent, Get, Exists, Delete), single key operations only

Usage:

	s := lstore.NewLocalStore(func() db.KVDB { return maple.NewMapleDB(nil) })
	d, err := ds.New(s, common.DefaultConfig())
	if err != nil {
		...
	}
	d.List().PushRight("todo", []byte("task1"))
	d.ZSet().IncrementBy("scores", "alice", 50)

Collections of different types live in separate key spaces, a list and a set may share
a name. The structures hold no state of their own; any number of DS instances (also in
different processes, when the store is shared via raft) can work on the same store.
*/
package ds
