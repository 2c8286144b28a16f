package queue

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/ds/common"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("dstruct")

const structure = "queue"

// Queue stores every queue as items keyed by a monotonic sequence number and a
// metadata record (Head, Tail). The queue holds the items Head..Tail-1.
type Queue struct {
	table *ckv.Table
}

// New creates the queue operations on top of table
func New(table *ckv.Table) *Queue {
	return &Queue{table: table}
}

func itemKey(name string, seq uint64) ckey.Key {
	return ckey.New(ckey.KindQueueItem, name, ckey.Int(int64(seq)))
}

func metaKey(name string) ckey.Key {
	return ckey.New(ckey.KindQueueMeta, name, ckey.None())
}

// Init creates the metadata of an empty queue if it does not exist yet.
// It reports whether the queue was created. Enqueue does not require it.
func (q *Queue) Init(name string) (created bool, err error) {
	defer common.Observe(structure, "init", time.Now(), &err)
	return q.table.PutIfAbsent(metaKey(name), codec.Record{})
}

// Enqueue appends value at the tail and returns the new size
func (q *Queue) Enqueue(name string, value []byte) (n uint64, err error) {
	defer common.Observe(structure, "enqueue", time.Now(), &err)

	err = q.table.Update(metaKey(name), func(tx ckv.ITable) error {
		meta, _, err := tx.Get(metaKey(name))
		if err != nil {
			return err
		}
		if err := tx.Put(itemKey(name, meta.Tail), codec.Record{Value: value}); err != nil {
			return err
		}
		meta.Tail++
		n = meta.Tail - meta.Head
		return tx.Put(metaKey(name), meta)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Dequeue removes and returns the element at the head. ok is false if the queue is empty.
func (q *Queue) Dequeue(name string) (value []byte, ok bool, err error) {
	defer common.Observe(structure, "dequeue", time.Now(), &err)

	err = q.table.Update(metaKey(name), func(tx ckv.ITable) error {
		meta, _, err := tx.Get(metaKey(name))
		if err != nil || meta.Head == meta.Tail {
			return err
		}
		rec, err := head(tx, name, meta)
		if err != nil {
			return err
		}
		if _, err := tx.Remove(itemKey(name, meta.Head)); err != nil {
			return err
		}
		meta.Head++
		value, ok = rec.Value, true
		return tx.Put(metaKey(name), meta)
	})
	if err != nil {
		return nil, false, err
	}
	return value, ok, nil
}

// Peek returns the element at the head without removing it
func (q *Queue) Peek(name string) (value []byte, ok bool, err error) {
	defer common.Observe(structure, "peek", time.Now(), &err)

	err = q.table.View(metaKey(name), func(tx ckv.ITable) error {
		meta, _, err := tx.Get(metaKey(name))
		if err != nil || meta.Head == meta.Tail {
			return err
		}
		rec, err := head(tx, name, meta)
		if err != nil {
			return err
		}
		value, ok = rec.Value, true
		return nil
	})
	return value, ok, err
}

// Size returns Tail - Head, 0 if the queue does not exist
func (q *Queue) Size(name string) (n uint64, err error) {
	defer common.Observe(structure, "size", time.Now(), &err)

	meta, _, err := q.table.Get(metaKey(name))
	if err != nil {
		return 0, err
	}
	return meta.Tail - meta.Head, nil
}

func head(tx ckv.ITable, name string, meta codec.Record) (codec.Record, error) {
	rec, ok, err := tx.Get(itemKey(name, meta.Head))
	if err != nil {
		return codec.Record{}, err
	}
	if !ok {
		log.Errorf("queue %s: item %d missing (head=%d, tail=%d)", name, meta.Head, meta.Head, meta.Tail)
		return codec.Record{}, store.NewError(store.RetCInternalError, fmt.Sprintf("queue %s is missing item %d", name, meta.Head))
	}
	return rec, nil
}
