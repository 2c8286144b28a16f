// Package kv implements plain string keys (like Redis SET, GET, EXISTS and DEL).
// Every operation touches exactly one key, so none of them takes a lock.
package kv

import (
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/ds/common"
)

const structure = "kv"

// KV stores one record per key under (kv, key)
type KV struct {
	table *ckv.Table
}

// New creates the key-value operations on top of table
func New(table *ckv.Table) *KV {
	return &KV{table: table}
}

func valueKey(key string) ckey.Key {
	return ckey.New(ckey.KindValue, key, ckey.None())
}

// Set writes value to key, overwriting any previous value
func (kv *KV) Set(key string, value []byte) (err error) {
	defer common.Observe(structure, "set", time.Now(), &err)
	return kv.table.Put(valueKey(key), codec.Record{Value: value})
}

// SetIfAbsent writes value only if key does not exist and reports whether it did
func (kv *KV) SetIfAbsent(key string, value []byte) (created bool, err error) {
	defer common.Observe(structure, "set_if_absent", time.Now(), &err)
	return kv.table.PutIfAbsent(valueKey(key), codec.Record{Value: value})
}

// Get returns the value of key
func (kv *KV) Get(key string) (value []byte, ok bool, err error) {
	defer common.Observe(structure, "get", time.Now(), &err)

	rec, ok, err := kv.table.Get(valueKey(key))
	if err != nil || !ok {
		return nil, false, err
	}
	if rec.Value == nil {
		rec.Value = []byte{}
	}
	return rec.Value, true, nil
}

// Exists reports whether key exists
func (kv *KV) Exists(key string) (ok bool, err error) {
	defer common.Observe(structure, "exists", time.Now(), &err)
	return kv.table.Contains(valueKey(key))
}

// Delete removes key and reports whether it existed
func (kv *KV) Delete(key string) (removed bool, err error) {
	defer common.Observe(structure, "delete", time.Now(), &err)
	return kv.table.Remove(valueKey(key))
}
