package maple

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple/internal"
	"github.com/ValentinKolb/dStruct/lib/db/util"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	magicNum          = "MAPLEDB\x00"          // File format identifier
	mapleVersion      = 4                      // Snapshot format version
	defaultGCInterval = 100 * time.Millisecond // Default interval between GC runs
)

// --------------------------------------------------------------------------
// Core Maple database structure
// --------------------------------------------------------------------------

// mapleImpl implements a sharded in-memory database
type mapleImpl struct {
	numShards int
	seed      uint64
	shards    []*internal.Shard
	currIndex atomic.Uint64 // logical clock, drives lease expiry

	// garbage collection
	gcInterval time.Duration
	gcMu       sync.Mutex
	gcStop     chan struct{}
	gcDone     sync.WaitGroup
}

// DBOptions configures the mapleImpl behavior during initialization
type DBOptions struct {
	NumShards  int           // Number of shards (0 = number of CPUs)
	GCInterval time.Duration // Time between lease sweeps (0 = default)
}

// DefaultOptions returns the default mapleImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		NumShards:  runtime.NumCPU(),
		GCInterval: defaultGCInterval,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMapleDB creates a new MapleDB instance with the specified options (optional)
//
// Thread-safety: This function is not thread-safe and should only be called once
// during initialization.
func NewMapleDB(opts *DBOptions) db.KVDB {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.NumShards <= 0 {
		opts.NumShards = runtime.NumCPU()
	}
	if opts.GCInterval <= 0 {
		opts.GCInterval = defaultGCInterval
	}

	newDB := &mapleImpl{
		numShards:  opts.NumShards,
		seed:       util.GenerateSeed(),
		gcInterval: opts.GCInterval,
	}
	newDB.shards = newDB.newShards()

	newDB.startGC()
	return newDB
}

func (maple *mapleImpl) newShards() []*internal.Shard {
	hasher := createIdentityHasher()
	shards := make([]*internal.Shard, maple.numShards)
	for i := range shards {
		shards[i] = internal.NewShard(hasher)
	}
	return shards
}

// --------------------------------------------------------------------------
// Hash Helper Functions
// --------------------------------------------------------------------------

// StringToUint64 converts a string to a util.UintKey with hashing
// and applies the mapleImpl seed to ensure uniqueness between mapleImpl instances
func (maple *mapleImpl) StringToUint64(s string) util.UintKey {
	return util.HashString(s, maple.seed)
}

// createIdentityHasher creates a hash function that combines a key with a seed
func createIdentityHasher() func(util.UintKey, uint64) uint64 {
	return func(key util.UintKey, mapSeed uint64) uint64 {
		return uint64(key) ^ mapSeed
	}
}

func (maple *mapleImpl) locate(key string) (util.UintKey, *internal.Shard) {
	intKey := maple.StringToUint64(key)
	return intKey, internal.GetShard(intKey, maple.shards)
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry. Writes with a write index lower than the
// index stored with the entry are stale and ignored.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Set(key string, value []byte, writeIndex uint64) {
	maple.SetWriteIdx(writeIndex)
	intKey, shard := maple.locate(key)

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	shard.Data.Compute(intKey, func(old internal.Entry, loaded bool) (internal.Entry, bool) {
		if loaded && writeIndex < old.Index {
			return old, false
		}
		return internal.Entry{Value: valueCopy, Index: writeIndex}, false
	})
}

// SetIfUnset inserts an entry only if no live entry exists for the key.
// With deleteIn > 0 the entry carries a lease and is removed once the write
// index reaches writeIndex+deleteIn.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) SetIfUnset(key string, value []byte, writeIndex uint64, deleteIn uint64) bool {
	maple.SetWriteIdx(writeIndex)
	intKey, shard := maple.locate(key)

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	var deleteAt uint64
	if deleteIn > 0 {
		deleteAt = writeIndex + deleteIn
	}

	inserted := false
	shard.Data.Compute(intKey, func(old internal.Entry, loaded bool) (internal.Entry, bool) {
		if loaded && (writeIndex < old.Index || !old.Expired(writeIndex)) {
			return old, false
		}
		inserted = true
		return internal.Entry{Value: valueCopy, DeleteAt: deleteAt, Index: writeIndex}, false
	})

	// the lease is registered after the entry exists, the sweeper double-checks anyway
	if inserted && deleteAt != 0 {
		shard.Schedule(intKey, deleteAt)
	}
	return inserted
}

// Delete removes an entry and reports whether a live entry was removed.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Delete(key string, writeIndex uint64) bool {
	maple.SetWriteIdx(writeIndex)
	intKey, shard := maple.locate(key)

	deleted := false
	shard.Data.Compute(intKey, func(old internal.Entry, loaded bool) (internal.Entry, bool) {
		if !loaded {
			return old, true // nothing to delete, do not create the key
		}
		if writeIndex < old.Index {
			return old, false
		}
		deleted = !old.Expired(writeIndex)
		return old, true
	})
	return deleted
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves a value for a key.
// The returned value is a copy of the stored data and therefore safe to use and modify.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Get(key string) ([]byte, bool) {
	intKey, shard := maple.locate(key)

	e, ok := shard.Data.Load(intKey)
	if !ok || e.Expired(maple.currIndex.Load()) {
		return nil, false
	}

	data := make([]byte, len(e.Value))
	copy(data, e.Value)
	return data, true
}

// Has checks if a live entry exists for the key.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Has(key string) bool {
	intKey, shard := maple.locate(key)

	e, ok := shard.Data.Load(intKey)
	return ok && !e.Expired(maple.currIndex.Load())
}

// --------------------------------------------------------------------------
// Garbage Collection
// --------------------------------------------------------------------------

// startGC starts the lease sweeper if it is not running.
func (maple *mapleImpl) startGC() {
	maple.gcMu.Lock()
	defer maple.gcMu.Unlock()
	if maple.gcStop != nil {
		return
	}
	stop := make(chan struct{})
	maple.gcStop = stop
	maple.gcDone.Add(1)
	go maple.garbageCollector(stop)
}

// stopGC stops the lease sweeper and waits for it to exit.
func (maple *mapleImpl) stopGC() {
	maple.gcMu.Lock()
	stop := maple.gcStop
	maple.gcStop = nil
	maple.gcMu.Unlock()

	if stop != nil {
		close(stop)
		maple.gcDone.Wait()
	}
}

// garbageCollector removes entries whose lease ran out.
// WARNING: this method should never be called directly, use startGC() and stopGC()
func (maple *mapleImpl) garbageCollector(stop <-chan struct{}) {
	defer maple.gcDone.Done()

	ticker := time.NewTicker(maple.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// read once per cycle so a busy writer cannot keep the sweep going forever
			writeIndex := maple.currIndex.Load()
			for _, shard := range maple.shards {
				maple.sweep(shard, writeIndex)
			}
		}
	}
}

// sweep deletes the expired entries of one shard
func (maple *mapleImpl) sweep(shard *internal.Shard, writeIndex uint64) {
	shard.Mu.Lock()
	due := shard.Leases.Expired(writeIndex)
	shard.Mu.Unlock()

	for _, lease := range due {
		shard.Data.Compute(lease.Key, func(e internal.Entry, loaded bool) (internal.Entry, bool) {
			if !loaded {
				return e, true
			}
			// the entry may have been rewritten without a lease in the meantime
			return e, e.Expired(writeIndex)
		})
	}
}

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save writes a fuzzy snapshot of the database to w.
// Concurrent writes are allowed, the snapshot is not a consistent cut.
func (maple *mapleImpl) Save(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1024*1024)

	type savedEntry struct {
		key   util.UintKey
		entry internal.Entry
	}

	writeIndex := maple.currIndex.Load()
	var entries []savedEntry
	for _, shard := range maple.shards {
		shard.Data.Range(func(key util.UintKey, entry internal.Entry) bool {
			if entry.Expired(writeIndex) {
				return true
			}
			entries = append(entries, savedEntry{key, entry})
			return true
		})
	}

	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}

	header := []any{uint8(mapleVersion), maple.seed, writeIndex, uint64(len(entries))}
	for _, field := range header {
		if err := binary.Write(bw, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	for _, item := range entries {
		fields := []any{uint64(item.key), item.entry.DeleteAt, item.entry.Index, uint32(len(item.entry.Value))}
		for _, field := range fields {
			if err := binary.Write(bw, binary.LittleEndian, field); err != nil {
				return err
			}
		}
		if _, err := bw.Write(item.entry.Value); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load replaces the database content with a snapshot written by Save.
//
// Thread-safety: This function is not thread-safe and should not be called concurrently
func (maple *mapleImpl) Load(r io.Reader) error {
	maple.stopGC()
	defer maple.startGC()

	br := bufio.NewReaderSize(r, 1024*1024)

	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return err
	}
	if string(magicBytes) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	var (
		version    uint8
		seed       uint64
		writeIndex uint64
		count      uint64
	)
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if int(version) != mapleVersion {
		return fmt.Errorf("unsupported version: %d (expected %d)", version, mapleVersion)
	}
	for _, field := range []any{&seed, &writeIndex, &count} {
		if err := binary.Read(br, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	maple.seed = seed
	maple.shards = maple.newShards()
	maple.currIndex.Store(0)

	for i := uint64(0); i < count; i++ {
		var (
			key      uint64
			deleteAt uint64
			index    uint64
			valueLen uint32
		)
		for _, field := range []any{&key, &deleteAt, &index, &valueLen} {
			if err := binary.Read(br, binary.LittleEndian, field); err != nil {
				return err
			}
		}
		value := make([]byte, valueLen)
		if _, err := io.ReadFull(br, value); err != nil {
			return err
		}

		intKey := util.UintKey(key)
		shard := internal.GetShard(intKey, maple.shards)
		shard.Data.Store(intKey, internal.Entry{Value: value, DeleteAt: deleteAt, Index: index})
		if deleteAt != 0 {
			shard.Leases.Schedule(intKey, deleteAt) // single threaded here, no lock needed
		}
	}

	maple.SetWriteIdx(writeIndex)
	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

const supportedFeatures = db.FeatureSet |
	db.FeatureSetIfUnset |
	db.FeatureGet |
	db.FeatureDelete |
	db.FeatureHas |
	db.FeatureSave |
	db.FeatureLoad |
	db.FeatureGarbageCollect

// GetInfo returns statistics about the database
func (maple *mapleImpl) GetInfo() db.DatabaseInfo {
	shardSizes := make([]int, len(maple.shards))
	pendingLeases := 0
	total := 0
	for i, shard := range maple.shards {
		shardSizes[i] = shard.Data.Size()
		total += shardSizes[i]

		shard.Mu.Lock()
		pendingLeases += shard.Leases.Len()
		shard.Mu.Unlock()
	}

	meta := &struct {
		CurrentWriteIndex uint64 `json:"current_write_index"`
		ShardCount        int    `json:"shard_count"`
		ShardSizes        []int  `json:"shard_sizes"`
		PendingLeases     int    `json:"pending_leases"`
	}{
		CurrentWriteIndex: maple.currIndex.Load(),
		ShardCount:        len(maple.shards),
		ShardSizes:        shardSizes,
		PendingLeases:     pendingLeases,
	}

	return db.DatabaseInfo{
		Entries: total,
		DbType:  db.ImplMaple,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureSetIfUnset,
			db.FeatureGet, db.FeatureHas, db.FeatureDelete,
			db.FeatureSave, db.FeatureLoad,
			db.FeatureGarbageCollect,
		},
		Metadata: meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (maple *mapleImpl) SupportsFeature(feature db.Feature) bool {
	return supportedFeatures&feature == feature
}

// Close stops the garbage collector
func (maple *mapleImpl) Close() error {
	maple.stopGC()
	return nil
}

// --------------------------------------------------------------------------
// Index and Timestamp Management
// --------------------------------------------------------------------------

// SetWriteIdx safely updates the current index.
// It only updates if the new index is greater than the current one.
func (maple *mapleImpl) SetWriteIdx(newIdx uint64) {
	for {
		currIdx := maple.currIndex.Load()
		if newIdx <= currIdx {
			return
		}
		if maple.currIndex.CompareAndSwap(currIdx, newIdx) {
			return
		}
	}
}

// WriteIdx returns the current index of the database
func (maple *mapleImpl) WriteIdx() uint64 {
	return maple.currIndex.Load()
}
