package internal

import (
	"sync"

	"github.com/ValentinKolb/dStruct/lib/db/util"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Entry Type (key-value pair with metadata)
// --------------------------------------------------------------------------

// Entry stores a value with its write metadata
type Entry struct {
	Value    []byte // Stored data
	DeleteAt uint64 // Lease deadline (0 = no lease)
	Index    uint64 // Write index when this entry was created/updated
}

// Expired reports whether the lease of the entry ran out at the given write index
func (e Entry) Expired(writeIdx uint64) bool {
	return e.DeleteAt != 0 && writeIdx >= e.DeleteAt
}

// --------------------------------------------------------------------------
// Shard Type (partition of the database)
// --------------------------------------------------------------------------

// Shard represents a partition of the database.
// Data is safe for concurrent use, Leases must only be touched while holding Mu.
type Shard struct {
	Data   *xsync.MapOf[util.UintKey, Entry]
	Mu     sync.Mutex
	Leases *util.LeaseHeap
}

// NewShard creates a new shard with the provided hash function
func NewShard(hasher func(util.UintKey, uint64) uint64) *Shard {
	return &Shard{
		Data:   xsync.NewMapOfWithHasher[util.UintKey, Entry](hasher),
		Leases: util.NewLeaseHeap(),
	}
}

// Schedule registers a lease for key
func (s *Shard) Schedule(key util.UintKey, deadline uint64) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.Leases.Schedule(key, deadline)
}

// GetShard returns the appropriate shard for a given key
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func GetShard[T any](key util.UintKey, shards []*T) *T {
	// Shift right by 7 bits to use higher-quality bits for distribution
	shiftedKey := uint64(key) >> 7
	shardPos := shiftedKey % uint64(len(shards))
	return shards[shardPos]
}
