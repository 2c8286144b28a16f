// Package db provides a standardized interface for key-value database implementations.
// It defines the KVDB interface that all storage engines implement, so the store
// layer above can use any engine without knowing its internals.
//
// Key Components:
//
//   - KVDB Interface: point access by exact key (Set, SetIfUnset, Get, Has, Delete),
//     persistence (Save, Load), metadata (GetInfo) and the logical write clock
//     (SetWriteIdx, WriteIdx). There is deliberately no range scan: callers that need
//     ordering or enumeration encode it into their keys.
//
//   - Feature Flags: the Feature type defines capability flags that implementations
//     advertise through SupportsFeature.
//
//   - Database Information: DatabaseInfo reports entry counts, the implementation type
//     and implementation-specific metadata.
//
// Note on the write index:
//   - Every write carries a write index that serves as a logical timestamp. It records
//     when an entry was written and is the clock leases are measured against.
//   - Reads do not take an index, they observe the most recent write index.
//   - The write index only moves forward. Lower values passed to SetWriteIdx are ignored.
//
// Note on leases:
//   - SetIfUnset can attach a lease to the entry it creates. Once the write index reaches
//     the deadline the entry counts as absent: Get and Has must not return it even if it
//     is still physically present, and a later SetIfUnset may replace it.
//   - Implementations remove expired entries in the background.
//
// The engines/maple package (github.com/ValentinKolb/dStruct/lib/db/engines/maple)
// provides a sharded in-memory implementation of KVDB.
package db
