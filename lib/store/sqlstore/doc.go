// Package sqlstore implements store.IStore on top of SQLite (mattn/go-sqlite3).
//
// Every entry is a row of the entries table with the store key as primary key, so
// SetIfUnset maps to INSERT ... ON CONFLICT and its uniqueness comes from the primary
// key constraint. Delete reports rows affected. Leases are measured in write-index
// ticks like in the other stores: the write index is kept in memory, incremented on
// every write and restored from the highest stored index when the database is reopened.
package sqlstore
