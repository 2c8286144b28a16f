// Package testing provides the conformance tests and benchmarks every db.KVDB
// implementation has to pass.
//
// The suite checks the write index handling (stale writes are ignored), SetIfUnset,
// leases measured in write index ticks, Save/Load round trips and concurrent
// SetIfUnset on one key. Tests for features an implementation does not report via
// SupportsFeature are skipped.
//
// Example usage:
//
//	factory := func() db.KVDB {
//		return NewMyDatabase()
//	}
//
//	dbtesting.RunKVDBTests(t, "MyDatabase", factory)
//	dbtesting.RunKVDBBenchmarks(b, "MyDatabase", factory)
package testing
