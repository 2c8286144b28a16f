// Package util provides small building blocks shared by db.KVDB implementations.
//
// The package contains:
//   - functions: seed generation and the FNV-1a based key hash
//   - leaseheap: a min-heap of key deadlines with key based removal, used to
//     collect entries whose lease ran out
package util
