// Package cmd implements the dstruct command-line interface. It opens one of the store
// backends (maple in-memory with optional snapshot file, SQLite or a single raft
// replica) and exposes every data structure operation as a subcommand.
//
// The package is organized into several subpackages:
//
//   - structs: list, queue, set, zset and hash commands
//   - perf: parallel workload that reports per-operation latencies
//   - util: flags, configuration, backend selection and output formatting (internal use)
//
// See dstruct --help for a list of all commands.
package cmd
