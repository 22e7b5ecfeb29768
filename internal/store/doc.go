// Package store persists a record list in a single backing file through one
// codec.
//
// Every operation reads the whole file, works on the list in memory and
// writes the whole list back. Read and decode problems never reach the
// caller as failures: Load reports them through LoadResult.Status and hands
// back an empty list, so an unreadable or corrupt file behaves like an empty
// one. Write problems are logged and returned as plain error values.
//
// # Concurrency
//
// Modify serializes load-mutate-save cycles on one Store with a mutex.
// The lock covers this Store only and this process only; two Stores are
// never locked together.
package store
