// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the savestore.Store interface.
//
// # Characteristics
//
//   - **Ephemeral:** slots live as long as the process
//   - **Thread-Safe:** uses sync.Map, so sessions sharing the store never
//     contend on a global lock
//
// It backs tests and the "memory" saves backend.
package inmemorystore
