// Package lifecycle owns the marketplace's order collection.
//
// The Service is the only holder of mutable orders. Every read returns clones, every
// mutation runs under a single mutex, is written through to the OrderRepository, and is
// announced on the event bus after the lock is released. Polling refreshes are split into a
// Fetch step that may suspend without holding the lock and an apply step that swaps the
// collection atomically, so a refresh never interleaves with a mutation.
package lifecycle
