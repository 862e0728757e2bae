// Package catalog owns the marketplace's product listings. It follows the same rules as the
// order lifecycle: one mutex, write-through persistence, clones out, notifications after
// the lock is released.
package catalog
