// Package memory holds the in-process adapters used when no database or weather API key is
// configured. Repositories start from the demonstration data set and simulate network latency
// on loads, so the polling protocol behaves the same way it does against real backends.
package memory
