// Package queries contains the validated read criteria of the order lifecycle and the
// product catalog. A query is parsed once at the boundary and then evaluated against each
// element of a collection with Matches.
package queries
