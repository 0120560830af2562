// Package stage models the production stages a work order moves through.
//
// The sequential stages live in a Catalog ordered by sequence number; the
// "next stage" of sequence n is the entry with sequence n+1. The irreparable-part
// declaration is a branch state outside that ordering, so an order's position is
// a State: either Sequential(code) or Irreparable.
package stage
