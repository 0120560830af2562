// Package services provides StageWorkflow, the domain service that decides every
// stage transition of a work order: sequential advance, delay annotation on the
// semi-assembly stage and the irreparable-part branch.
//
// StageWorkflow is pure: it receives the locked order and its open interval,
// mutates them in memory and returns a Transition describing what must be
// persisted and audited. Transactions, locking and notifications are handled by
// the application layer.
package services
