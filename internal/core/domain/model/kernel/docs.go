// Package kernel holds the identifier value object shared by every aggregate of the
// workshop domain: work orders, stage intervals, audit entries, delay reasons and
// notifications are all keyed by kernel.UUID.
package kernel
