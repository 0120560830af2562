// Package history tracks stage occupancy: one Interval per stage an order has
// entered. An open interval (no end time) means the order is still in that stage;
// at most one interval per order is open at any time.
package history
