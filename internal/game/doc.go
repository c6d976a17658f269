// Package game implements the chip-conservation poker core: the chip
// ledger, pot construction and award, the conservation validator, the
// per-hand state machine, and the table controller that serializes every
// mutation for one table through a single command loop.
//
// All chip amounts are int64 chip units. Conservation checks are exact
// integer comparisons; there is no epsilon.
package game
