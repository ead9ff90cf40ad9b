// Package models defines the domain models for the billbook ledger.
//
// # Entities
//
//   - User: a person who can share bills
//   - Product: a purchasable item that can appear on bills
//   - Bill: an expense split among users
//
// Entities are linked through two association rows:
//
//   - BillUser: (billId, userId) with a fractional share
//   - BillProduct: (billId, productId) with a quantity
//
// # Identifiers
//
// All ids are positive integers assigned from per-entity monotonic counters
// held in Meta. Counters are persisted with the data, so ids are never reused
// across restarts.
//
// # Design Principles
//
//  1. Plain data: models carry no behavior beyond construction helpers;
//     consistency rules live in the ledger package.
//  2. No pointers between entities: association rows reference ids, which
//     avoids circular references and keeps the snapshot serializable.
//  3. The Snapshot struct is the single unit of persistence — all five
//     collections plus the counters travel together.
package models
