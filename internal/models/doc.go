// Package models defines the core domain models for Swiss Coin.
//
// # Entities
//
//   - Person: an address-book identity referenced by expenses and settlements
//   - Expense: a shared expense with frozen splits and one or more payers
//   - Settlement: a recorded payment reducing the net balance between two people
//   - Subscription: a recurring bill, optionally shared among subscribers
//   - SubscriptionPayment / SubscriptionSettlement: activity scoped to one subscription
//   - User: an authenticated account, linked to a Person for balance viewpoints
//
// # Design Principles
//
//  1. **IDs over pointers**: people are referenced by UUID strings, never by
//     embedded object references, so there are no cyclic ownership graphs.
//  2. **Frozen splits**: split amounts are computed once when an expense is
//     recorded and stored verbatim; the split method and its parameters are
//     display metadata only.
//  3. **Aggregate ownership**: splits and payers belong to their expense,
//     payments and subscription settlements to their subscription, and are
//     destroyed with the parent. Person and Subscription are long-lived.
package models
