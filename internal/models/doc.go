// Package models defines the core domain models for Settle.
//
// # Models
//
//   - Group: a named set of members and the expenses they share
//   - Member: a participant identified by a stable ID
//   - Expense / ExpenseShare: who paid, and what each member owes for it
//   - Settlement: a proposed or recorded transfer between two members
//
// # Design Principles
//
// 1. **Exact money**: all amounts are decimal.Decimal, never float64
// 2. **Avoid circular references**: relationships use ID strings instead of pointers
// 3. **Snapshots**: a Group value carries everything needed to compute balances;
// the calculator never reaches back into storage
//
// # Settlement lifecycle
//
// Settlements are proposed with StatusPending by the debt simplifier. The
// recording layer moves them to StatusCompleted or StatusFailed; both are
// terminal. Only completed settlements affect balances.
package models
