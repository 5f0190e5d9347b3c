// Package entitlement owns the per-user subscription entitlement record: the
// document that ties a user's access to the billing lifecycle.
//
// The package provides three things: the Record type with its pure access
// evaluation (IsActiveAt, DaysRemainingAt) and guarded status transitions, a
// Provisioner that idempotently creates trial records at first
// authentication, and Store implementations (MongoDB and in-memory) for
// persistence.
//
// Evaluation is deliberately literal: an active status grants access without
// checking the period end. Demoting stale records is the billing reconciler's
// job, which keeps the evaluator pure and safe to call on every request.
package entitlement
