package entitlement

import "errors"

var (
	ErrRecordNotFound         = errors.New("entitlement record not found")
	ErrInvalidTransition      = errors.New("invalid entitlement status transition")
	ErrNotActive              = errors.New("entitlement is not active")
	ErrNoProviderSubscription = errors.New("no provider subscription on record")
	ErrSubscriptionMismatch   = errors.New("provider subscription id does not match record")
	ErrMissingUserID          = errors.New("user id is required")
)
