package billing

import "errors"

var (
	// ErrCustomerExists indicates the provider already holds a customer
	// with the requested email.
	ErrCustomerExists = errors.New("customer already exists")
	// ErrCustomerNotFound indicates no provider customer matches the email.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrIncompleteIdentity indicates a checkout was requested without a
	// user id or email. Rejected before anything reaches the gateway.
	ErrIncompleteIdentity = errors.New("user id and email are required")
	// ErrInvalidSignature indicates the payment signature did not verify.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrMissingKeySecret indicates the signature verifier was built
	// without a key secret.
	ErrMissingKeySecret = errors.New("missing key secret")
	// ErrProviderUnavailable indicates the gateway could not be reached.
	ErrProviderUnavailable = errors.New("billing provider unavailable")
)
