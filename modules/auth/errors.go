package auth

import "errors"

var (
	// ErrAccountNotFound indicates no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates a wrong email/password pair. Kept
	// deliberately vague so responses cannot be used to probe for accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidGoogleToken indicates the Google ID token failed validation.
	ErrInvalidGoogleToken = errors.New("invalid google id token")
	// ErrInvalidRefreshToken indicates an unknown or revoked refresh token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrPasswordSignInUnavailable indicates the account was created via an
	// external identity provider and has no password.
	ErrPasswordSignInUnavailable = errors.New("password sign-in unavailable for this account")
)
