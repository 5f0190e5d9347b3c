// Package auth handles accounts and sessions: email/password and Google
// ID-token sign-in, HS256 access tokens, and single-use refresh tokens held
// in Redis. Every successful sign-in provisions the user's entitlement
// record and runs the legacy-data migrator before tokens are issued.
package auth
