// Package mongo provides MongoDB connection management for the application.
//
// Configuration is entirely environment-driven, connection establishment
// retries through transient failures, and a health check hook is provided for
// the HTTP health endpoint. Errors are sentinel values compatible with
// errors.Is.
package mongo
