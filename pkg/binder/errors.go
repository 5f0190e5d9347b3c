package binder

import "errors"

var (
	// ErrUnsupportedMediaType indicates a Content-Type other than application/json.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrInvalidJSON indicates a body that could not be decoded.
	ErrInvalidJSON = errors.New("invalid JSON body")
)
