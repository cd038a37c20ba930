package remote

import "errors"

var (
	// ErrUnavailable means the API could not be reached or failed internally.
	ErrUnavailable = errors.New("remote catalog unavailable")
	// ErrUnauthorized means the API refused the access token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRejected means the API refused the request itself.
	ErrRejected = errors.New("request rejected")
)
