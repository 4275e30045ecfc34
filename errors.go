package fluentify

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates generation parameters failed validation.
	ErrValidation = errors.New("validation error")

	// ErrMalformedFrame indicates a frame whose payload could not be
	// interpreted for its event name. Malformed frames are dropped.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrConnectionLost indicates the stream failed or ended before a
	// terminal frame arrived. Its text is shown to the user verbatim.
	ErrConnectionLost = errors.New("Connection lost. Please try again.")

	// ErrUnauthorized indicates the server rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the bearer token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Default user-facing messages used when the server or transport supplies
// none.
const (
	DefaultGenerationFailedMessage = "Course generation failed"
	DefaultStartFailedMessage      = "Failed to start course generation"
)
