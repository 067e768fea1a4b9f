package ai

import "errors"

var (
	// ErrMissingCredential indicates that no API key was configured.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrInvalidConfig indicates a configuration value is missing or out of range.
	ErrInvalidConfig = errors.New("invalid ai config")

	// ErrRemoteCall indicates a call to a remote AI service failed.
	ErrRemoteCall = errors.New("remote AI call failed")

	// ErrMalformedResponse indicates a remote AI service returned output
	// that could not be parsed.
	ErrMalformedResponse = errors.New("malformed AI response")
)
