package sham

import "errors"

var (
	// ErrInvalidURL indicates a malformed, relative or host-less URL.
	ErrInvalidURL = errors.New("invalid URL provided")

	// ErrInvalidFixture signals that a fixture script could not be used to configure a mock.
	ErrInvalidFixture = errors.New("fixture is invalid")

	// ErrConfig wraps failures while loading the sham configuration.
	ErrConfig = errors.New("failed to load configuration")
)
