package entities

import "errors"

var (
	// ErrProviderTransport marks any hosting-provider failure other than
	// "repository already exists".
	ErrProviderTransport = errors.New("hosting provider request failed")

	// ErrRecoveryFailed is returned when the forced push of a reset history fails.
	ErrRecoveryFailed = errors.New("clean reset recovery failed")

	// ErrUnknownProvider is returned for a provider type with no registered factory.
	ErrUnknownProvider = errors.New("unknown provider type")

	// ErrNoProviders is returned when the configuration has no providers.
	ErrNoProviders = errors.New("at least one provider must be configured")
)
