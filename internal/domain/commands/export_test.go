package commands

// SelectProviders exports selectProviders for testing.
var SelectProviders = selectProviders //nolint:gochecknoglobals // test export
