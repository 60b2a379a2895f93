package gitlocal

// ClassifyPushError exports classifyPushError for testing.
var ClassifyPushError = classifyPushError //nolint:gochecknoglobals // test export
