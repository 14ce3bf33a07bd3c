package shuffle

import "errors"

// Sentinel errors for package shuffle.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedDirectory = errors.New("expected directory but got file")
	ErrUnexpectedSymlink = errors.New("expected file, got symlink")

	// Configuration errors
	ErrUnknownLayout    = errors.New("unknown layout")
	ErrUnknownTimeMode  = errors.New("unknown time mode")
	ErrUnknownExtPolicy = errors.New("unknown extension policy")
	ErrNegativeWindow   = errors.New("timestamp window must not be negative")
	ErrNegativeInterval = errors.New("interval must not be negative")

	// Pass errors
	ErrPassFailures = errors.New("pass completed with failures")
)
