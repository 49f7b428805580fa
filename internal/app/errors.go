package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrQueueFull signals ingest backpressure: the batch was not
	// accepted and should be retried later.
	ErrQueueFull = errors.New("ingest queue full")

	// ErrNotStarted rejects operations on a service that was never
	// started or has been stopped.
	ErrNotStarted = errors.New("service not started")
)
