package errors

import "errors"

var (
	// ErrTimeout will be used when an upstream call times out.
	ErrTimeout = errors.New("timeout while executing")
	// ErrContextCanceled will be used when the execution has not been executed due to the
	// context cancelation.
	ErrContextCanceled = errors.New("context canceled, logic not executed")
	// ErrNotInitialized will be used when the transport is used before it has been opened.
	ErrNotInitialized = errors.New("transport is not initialized")
	// ErrUpstreamFetch will be used when a single upstream call fails on transport or decoding.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrRateLimitExhausted will be used when the token bucket has no token after waiting
	// the time it computed as sufficient.
	ErrRateLimitExhausted = errors.New("rate limit exhausted after waiting")
	// ErrCollectionFailed will be used when the listing stage of a collection fails.
	ErrCollectionFailed = errors.New("collection failed")
	// ErrInvalidConfig will be used when a component receives a configuration it can't work with.
	ErrInvalidConfig = errors.New("invalid configuration")
)
