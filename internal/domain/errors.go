package domain

import "errors"

var (
	// ErrInvalidRequest is returned when a search has neither a title nor an image
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSourceNotConfigured is returned by a fetcher whose credential is missing
	ErrSourceNotConfigured = errors.New("source not configured")

	// ErrSourceFailure is returned when an upstream marketplace or service request fails
	ErrSourceFailure = errors.New("source request failed")

	// ErrUpstreamStatus is returned when an upstream answers with a non-2xx status
	ErrUpstreamStatus = errors.New("unexpected upstream status")

	// ErrNoQueryTerms is returned when no search terms can be derived from a query
	ErrNoQueryTerms = errors.New("no query terms")

	// ErrCatalogUnavailable is returned when the local listing catalog cannot be read
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
