package domain

import "errors"

// Sentinel errors for dataset state and query validation. Callers match
// with errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrNoData means no ephemeris dataset is currently loaded.
	ErrNoData = errors.New("no ephemeris data loaded")

	// ErrInvalidParameter means a query parameter could not be parsed.
	ErrInvalidParameter = errors.New("invalid query parameter")

	// ErrEmptyRange means an offset/limit window selected no epochs.
	ErrEmptyRange = errors.New("empty epoch range")

	// ErrUnknownEpoch means no state vector matches the requested epoch.
	ErrUnknownEpoch = errors.New("unknown epoch")

	// ErrInvalidEpoch means an epoch is unusable for a derived quantity,
	// either because it matches no record or because the record's numeric
	// components are not finite.
	ErrInvalidEpoch = errors.New("invalid epoch")

	// ErrUpstream means the ephemeris feed could not be reached.
	ErrUpstream = errors.New("upstream ephemeris source unavailable")

	// ErrParse means the upstream document is not a usable OEM document.
	ErrParse = errors.New("invalid ephemeris document")
)
