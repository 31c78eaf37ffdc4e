package domain

import "errors"

var (
	// ErrSourceAuth means the message source rejected our credentials.
	// Fatal: surfaced to the caller, never retried.
	ErrSourceAuth = errors.New("message source rejected credentials")

	// ErrNoData means a pipeline run produced an empty result. Callers render
	// a "no data" state instead of treating this as a failure.
	ErrNoData = errors.New("no lunch data found")
)
