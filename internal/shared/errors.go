package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	//
	// ErrArtistNotFound is the only catalog failure a worker recovers from.
	ErrArtistNotFound    = fmt.Errorf("artist not found in catalog")
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrTransient         = fmt.Errorf("transient catalog failure")
	ErrMalformedResponse = fmt.Errorf("malformed catalog response")

	// Run errors
	ErrRunFailed = fmt.Errorf("reconciliation run failed")

	// Library errors
	ErrUnsupportedLibrary = fmt.Errorf("unsupported library format")
	ErrEmptyLibrary       = fmt.Errorf("library contains no albums")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
