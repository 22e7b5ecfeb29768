package codec

import "errors"

var (
	// ErrUnknownCodec is returned by Lookup for an unregistered codec name.
	ErrUnknownCodec = errors.New("recordkeep: unknown codec")

	// ErrMalformed wraps every decode failure.
	ErrMalformed = errors.New("recordkeep: malformed document")
)
