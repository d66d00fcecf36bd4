package scraper

import "errors"

var (
	// ErrInvalidURL is returned for URLs that are malformed or not http(s).
	ErrInvalidURL = errors.New("invalid URL")
	// ErrPrivateIP is returned when a host resolves to a loopback, private or
	// link-local address.
	ErrPrivateIP = errors.New("private IP address")
	// ErrBodyTooLarge is returned when a response exceeds the body size limit.
	ErrBodyTooLarge = errors.New("response body too large")
	// ErrUnknownAgency is returned by the registry for agencies it does not know.
	ErrUnknownAgency = errors.New("unknown agency")
	// ErrNoBrowser is returned when a source needs a browser but none is configured.
	ErrNoBrowser = errors.New("browser loader not configured")
)
