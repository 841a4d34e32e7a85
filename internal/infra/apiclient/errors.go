package apiclient

import (
	"errors"
	"fmt"
)

// Failure kinds reported in logs and metrics.
const (
	KindTransport = "transport"
	KindProtocol  = "protocol"
	KindParse     = "parse"
)

// TransportError covers network failures, DNS errors, platform timeouts and an open breaker.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport failure: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a non-2xx response.
type ProtocolError struct {
	Status int
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("HTTP error! status: %d", e.Status) }

// ParseError is a response body that is not a valid JSON object.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse failure: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Kind classifies err into one of the failure kinds.
func Kind(err error) string {
	var perr *ProtocolError
	if errors.As(err, &perr) {
		return KindProtocol
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return KindParse
	}
	return KindTransport
}
