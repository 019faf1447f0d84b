package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned when an operation needs an API key and none is set.
var ErrConfiguration = errors.New("api key is not configured")

// UpstreamError reports a response the nutrition database should not have sent:
// a non-success status, or a success body missing fields this system relies on.
type UpstreamError struct {
	StatusCode int
	// Body is the upstream response body, verbatim.
	Body string
	// Message is a one-line rendering of Body or of the decoding defect.
	Message string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if msg == "" {
		return fmt.Sprintf("upstream error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream error: status %d: %s", e.StatusCode, msg)
}

// InvalidArgumentError reports malformed caller input.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "invalid argument: " + e.Reason
	}
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

// InvalidArgument builds an *InvalidArgumentError with a formatted reason.
func InvalidArgument(field, format string, args ...any) error {
	return &InvalidArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnitMismatchError reports one nutrient seen under two units in the same profile.
type UnitMismatchError struct {
	Nutrient string
	Want     string
	Got      string
}

func (e *UnitMismatchError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("nutrient %q reported in %q and %q", e.Nutrient, e.Want, e.Got)
}
