package ocs

import (
	"errors"
	"fmt"
)

// Argument and invariant errors, raised before any network call or after
// response validation. Match with errors.Is.
var (
	// ErrEmptyPath is returned when a path-taking operation receives an
	// empty remote path.
	ErrEmptyPath = errors.New("ocs: path must not be empty")

	// ErrInvalidPermissions is returned when a permission value is outside
	// the accepted range [PermissionRead, PermissionAll].
	ErrInvalidPermissions = errors.New("ocs: permissions out of range")

	// ErrMissingShareWith is returned when a share recipient is required
	// (every share type except public links) but not given.
	ErrMissingShareWith = errors.New("ocs: shareWith must not be empty")

	// ErrNothingToUpdate is returned by UpdateShare when no field is set.
	ErrNothingToUpdate = errors.New("ocs: nothing to update")

	// ErrShareNotFound is returned when a share id resolves to no share.
	ErrShareNotFound = errors.New("ocs: share not found")

	// ErrDuplicateShareID is returned when a share id resolves to more than
	// one share. Share ids are server-assigned and unique, so this indicates
	// corrupted server data rather than a client mistake.
	ErrDuplicateShareID = errors.New("ocs: multiple shares with the same id")
)

// TransportError reports that the HTTP round trip itself failed or returned
// a body the OCS envelope could not be read from: network errors, empty
// bodies, and responses without a recognizable <meta><statuscode>.
type TransportError struct {
	// HTTPStatus is the HTTP status code, 0 when the request never
	// completed.
	HTTPStatus int
	// Body is the raw response body, possibly empty.
	Body string
	// Message describes the failure.
	Message string
	// Err is the causal error from the transport, if one was captured.
	Err error
}

func (e *TransportError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("HTTP-Error: %d %s", e.HTTPStatus, e.Message)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports an OCS-level failure: the HTTP call succeeded but
// the envelope's meta carries a status code other than 100.
type ProtocolError struct {
	// OCSStatusCode is the numeric statuscode from <meta>.
	OCSStatusCode int
	// OCSStatus is the status text from <meta>, e.g. "failure".
	OCSStatus string
	// HTTPStatus is the HTTP status code of the response.
	HTTPStatus int
	// Message is the human-readable message from <meta>.
	Message string
}

func (e *ProtocolError) Error() string {
	if e.OCSStatusCode != 0 && e.OCSStatus != "" {
		if e.Message != "" {
			return fmt.Sprintf("OCS-StatusCode: %d (%s), HTTP-StatusCode: %d, Message: %s",
				e.OCSStatusCode, e.OCSStatus, e.HTTPStatus, e.Message)
		}
		return fmt.Sprintf("OCS-StatusCode: %d (%s), HTTP-StatusCode: %d",
			e.OCSStatusCode, e.OCSStatus, e.HTTPStatus)
	}
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("HTTP-Error: %d %s", e.HTTPStatus, e.Message)
	}
	return e.Message
}

// DavError reports a failed WebDAV operation. It carries no OCS fields:
// WebDAV failures are transport-layer outcomes, not OCS business failures.
type DavError struct {
	// HTTPStatus is the status code reported by the WebDAV layer, 0 when
	// none was available (e.g. the connection failed).
	HTTPStatus int
	// Description is the WebDAV layer's textual description.
	Description string
}

func (e *DavError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("HTTP-Error: %d %s", e.HTTPStatus, e.Description)
	}
	return e.Description
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocolError reports whether err is (or wraps) a ProtocolError. When it
// is, the error is returned for inspection of the OCS status code.
func IsProtocolError(err error) (*ProtocolError, bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsDavError reports whether err is (or wraps) a DavError.
func IsDavError(err error) bool {
	var de *DavError
	return errors.As(err, &de)
}
