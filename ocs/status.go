package ocs

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ocsSuccessCode is the single OCS status code that signals success.
const ocsSuccessCode = "100"

// httpResult is the minimal shape of a finished OCS HTTP round trip. It
// decouples the status checker from the transport so it can be fed
// synthetic fixtures in tests.
type httpResult struct {
	// status is the HTTP status code, 0 when the request never completed.
	status int
	// body is the raw response body.
	body string
	// errText is an error message captured by the transport, if any.
	errText string
	// err is the transport error itself, if one was captured.
	err error
}

// davResult is the minimal shape of a finished WebDAV operation.
type davResult struct {
	ok     bool
	status int
	desc   string
}

// checkEnvelope validates res in two stages and returns the parsed document
// on success.
//
// Stage one (transport): an empty body is always a TransportError, whatever
// the HTTP status. The cause is picked in priority order: a captured
// transport error, a captured error message, or a generic empty-content
// message.
//
// Stage two (envelope): a body without a readable <meta><statuscode> is a
// transport-level anomaly, not a business failure. A statuscode other than
// 100 is a ProtocolError carrying the OCS code, status text, message, and
// the HTTP status.
func checkEnvelope(res httpResult) (*etree.Document, error) {
	if res.body == "" {
		switch {
		case res.err != nil:
			return nil, &TransportError{HTTPStatus: res.status, Message: "REST request failed", Err: res.err}
		case res.errText != "":
			return nil, &TransportError{HTTPStatus: res.status, Message: res.errText}
		default:
			return nil, &TransportError{HTTPStatus: res.status, Message: "empty response content"}
		}
	}

	doc, err := parseDocument(res.body)
	if err != nil {
		return nil, &TransportError{HTTPStatus: res.status, Body: res.body, Message: "empty OCS status or invalid response data", Err: err}
	}
	code, ok := metaValue(doc, "statuscode")
	if !ok {
		return nil, &TransportError{HTTPStatus: res.status, Body: res.body, Message: "empty OCS status or invalid response data"}
	}
	if code != ocsSuccessCode {
		numeric, err := strconv.Atoi(strings.TrimSpace(code))
		if err != nil {
			return nil, &TransportError{HTTPStatus: res.status, Body: res.body, Message: "empty OCS status or invalid response data", Err: err}
		}
		statusText, _ := metaValue(doc, "status")
		message, _ := metaValue(doc, "message")
		return nil, &ProtocolError{
			OCSStatusCode: numeric,
			OCSStatus:     statusText,
			HTTPStatus:    res.status,
			Message:       message,
		}
	}
	return doc, nil
}

// checkOCSStatus runs the dual-layer check without returning the document.
func checkOCSStatus(res httpResult) error {
	_, err := checkEnvelope(res)
	return err
}

// checkDavStatus translates a failed WebDAV outcome into a DavError. The
// collaborator's status code is carried when it has one; 0 means the
// operation failed before an HTTP status existed.
func checkDavStatus(res davResult) error {
	if res.ok {
		return nil
	}
	return &DavError{HTTPStatus: res.status, Description: res.desc}
}
