package ocs

import (
	"errors"
	"testing"
)

func TestCheckEnvelopeSuccess(t *testing.T) {
	doc, err := checkEnvelope(httpResult{status: 200, body: groupListBody})
	if err != nil {
		t.Fatalf("checkEnvelope: %v", err)
	}
	if doc == nil {
		t.Fatal("expected parsed document")
	}
}

func TestCheckEnvelopeEmptyBodyPriority(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		res     httpResult
		message string
		wraps   error
	}{
		{
			name:    "captured error wins",
			res:     httpResult{status: 0, errText: "some text", err: cause},
			message: "REST request failed",
			wraps:   cause,
		},
		{
			name:    "error text next",
			res:     httpResult{status: 500, errText: "upstream broke"},
			message: "HTTP-Error: 500 upstream broke",
		},
		{
			name:    "generic fallback",
			res:     httpResult{status: 200},
			message: "HTTP-Error: 200 empty response content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checkEnvelope(tt.res)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsTransportError(err) {
				t.Fatalf("expected TransportError, got %T", err)
			}
			if err.Error() != tt.message {
				t.Errorf("message = %q, want %q", err.Error(), tt.message)
			}
			if tt.wraps != nil && !errors.Is(err, tt.wraps) {
				t.Error("expected cause to be wrapped")
			}
		})
	}
}

func TestCheckEnvelopeUnreadable(t *testing.T) {
	for _, body := range []string{
		"<html><body>proxy error</body></html>",
		"<ocs><meta><status>ok</status></meta></ocs>", // no statuscode
		"garbage <<<",
	} {
		_, err := checkEnvelope(httpResult{status: 200, body: body})
		if err == nil {
			t.Fatalf("expected error for %q", body)
		}
		te, ok := err.(*TransportError)
		if !ok {
			t.Fatalf("expected TransportError for %q, got %T", body, err)
		}
		if te.Message != "empty OCS status or invalid response data" {
			t.Errorf("message = %q", te.Message)
		}
		if te.Body != body {
			t.Errorf("body not carried for inspection: %q", te.Body)
		}
	}
}

func TestCheckEnvelopeProtocolError(t *testing.T) {
	body := `<ocs><meta><status>failure</status><statuscode>403</statuscode><message>Forbidden</message></meta><data/></ocs>`
	_, err := checkEnvelope(httpResult{status: 200, body: body})
	pe, ok := IsProtocolError(err)
	if !ok {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	if pe.OCSStatusCode != 403 || pe.OCSStatus != "failure" || pe.HTTPStatus != 200 || pe.Message != "Forbidden" {
		t.Errorf("fields = %+v", pe)
	}
	want := "OCS-StatusCode: 403 (failure), HTTP-StatusCode: 200, Message: Forbidden"
	if pe.Error() != want {
		t.Errorf("rendered = %q, want %q", pe.Error(), want)
	}
}

func TestProtocolErrorRenderingWithoutMessage(t *testing.T) {
	pe := &ProtocolError{OCSStatusCode: 404, OCSStatus: "failure", HTTPStatus: 200}
	want := "OCS-StatusCode: 404 (failure), HTTP-StatusCode: 200"
	if pe.Error() != want {
		t.Errorf("rendered = %q, want %q", pe.Error(), want)
	}
}

func TestProtocolErrorRenderingWithoutOCSFields(t *testing.T) {
	pe := &ProtocolError{HTTPStatus: 502, Message: "x"}
	if got, want := pe.Error(), "HTTP-Error: 502 x"; got != want {
		t.Errorf("rendered = %q, want %q", got, want)
	}
	pe = &ProtocolError{Message: "bare message"}
	if got, want := pe.Error(), "bare message"; got != want {
		t.Errorf("rendered = %q, want %q", got, want)
	}
}

func TestCheckOCSStatus(t *testing.T) {
	if err := checkOCSStatus(httpResult{status: 200, body: groupListBody}); err != nil {
		t.Errorf("expected success, got %v", err)
	}
	body := `<ocs><meta><status>failure</status><statuscode>997</statuscode><message>Unauthorised</message></meta></ocs>`
	err := checkOCSStatus(httpResult{status: 401, body: body})
	pe, ok := IsProtocolError(err)
	if !ok {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	if pe.OCSStatusCode != 997 || pe.HTTPStatus != 401 {
		t.Errorf("fields = %+v", pe)
	}
}

func TestCheckDavStatus(t *testing.T) {
	if err := checkDavStatus(davResult{ok: true, status: 207}); err != nil {
		t.Errorf("expected success, got %v", err)
	}

	err := checkDavStatus(davResult{status: 507, desc: "Insufficient Storage"})
	if !IsDavError(err) {
		t.Fatalf("expected DavError, got %T", err)
	}
	if err.Error() != "HTTP-Error: 507 Insufficient Storage" {
		t.Errorf("rendered = %q", err.Error())
	}

	// No status at all: the operation failed before an HTTP status existed.
	err = checkDavStatus(davResult{desc: "connection reset"})
	if !IsDavError(err) || err.Error() != "connection reset" {
		t.Errorf("got %v", err)
	}
}
