package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the closed set of failure classes a request can produce. Every
// error leaving this package is an *Error carrying exactly one Kind, so
// user-facing formatting and retry decisions stay centralized.
type Kind int

const (
	// KindInvalidRequestTarget: the endpoint path or base URL could not be
	// turned into a valid request URL. No network call was made.
	KindInvalidRequestTarget Kind = iota + 1

	// KindEncoding: the request body failed to serialize. No network call
	// was made.
	KindEncoding

	// KindTransport: no usable response was obtained (DNS, connect,
	// timeout, interrupted body read).
	KindTransport

	// KindInvalidResponseShape: the response parsed but did not have the
	// agreed structure (e.g. an envelope with success=true and no data).
	KindInvalidResponseShape

	// KindServer: the server answered outside the 2xx range, or an
	// envelope reported success=false.
	KindServer

	// KindDecoding: a 2xx body failed to decode into the expected type.
	KindDecoding

	// KindNoData: a 2xx response with an empty body where a decode was
	// expected.
	KindNoData
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequestTarget:
		return "invalid request target"
	case KindEncoding:
		return "encoding error"
	case KindTransport:
		return "transport error"
	case KindInvalidResponseShape:
		return "invalid response shape"
	case KindServer:
		return "server error"
	case KindDecoding:
		return "decoding error"
	case KindNoData:
		return "no data"
	default:
		return "unknown error"
	}
}

// Error is the single error type produced by the request pipeline.
// StatusCode and RawBody are populated for KindServer only.
type Error struct {
	Kind       Kind
	StatusCode int
	RawBody    []byte

	cause error
}

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

func serverError(statusCode int, rawBody []byte) *Error {
	return &Error{Kind: KindServer, StatusCode: statusCode, RawBody: rawBody}
}

func (e *Error) Error() string {
	if e.Kind == KindServer {
		return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message())
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.cause }

// messageAliases is the ordered list of envelope fields accepted as the
// human-readable error text. Resolved once here, never ad hoc at call sites.
var messageAliases = []string{"message", "error", "detail", "error_description"}

// Message returns text suitable for showing to the user. For server errors
// it tries, in order: an aliased message field in a JSON body, the raw body
// text, the standard reason phrase for the status code.
func (e *Error) Message() string {
	if e.Kind != KindServer {
		return e.Error()
	}
	if m := extractServerMessage(e.RawBody); m != "" {
		return m
	}
	if txt := strings.TrimSpace(string(e.RawBody)); txt != "" {
		return txt
	}
	if phrase := http.StatusText(e.StatusCode); phrase != "" {
		return phrase
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// Retryable reports whether repeating the identical request could plausibly
// succeed: transport failures and 5xx answers.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindServer:
		return e.StatusCode >= 500
	default:
		return false
	}
}

func extractServerMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, alias := range messageAliases {
		raw, ok := fields[alias]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// IsKind reports whether err is (or wraps) a pipeline *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
