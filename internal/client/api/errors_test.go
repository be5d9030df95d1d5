package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage_AliasOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"Session expired"}`, want: "Session expired"},
		{name: "error field", body: `{"error":"forbidden resource"}`, want: "forbidden resource"},
		{name: "detail field", body: `{"detail":"thread not found"}`, want: "thread not found"},
		{name: "error_description field", body: `{"error_description":"bad grant"}`, want: "bad grant"},
		{name: "message wins over error", body: `{"error":"secondary","message":"primary"}`, want: "primary"},
		{name: "non-string alias is skipped", body: `{"message":42,"error":"fallback"}`, want: "fallback"},
		{name: "raw text fallback", body: `upstream exploded`, want: "upstream exploded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := serverError(500, []byte(tc.body))
			assert.Equal(t, tc.want, e.Message())
		})
	}
}

func TestErrorMessage_ReasonPhraseFallback(t *testing.T) {
	e := serverError(503, nil)
	assert.Equal(t, "Service Unavailable", e.Message())

	e = serverError(503, []byte("   \n"))
	assert.Equal(t, "Service Unavailable", e.Message())
}

func TestErrorRetryable(t *testing.T) {
	assert.True(t, newError(KindTransport, errors.New("timeout")).Retryable())
	assert.True(t, serverError(502, nil).Retryable())
	assert.False(t, serverError(404, nil).Retryable())
	assert.False(t, newError(KindDecoding, errors.New("bad json")).Retryable())
	assert.False(t, (&Error{Kind: KindNoData}).Retryable())
}

func TestIsKind_MatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load thread: %w", serverError(404, nil))
	assert.True(t, IsKind(err, KindServer))
	assert.False(t, IsKind(err, KindTransport))
	assert.False(t, IsKind(errors.New("plain"), KindServer))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := newError(KindTransport, cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transport error: connection refused", err.Error())
}
