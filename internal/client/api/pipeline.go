// Package api implements the request pipeline every resource service is
// built on: one HTTP exchange per call, a closed failure taxonomy, and the
// process-wide unauthorized broadcast.
//
// The pipeline is header-agnostic: it forwards caller headers untouched and
// attaches nothing of its own beyond content negotiation. Authorization is
// the services' job.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkraev/carelink/internal/logging"
	"github.com/mkraev/carelink/internal/signalx"
)

const defaultTimeout = 30 * time.Second

// Pipeline executes request descriptors against one API base URL.
// It is safe for concurrent use.
type Pipeline struct {
	baseURL     *url.URL
	http        *http.Client
	invalidated *signalx.Bus
	log         logging.Logger
}

// NewPipeline builds a pipeline for baseURL. httpClient and log may be nil;
// invalidated is the bus on which an HTTP 401 from any endpoint is
// broadcast. The pipeline is the only component allowed to publish on it.
func NewPipeline(baseURL string, httpClient *http.Client, invalidated *signalx.Bus, log logging.Logger) (*Pipeline, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, newError(KindInvalidRequestTarget, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &Error{Kind: KindInvalidRequestTarget}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{baseURL: u, http: httpClient, invalidated: invalidated, log: log}, nil
}

// Execute runs one exchange and decodes a 2xx JSON body into out. With a
// nil out the body is discarded. An empty 2xx body where out is non-nil
// yields a no-data error, never a zero value.
func (p *Pipeline) Execute(ctx context.Context, d Descriptor, out any) error {
	raw, err := p.do(ctx, d)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(raw) == 0 {
		return &Error{Kind: KindNoData}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return newError(KindDecoding, err)
	}
	return nil
}

// ExecuteRaw runs one exchange and returns the 2xx body verbatim. Used for
// endpoints serving HTML or plain text that callers render themselves.
func (p *Pipeline) ExecuteRaw(ctx context.Context, d Descriptor) ([]byte, error) {
	return p.do(ctx, d)
}

func (p *Pipeline) do(ctx context.Context, d Descriptor) ([]byte, error) {
	if d.Method == "" || d.Path == "" {
		return nil, &Error{Kind: KindInvalidRequestTarget}
	}

	ref, err := url.Parse(d.Path)
	if err != nil {
		return nil, newError(KindInvalidRequestTarget, err)
	}
	target := p.baseURL.ResolveReference(ref)
	if len(d.Query) > 0 {
		q := target.Query()
		for k, vs := range d.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	// Serialize before anything touches the network, so an encoding
	// failure never produces a half-sent request.
	var body io.Reader
	contentType := ""
	switch {
	case d.Form != nil:
		ct, encoded, err := d.Form.encode()
		if err != nil {
			return nil, newError(KindEncoding, err)
		}
		contentType, body = ct, bytes.NewReader(encoded)
	case d.Body != nil:
		encoded, err := json.Marshal(d.Body)
		if err != nil {
			return nil, newError(KindEncoding, err)
		}
		contentType, body = "application/json", bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, target.String(), body)
	if err != nil {
		return nil, newError(KindInvalidRequestTarget, err)
	}

	// A body-less method must not carry a content-type header.
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	// Caller headers are merged without dropping any value.
	for name, values := range d.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, newError(KindTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Broadcast before the failure returns so the session is torn
		// down no matter which caller triggered the request.
		p.log.Warn(ctx, "unauthorized response, broadcasting session invalidation",
			"method", d.Method, "path", d.Path)
		if p.invalidated != nil {
			p.invalidated.Publish()
		}
		return nil, serverError(resp.StatusCode, raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.log.Debug(ctx, "request failed",
			"method", d.Method, "path", d.Path, "status", resp.StatusCode)
		return nil, serverError(resp.StatusCode, raw)
	}

	return raw, nil
}

// envelope is the standard resource wrapper {success, data}. The error text
// aliases mirror the loose shapes the portal backend has been seen to emit.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// ExecuteEnveloped runs one exchange against a {success, data} resource
// endpoint and returns the unwrapped data. success=false maps to a server
// error; success=true without data is an invalid response shape.
func ExecuteEnveloped[T any](ctx context.Context, p *Pipeline, d Descriptor) (T, error) {
	var zero T

	raw, err := p.do(ctx, d)
	if err != nil {
		return zero, err
	}
	if len(raw) == 0 {
		return zero, &Error{Kind: KindNoData}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, newError(KindDecoding, err)
	}
	if !env.Success {
		return zero, serverError(http.StatusOK, raw)
	}
	if len(env.Data) == 0 || strings.TrimSpace(string(env.Data)) == "null" {
		return zero, &Error{Kind: KindInvalidResponseShape}
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, newError(KindDecoding, err)
	}
	return out, nil
}
