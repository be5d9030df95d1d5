package api

import (
	"net/http"
	"net/url"
)

// Descriptor describes a single HTTP exchange. It is created per call site,
// consumed by one Execute/ExecuteRaw call, and not reused.
//
// Body and Form are mutually exclusive. Body is serialized as JSON; Form is
// encoded as multipart/form-data. A descriptor with neither sends no body
// and sets no content-type header.
type Descriptor struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
	Form   *FormPayload
}

// Get returns a descriptor for a body-less GET of path.
func Get(path string) Descriptor {
	return Descriptor{Method: http.MethodGet, Path: path}
}

// Post returns a descriptor for a JSON POST of body to path.
func Post(path string, body any) Descriptor {
	return Descriptor{Method: http.MethodPost, Path: path, Body: body}
}

// Put returns a descriptor for a JSON PUT of body to path.
func Put(path string, body any) Descriptor {
	return Descriptor{Method: http.MethodPut, Path: path, Body: body}
}

// WithHeader returns a copy of d with the header value added. Existing
// values under the same name are kept.
func (d Descriptor) WithHeader(name, value string) Descriptor {
	h := make(http.Header, len(d.Header)+1)
	for k, vs := range d.Header {
		h[k] = append([]string(nil), vs...)
	}
	h.Add(name, value)
	d.Header = h
	return d
}
