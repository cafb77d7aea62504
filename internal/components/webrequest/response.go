package webrequest

import (
	"bytes"
	"context"

	"github.com/goliatone/go-appkit/internal/registry"
	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// ResponseTypeName is the descriptor type key for the response component.
const ResponseTypeName = "appkit.response"

// Response accumulates output for one request: a status code, headers, and a
// body buffer. Hosts flush it to their transport after Run returns.
type Response struct {
	status  int
	headers map[string]string
	body    bytes.Buffer
}

// NewResponse constructs an empty response with status 200.
func NewResponse() *Response {
	return &Response{
		status:  200,
		headers: map[string]string{},
	}
}

// ResponseFactory builds the response component from its descriptor.
func ResponseFactory(_ context.Context, _ interfaces.AppContext, _ registry.Config) (interfaces.Component, error) {
	return NewResponse(), nil
}

// Status returns the response status code.
func (r *Response) Status() int { return r.status }

// SetStatus records the response status code.
func (r *Response) SetStatus(code int) { r.status = code }

// Header returns a response header by name.
func (r *Response) Header(name string) (string, bool) {
	v, ok := r.headers[name]
	return v, ok
}

// SetHeader records a response header.
func (r *Response) SetHeader(name, value string) {
	r.headers[name] = value
}

// Write appends to the response body.
func (r *Response) Write(p []byte) (int, error) {
	return r.body.Write(p)
}

// WriteString appends a string to the response body.
func (r *Response) WriteString(s string) (int, error) {
	return r.body.WriteString(s)
}

// Body returns the accumulated response body.
func (r *Response) Body() []byte {
	return r.body.Bytes()
}

// Reset clears status, headers, and body for reuse.
func (r *Response) Reset() {
	r.status = 200
	r.headers = map[string]string{}
	r.body.Reset()
}
