package lambda

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/aws/aws-lambda-go/events"

	"lambda-api-router/pkg/mimetype"
)

// ErrHeadersSent is returned by any mutation attempted after the response
// has been written.
var ErrHeadersSent = errors.New("headers already sent")

// CompletionFunc receives the serialized platform response. It is invoked
// exactly once per request regardless of how many handlers participated.
type CompletionFunc func(payload interface{}, err error)

// Response accumulates status, headers and body for one request and
// serializes them into the wire shape of the originating event source.
//
// The response is a one-way state machine: pending until the first send,
// sent afterwards. Header and status mutation after the transition fails
// with ErrHeadersSent.
type Response struct {
	StatusCode    int
	StatusMessage string
	Headers       *Headers
	Body          string

	source      EventSource
	headersSent bool
	beforeWrite []func(*Response)
	afterWrite  []func(*Response)
	complete    CompletionFunc
	once        sync.Once
}

// NewResponse creates a pending response bound to a platform completion
// callback.
func NewResponse(source EventSource, complete CompletionFunc) *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Headers:    NewHeaders(),
		source:     source,
		complete:   complete,
	}
}

// HeadersSent reports whether the response has been written.
func (w *Response) HeadersSent() bool { return w.headersSent }

// Source returns the event source this response serializes for.
func (w *Response) Source() EventSource { return w.source }

// Status sets the response status code.
func (w *Response) Status(code int) error {
	if w.headersSent {
		return ErrHeadersSent
	}
	w.StatusCode = code
	return nil
}

// Set replaces a header's values with one value.
func (w *Response) Set(name, value string) error {
	if w.headersSent {
		return ErrHeadersSent
	}
	w.Headers.Set(name, value)
	return nil
}

// Append adds a header value, preserving previously appended ones.
func (w *Response) Append(name, value string) error {
	if w.headersSent {
		return ErrHeadersSent
	}
	w.Headers.Add(name, value)
	return nil
}

// Get returns the last value set for a header name.
func (w *Response) Get(name string) string {
	return w.Headers.Get(name)
}

// Type sets the Content-Type header from a type or file extension.
func (w *Response) Type(t string) error {
	return w.Set("Content-Type", mimetype.Lookup(t))
}

// OnBeforeWrite registers a listener run immediately before the response is
// written, in registration order. Listeners may still mutate the response.
func (w *Response) OnBeforeWrite(fn func(*Response)) {
	w.beforeWrite = append(w.beforeWrite, fn)
}

// OnAfterWrite registers a listener run immediately after the response is
// written, in registration order. Listeners observe HeadersSent() == true.
func (w *Response) OnAfterWrite(fn func(*Response)) {
	w.afterWrite = append(w.afterWrite, fn)
}

// Send writes a string body and ends the response.
func (w *Response) Send(body string) error {
	if w.headersSent {
		return ErrHeadersSent
	}
	w.Body = body
	return w.End()
}

// JSON serializes a value as the response body and ends the response.
func (w *Response) JSON(v interface{}) error {
	if w.headersSent {
		return ErrHeadersSent
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serialize response body: %w", err)
	}
	if err := w.Set("Content-Type", "application/json; charset=utf-8"); err != nil {
		return err
	}
	w.Body = string(b)
	return w.End()
}

// Error writes a JSON error body with the given status and ends the
// response.
func (w *Response) Error(status int, message string) error {
	if err := w.Status(status); err != nil {
		return err
	}
	return w.JSON(map[string]string{"error": message})
}

// End writes the response as accumulated. Before-write listeners run first,
// then the sent transition fires, then after-write listeners run. The
// platform completion callback fires exactly once even if End is reached
// more than once through racing handlers.
func (w *Response) End() error {
	if w.headersSent {
		return ErrHeadersSent
	}
	for _, fn := range w.beforeWrite {
		fn(w)
	}
	w.headersSent = true
	payload := w.serialize()
	for _, fn := range w.afterWrite {
		fn(w)
	}
	w.once.Do(func() {
		w.complete(payload, nil)
	})
	return nil
}

// serialize produces the wire shape for the originating event source. Binary
// bodies are out of scope, so isBase64Encoded is always false.
func (w *Response) serialize() interface{} {
	if w.source == SourceALB {
		return events.ALBTargetGroupResponse{
			StatusCode:        w.StatusCode,
			StatusDescription: w.statusLine(),
			Headers:           w.Headers.SingleValue(),
			MultiValueHeaders: w.Headers.MultiValue(),
			Body:              w.Body,
			IsBase64Encoded:   false,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode:        w.StatusCode,
		MultiValueHeaders: w.Headers.MultiValue(),
		Body:              w.Body,
		IsBase64Encoded:   false,
	}
}

// statusLine builds the human-readable status line the load balancer shape
// requires. Unrecognized codes fall back to the bare number.
func (w *Response) statusLine() string {
	if w.StatusMessage != "" {
		return fmt.Sprintf("%d %s", w.StatusCode, w.StatusMessage)
	}
	if text := http.StatusText(w.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", w.StatusCode, text)
	}
	return strconv.Itoa(w.StatusCode)
}
