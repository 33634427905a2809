package transportmock

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

var (
	// ErrUnexpectedMethod is returned when the request method is not as expected.
	ErrUnexpectedMethod = errors.New("unexpected method")

	// ErrUnexpectedURL is returned when the request URL is not as expected.
	ErrUnexpectedURL = errors.New("unexpected URL")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedMethod is the request method; empty matches any.
	ExpectedMethod string

	// ExpectedURL is the full request URL; empty matches any.
	ExpectedURL string

	// Error is the error to return if the mock is configured to fail.
	Error error

	// BodyValidator validates the request body.
	BodyValidator func([]byte) error

	// Response builds the reply for an accepted request.
	Response func(*http.Request) *http.Response

	// Fail indicates whether the mock should return an error.
	Fail bool
}

// Mock is an http.RoundTripper that validates requests and returns scripted
// responses.
type Mock struct {
	cfg Config

	mu       sync.Mutex
	requests []*http.Request
}

// Ensure Mock always satisfies http.RoundTripper at compile time.
var _ http.RoundTripper = (*Mock)(nil)

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	return &Mock{cfg: config}, nil
}

// Client returns an http.Client using m as its transport.
func (m *Mock) Client() *http.Client {
	return &http.Client{Transport: m}
}

// Requests returns every request that reached the mock, in order.
func (m *Mock) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request(nil), m.requests...)
}

// RoundTrip validates req and returns the configured response or error.
func (m *Mock) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	// The body is closed on every path, after any Response func has run
	if req.Body != nil {
		defer req.Body.Close() //nolint:errcheck
	}

	// Return user-defined error if Fail is set
	if m.cfg.Fail && m.cfg.Error != nil {
		return nil, m.cfg.Error
	}

	// Return default error if Fail is set but no custom error is provided
	if m.cfg.Fail {
		return nil, ErrOperationFailed
	}

	if m.cfg.ExpectedMethod != "" && !strings.EqualFold(m.cfg.ExpectedMethod, req.Method) {
		return nil, fmt.Errorf("%w: expected method %s, got %s", ErrUnexpectedMethod, m.cfg.ExpectedMethod, req.Method)
	}

	if m.cfg.ExpectedURL != "" && m.cfg.ExpectedURL != req.URL.String() {
		return nil, fmt.Errorf("%w: expected URL %s, got %s", ErrUnexpectedURL, m.cfg.ExpectedURL, req.URL)
	}

	if m.cfg.BodyValidator != nil {
		var body []byte
		if req.Body != nil {
			var err error
			body, err = io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
		}
		if err := m.cfg.BodyValidator(body); err != nil {
			return nil, err
		}
	}

	var resp *http.Response
	if m.cfg.Response != nil {
		resp = m.cfg.Response(req)
	}
	if resp == nil {
		resp = Respond(http.StatusOK, "")(req)
	}
	if resp.Request == nil {
		resp.Request = req
	}
	return resp, nil
}

// Respond returns a Response func replying with status and body.
func Respond(status int, body string) func(*http.Request) *http.Response {
	return func(req *http.Request) *http.Response {
		return &http.Response{
			Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
			StatusCode:    status,
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
			Header:        make(http.Header),
			Body:          io.NopCloser(bytes.NewBufferString(body)),
			ContentLength: int64(len(body)),
			Request:       req,
		}
	}
}
