package mock

import (
	"bytes"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf8"

	sdkhttp "github.com/danwilliams/sham/http"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/mock"
)

// MockResponse implements sdkhttp.Response from values fixed at construction.
// Body readers never perform I/O and can be called any number of times.
type MockResponse struct {
	url     *url.URL
	status  int
	header  http.Header
	body    []byte
	bodyErr *MockError
}

// ResponseConfig describes a MockResponse.
type ResponseConfig struct {
	// URL is the absolute URL of the response.
	URL string
	// Status is the HTTP status code; zero means 200.
	Status int
	// ContentType, when set, becomes the Content-Type header.
	ContentType string
	// ContentLength, when set, becomes the Content-Length header.
	ContentLength *int
	// Header holds additional headers.
	Header http.Header
	// Body is the response payload.
	Body []byte
	// BodyErr, when set, is returned by every body reader instead of Body.
	BodyErr *MockError
}

// BuildResponse creates a MockResponse, failing only on an invalid URL.
func BuildResponse(config ResponseConfig) (*MockResponse, error) {
	u, err := sdkhttp.ParseURL(config.URL)
	if err != nil {
		return nil, err
	}

	status := config.Status
	if status == 0 {
		status = http.StatusOK
	}

	header := make(http.Header)
	if config.ContentType != "" {
		header.Set("Content-Type", config.ContentType)
	}
	if config.ContentLength != nil {
		header.Set("Content-Length", strconv.Itoa(*config.ContentLength))
	}
	for k, values := range config.Header {
		for _, v := range values {
			header.Add(k, v)
		}
	}

	r := &MockResponse{
		url:    u,
		status: status,
		header: header,
	}
	if config.BodyErr != nil {
		r.bodyErr = config.BodyErr.clone()
	} else {
		r.body = bytes.Clone(config.Body)
	}
	return r, nil
}

// NewResponse creates a MockResponse and aborts the test through t when the
// URL is invalid (panics when t is nil).
func NewResponse(t mock.TestingT, config ResponseConfig) *MockResponse {
	r, err := BuildResponse(config)
	if err != nil {
		setupFailed(t, err)
		return nil
	}
	return r
}

// URL returns a copy of the response URL.
func (r *MockResponse) URL() *url.URL { return sdkhttp.CloneURL(r.url) }

// Status returns the HTTP status code.
func (r *MockResponse) Status() int { return r.status }

// Headers returns a copy of the response headers.
func (r *MockResponse) Headers() http.Header { return r.header.Clone() }

// Bytes returns a copy of the body, or the configured body error.
func (r *MockResponse) Bytes() ([]byte, error) {
	if r.bodyErr != nil {
		return nil, r.bodyErr.clone()
	}
	return bytes.Clone(r.body), nil
}

// Text returns the body as a string. A body that is not valid UTF-8 is a broken
// fixture and panics.
func (r *MockResponse) Text() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		panic(fmt.Sprintf("mock: response body for %s is not valid UTF-8", r.url))
	}
	return string(b), nil
}

// JSON decodes the body into v. A body that does not decode into v is a broken
// fixture and panics.
func (r *MockResponse) JSON(v any) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		panic(fmt.Sprintf("mock: response body for %s does not decode into %T: %v", r.url, v, err))
	}
	return nil
}

// BytesStream yields the whole body (or the body error) once, then ends.
func (r *MockResponse) BytesStream() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if r.bodyErr != nil {
			yield(nil, r.bodyErr.clone())
			return
		}
		yield(bytes.Clone(r.body), nil)
	}
}

// ErrorForStatus returns a status MockError for 4xx and 5xx responses and the
// response itself otherwise.
func (r *MockResponse) ErrorForStatus() (sdkhttp.Response, error) {
	if err := r.statusError(); err != nil {
		return nil, err
	}
	return r, nil
}

// ErrorForStatusRef is ErrorForStatus; the response stays usable either way.
func (r *MockResponse) ErrorForStatusRef() (sdkhttp.Response, error) {
	return r.ErrorForStatus()
}

func (r *MockResponse) statusError() *MockError {
	if !sdkhttp.IsErrorStatus(r.status) {
		return nil
	}
	return &MockError{
		Kind:       sdkhttp.KindStatus,
		StatusCode: r.status,
		RequestURL: sdkhttp.CloneURL(r.url),
	}
}

// Compile-time check: ensure MockResponse implements sdkhttp.Response.
var _ sdkhttp.Response = (*MockResponse)(nil)
