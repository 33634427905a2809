package http

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/danwilliams/sham"
)

// Client issues requests. Each verb returns a RequestBuilder; nothing is sent
// until Send is called.
type Client interface {
	// Get starts a GET request to the specified URL.
	Get(url string) RequestBuilder

	// Post starts a POST request to the specified URL.
	Post(url string) RequestBuilder

	// Put starts a PUT request to the specified URL.
	Put(url string) RequestBuilder

	// Patch starts a PATCH request to the specified URL.
	Patch(url string) RequestBuilder

	// Delete starts a DELETE request to the specified URL.
	Delete(url string) RequestBuilder
}

// RequestBuilder accumulates request configuration through chained calls.
type RequestBuilder interface {
	// Body sets the raw request body.
	Body(body io.Reader) RequestBuilder

	// JSON sets a JSON encoded request body and Content-Type.
	JSON(v any) RequestBuilder

	// Form sets a URL encoded form body and Content-Type.
	Form(values url.Values) RequestBuilder

	// Headers adds headers to the request.
	Headers(header http.Header) RequestBuilder

	// Send issues the request. A non-nil error satisfies Error.
	Send(ctx context.Context) (Response, error)
}

// Response is a completed exchange.
type Response interface {
	// URL is the final URL of the response.
	URL() *url.URL

	// Status is the HTTP status code.
	Status() int

	// Headers are the response headers.
	Headers() http.Header

	// Bytes returns the full body.
	Bytes() ([]byte, error)

	// Text returns the body as UTF-8 text.
	Text() (string, error)

	// JSON decodes the body into v.
	JSON(v any) error

	// BytesStream yields the body in chunks.
	BytesStream() iter.Seq2[[]byte, error]

	// ErrorForStatus returns an Error when the status is 4xx or 5xx and the
	// response otherwise.
	ErrorForStatus() (Response, error)

	// ErrorForStatusRef is ErrorForStatus for callers that keep using the
	// response afterwards.
	ErrorForStatusRef() (Response, error)
}

// Error describes the category of a failed request.
type Error interface {
	error

	IsBody() bool
	IsBuilder() bool
	IsConnect() bool
	IsDecode() bool
	IsRedirect() bool
	IsRequest() bool
	IsStatus() bool
	IsTimeout() bool

	// Status is the response status for status errors, or 0.
	Status() int

	// URL returns a copy of the related URL, or nil.
	URL() *url.URL

	// URLMut returns the stored URL for in-place edits, or nil.
	URLMut() *url.URL

	// WithURL returns a copy of the error carrying u.
	WithURL(u *url.URL) Error

	// WithoutURL returns a copy of the error with the URL stripped.
	WithoutURL() Error
}

// ErrorKind is a set of error categories.
type ErrorKind uint16

const (
	KindBody ErrorKind = 1 << iota
	KindBuilder
	KindConnect
	KindDecode
	KindRedirect
	KindRequest
	KindStatus
	KindTimeout
)

var kindNames = []struct {
	kind ErrorKind
	name string
}{
	{KindBody, "body"},
	{KindBuilder, "builder"},
	{KindConnect, "connect"},
	{KindDecode, "decode"},
	{KindRedirect, "redirect"},
	{KindRequest, "request"},
	{KindStatus, "status"},
	{KindTimeout, "timeout"},
}

// Has reports whether every kind in other is set in k.
func (k ErrorKind) Has(other ErrorKind) bool { return other != 0 && k&other == other }

// String lists the set kinds joined by "|".
func (k ErrorKind) String() string {
	var names []string
	for _, kn := range kindNames {
		if k.Has(kn.kind) {
			names = append(names, kn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseKind returns the kind for a name used by String.
func ParseKind(name string) (ErrorKind, bool) {
	for _, kn := range kindNames {
		if strings.EqualFold(kn.name, name) {
			return kn.kind, true
		}
	}
	return 0, false
}

// IsClientError reports a 4xx status.
func IsClientError(status int) bool { return status >= 400 && status < 500 }

// IsServerError reports a 5xx status.
func IsServerError(status int) bool { return status >= 500 && status < 600 }

// IsErrorStatus reports a 4xx or 5xx status.
func IsErrorStatus(status int) bool { return IsClientError(status) || IsServerError(status) }

// defaultPorts holds the port implied by each special scheme.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// ParseURL parses an absolute URL with a host and normalises it. Failures wrap
// sham.ErrInvalidURL.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sham.ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", sham.ErrInvalidURL, raw)
	}
	return NormalizeURL(u), nil
}

// NormalizeURL rewrites u in place so equivalent spellings of an address
// serialise identically: the host is lower-cased, a port equal to the scheme's
// default is dropped and an empty path becomes "/". It returns u.
func NormalizeURL(u *url.URL) *url.URL {
	if u == nil || u.Opaque != "" {
		return u
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimSuffix(host, ":")
	if port, ok := defaultPorts[strings.ToLower(u.Scheme)]; ok {
		host = strings.TrimSuffix(host, ":"+port)
	}
	u.Host = host

	if u.Host != "" && u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u
}

// CloneURL returns a deep copy of u, or nil.
func CloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
