// Package httpclient is the network-backed implementation of the sham http
// capability interfaces. Code written against sham/http runs unchanged on this
// client in production and on http/mock in tests.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	sdkhttp "github.com/danwilliams/sham/http"
	"github.com/danwilliams/sham/logging"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/segmentio/encoding/json"
)

// Config configures the HTTP client.
//
// HTTPClient replaces the underlying client entirely; when nil a non-pooled
// client from go-cleanhttp is used and MaxRedirects bounds how many redirects
// it follows. Header is added to every request before the builder's headers.
type Config struct {
	// HTTPClient overrides the client used to perform requests.
	HTTPClient *http.Client
	// Header holds default headers sent with every request.
	Header http.Header
	// MaxRedirects is the redirect limit; 0 means 10, negative disables
	// following redirects.
	MaxRedirects int
}

// HTTPClient implements sdkhttp.Client over net/http.
type HTTPClient struct {
	// cfg holds the client configuration.
	cfg Config
	// client performs the requests.
	client *http.Client
}

// Ensure HTTPClient always satisfies the Client interface at compile time.
var _ sdkhttp.Client = (*HTTPClient)(nil)

var (
	// ErrTooManyRedirects is returned by the default redirect policy once the
	// limit is reached.
	ErrTooManyRedirects = errors.New("stopped after too many redirects")

	// ErrEncodeJSON wraps failures while encoding a JSON request body.
	ErrEncodeJSON = errors.New("failed to encode JSON body")

	// ErrInvalidUTF8 indicates a response body that is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("response body is not valid UTF-8")
)

const (
	defaultMaxRedirects = 10
	streamChunkSize     = 32 << 10
)

// New creates a new HTTP client with the provided configuration.
func New(config Config) (*HTTPClient, error) {
	hc := &HTTPClient{cfg: config, client: config.HTTPClient}

	if hc.client == nil {
		limit := config.MaxRedirects
		if limit == 0 {
			limit = defaultMaxRedirects
		}

		hc.client = cleanhttp.DefaultClient()
		hc.client.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
			if limit < 0 {
				return http.ErrUseLastResponse
			}
			if len(via) >= limit {
				return ErrTooManyRedirects
			}
			return nil
		}
	}

	return hc, nil
}

// Get starts a GET request to the specified URL.
func (c *HTTPClient) Get(url string) sdkhttp.RequestBuilder {
	return c.newRequest(http.MethodGet, url)
}

// Post starts a POST request to the specified URL.
func (c *HTTPClient) Post(url string) sdkhttp.RequestBuilder {
	return c.newRequest(http.MethodPost, url)
}

// Put starts a PUT request to the specified URL.
func (c *HTTPClient) Put(url string) sdkhttp.RequestBuilder {
	return c.newRequest(http.MethodPut, url)
}

// Patch starts a PATCH request to the specified URL.
func (c *HTTPClient) Patch(url string) sdkhttp.RequestBuilder {
	return c.newRequest(http.MethodPatch, url)
}

// Delete starts a DELETE request to the specified URL.
func (c *HTTPClient) Delete(url string) sdkhttp.RequestBuilder {
	return c.newRequest(http.MethodDelete, url)
}

func (c *HTTPClient) newRequest(method, rawURL string) *RequestBuilder {
	return &RequestBuilder{
		client: c,
		method: method,
		rawURL: rawURL,
		header: make(http.Header),
	}
}

// RequestBuilder records request configuration until Send. Configuration
// errors are kept and reported by Send as builder errors.
type RequestBuilder struct {
	client *HTTPClient
	method string
	rawURL string
	header http.Header
	body   io.Reader
	err    error
}

// Ensure RequestBuilder always satisfies the RequestBuilder interface at compile time.
var _ sdkhttp.RequestBuilder = (*RequestBuilder)(nil)

// Body sets the raw request body.
func (b *RequestBuilder) Body(body io.Reader) sdkhttp.RequestBuilder {
	b.body = body
	return b
}

// JSON encodes v as the request body and sets the Content-Type.
func (b *RequestBuilder) JSON(v any) sdkhttp.RequestBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.err = errors.Join(ErrEncodeJSON, err)
		return b
	}
	b.body = bytes.NewReader(data)
	b.header.Set("Content-Type", "application/json")
	return b
}

// Form encodes values as the request body and sets the Content-Type.
func (b *RequestBuilder) Form(values url.Values) sdkhttp.RequestBuilder {
	b.body = strings.NewReader(values.Encode())
	b.header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b
}

// Headers adds header to the request.
func (b *RequestBuilder) Headers(header http.Header) sdkhttp.RequestBuilder {
	for k, values := range header {
		for _, v := range values {
			b.header.Add(k, v)
		}
	}
	return b
}

// Send issues the request. Errors are *Error values.
func (b *RequestBuilder) Send(ctx context.Context) (sdkhttp.Response, error) {
	u, err := sdkhttp.ParseURL(b.rawURL)
	if err != nil {
		return nil, newError(sdkhttp.KindBuilder, nil, err)
	}
	if b.err != nil {
		return nil, newError(sdkhttp.KindBuilder, u, b.err)
	}

	req, err := http.NewRequestWithContext(ctx, b.method, u.String(), b.body)
	if err != nil {
		return nil, newError(sdkhttp.KindBuilder, u, err)
	}

	req.Header = b.client.cfg.Header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	for k, values := range b.header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := b.client.client.Do(req)
	if err != nil {
		e := classify(u, err)
		logging.Debug().Str("method", b.method).Str("url", u.String()).
			Str("kind", e.kind.String()).Err(err).Msg("http request failed")
		return nil, e
	}

	logging.Debug().Str("method", b.method).Str("url", u.String()).
		Int("status", resp.StatusCode).Msg("http request")
	return newResponse(resp), nil
}

// classify maps a transport error onto an error kind.
func classify(u *url.URL, err error) *Error {
	var (
		netErr net.Error
		opErr  *net.OpError
	)

	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return newError(sdkhttp.KindRedirect, u, err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return newError(sdkhttp.KindTimeout, u, err)
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return newError(sdkhttp.KindConnect, u, err)
	default:
		return newError(sdkhttp.KindRequest, u, err)
	}
}

// Response is a received HTTP response. The body is read from the network at
// most once; later reads return the buffered copy. Body readers are not safe
// for concurrent use.
type Response struct {
	url    *url.URL
	status int
	header http.Header

	raw     io.ReadCloser
	loaded  bool
	body    []byte
	bodyErr *Error
}

// Ensure Response always satisfies the Response interface at compile time.
var _ sdkhttp.Response = (*Response)(nil)

func newResponse(resp *http.Response) *Response {
	return &Response{
		url:    sdkhttp.CloneURL(resp.Request.URL),
		status: resp.StatusCode,
		header: resp.Header,
		raw:    resp.Body,
	}
}

// URL returns a copy of the final URL, after redirects.
func (r *Response) URL() *url.URL { return sdkhttp.CloneURL(r.url) }

// Status returns the HTTP status code.
func (r *Response) Status() int { return r.status }

// Headers returns a copy of the response headers.
func (r *Response) Headers() http.Header { return r.header.Clone() }

// Bytes returns the full body.
func (r *Response) Bytes() ([]byte, error) {
	r.load()
	if r.bodyErr != nil {
		return nil, r.bodyErr
	}
	return bytes.Clone(r.body), nil
}

// Text returns the body as a string; a body that is not valid UTF-8 is a
// decode error.
func (r *Response) Text() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", newError(sdkhttp.KindDecode, r.url, ErrInvalidUTF8)
	}
	return string(b), nil
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return newError(sdkhttp.KindDecode, r.url, err)
	}
	return nil
}

// BytesStream yields the body in chunks of up to 32 KiB straight from the
// connection. Once the body has been read it yields the buffered copy in one
// chunk. Stopping early still buffers the remainder for the other readers.
func (r *Response) BytesStream() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if r.loaded {
			if r.bodyErr != nil {
				yield(nil, r.bodyErr)
				return
			}
			if len(r.body) > 0 {
				yield(bytes.Clone(r.body), nil)
			}
			return
		}

		r.loaded = true
		defer r.raw.Close() //nolint:errcheck

		buf := make([]byte, streamChunkSize)
		for {
			n, err := r.raw.Read(buf)
			if n > 0 {
				chunk := bytes.Clone(buf[:n])
				r.body = append(r.body, chunk...)
				if !yield(chunk, nil) {
					rest, rerr := io.ReadAll(r.raw)
					r.body = append(r.body, rest...)
					if rerr != nil {
						r.bodyErr = newError(sdkhttp.KindBody, r.url, rerr)
					}
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				r.bodyErr = newError(sdkhttp.KindBody, r.url, err)
				yield(nil, r.bodyErr)
				return
			}
		}
	}
}

// ErrorForStatus returns a status error for 4xx and 5xx responses, closing the
// unread body, and the response itself otherwise.
func (r *Response) ErrorForStatus() (sdkhttp.Response, error) {
	if err := r.statusError(); err != nil {
		if !r.loaded {
			r.loaded = true
			_ = r.raw.Close()
		}
		return nil, err
	}
	return r, nil
}

// ErrorForStatusRef is ErrorForStatus without releasing the body, so the
// caller can keep reading it after a status error.
func (r *Response) ErrorForStatusRef() (sdkhttp.Response, error) {
	if err := r.statusError(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Response) statusError() *Error {
	if !sdkhttp.IsErrorStatus(r.status) {
		return nil
	}
	e := newError(sdkhttp.KindStatus, r.url, nil)
	e.status = r.status
	return e
}

func (r *Response) load() {
	if r.loaded {
		return
	}
	r.loaded = true
	defer r.raw.Close() //nolint:errcheck

	data, err := io.ReadAll(r.raw)
	r.body = data
	if err != nil {
		r.bodyErr = newError(sdkhttp.KindBody, r.url, err)
	}
}

// Error is a failed request, carrying its category and the underlying cause.
type Error struct {
	kind   sdkhttp.ErrorKind
	status int
	url    *url.URL
	err    error
}

// Ensure Error always satisfies the Error interface at compile time.
var _ sdkhttp.Error = (*Error)(nil)

func newError(kind sdkhttp.ErrorKind, u *url.URL, err error) *Error {
	return &Error{kind: kind, url: sdkhttp.CloneURL(u), err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "http %s error", e.kind)
	if e.status != 0 {
		fmt.Fprintf(&b, " (%d %s)", e.status, http.StatusText(e.status))
	}
	if e.url != nil {
		fmt.Fprintf(&b, " for url (%s)", e.url)
	}
	if e.err != nil {
		fmt.Fprintf(&b, ": %v", e.err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.err }

func (e *Error) IsBody() bool     { return e.kind.Has(sdkhttp.KindBody) }
func (e *Error) IsBuilder() bool  { return e.kind.Has(sdkhttp.KindBuilder) }
func (e *Error) IsConnect() bool  { return e.kind.Has(sdkhttp.KindConnect) }
func (e *Error) IsDecode() bool   { return e.kind.Has(sdkhttp.KindDecode) }
func (e *Error) IsRedirect() bool { return e.kind.Has(sdkhttp.KindRedirect) }
func (e *Error) IsRequest() bool  { return e.kind.Has(sdkhttp.KindRequest) }
func (e *Error) IsStatus() bool   { return e.kind.Has(sdkhttp.KindStatus) }
func (e *Error) IsTimeout() bool  { return e.kind.Has(sdkhttp.KindTimeout) }

// Status returns the response status for status errors, or 0.
func (e *Error) Status() int { return e.status }

// URL returns a copy of the request URL, or nil.
func (e *Error) URL() *url.URL { return sdkhttp.CloneURL(e.url) }

// URLMut returns the stored URL for in-place edits, or nil.
func (e *Error) URLMut() *url.URL { return e.url }

// WithURL returns a copy of e carrying u.
func (e *Error) WithURL(u *url.URL) sdkhttp.Error {
	c := *e
	c.url = sdkhttp.CloneURL(u)
	return &c
}

// WithoutURL returns a copy of e with no URL. Useful before logging errors
// for URLs that embed credentials.
func (e *Error) WithoutURL() sdkhttp.Error {
	c := *e
	c.url = nil
	return &c
}
