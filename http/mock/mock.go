package mock

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/danwilliams/sham"
	sdkhttp "github.com/danwilliams/sham/http"
	"github.com/danwilliams/sham/logging"
	"github.com/danwilliams/sham/sequence"
	"github.com/stretchr/testify/mock"
)

// verbs maps HTTP methods to the MockClient method names used as testify
// expectation names.
var verbs = map[string]string{
	http.MethodGet:    "Get",
	http.MethodPost:   "Post",
	http.MethodPut:    "Put",
	http.MethodPatch:  "Patch",
	http.MethodDelete: "Delete",
}

// MockClient implements sdkhttp.Client on top of testify's mock.Mock. Each verb
// call is matched against expectations named after the verb ("Get", "Post",
// ...) with the normalised URL as the only argument. It never performs network
// I/O.
//
// revive:disable:exported // Name mirrors package for discoverability; stutter is acceptable here.
type MockClient struct {
	mock.Mock

	// t receives setup failures and is passed on to produced builders.
	t mock.TestingT

	// builders holds every builder handed out so their Send expectations are
	// verified together with the client.
	builders []*MockRequestBuilder
}

// revive:enable:exported

// BuilderFunc synthesises the builder returned for one accepted verb call. It
// receives the parsed request URL, or nil when the URL did not parse.
type BuilderFunc func(u *url.URL) *MockRequestBuilder

// Result is what a builder's Send resolves to. Exactly one field should be set.
type Result struct {
	// Response is returned on success.
	Response *MockResponse
	// Err is returned instead of a response when set.
	Err *MockError
}

// Ok is a successful Result.
func Ok(resp *MockResponse) Result { return Result{Response: resp} }

// Fail is a failed Result.
func Fail(err *MockError) Result { return Result{Err: err} }

// Exchange is one expected request and the result its Send returns.
type Exchange struct {
	// Method is the HTTP method; empty means GET.
	Method string
	// URL is the expected absolute URL.
	URL string

	Result
}

// Config controls construction of a MockClient.
type Config struct {
	// T receives expectation failures. When nil, failures panic.
	T mock.TestingT

	// Exchanges are expected in this exact order, each exactly once.
	Exchanges []Exchange
}

// New creates a mock client. Every exchange in config registers one verb
// expectation constrained to its URL and allowed to fire once, and all of them
// are bound into a single sequence so call i+1 is rejected until call i has
// happened. Each accepted call returns a fresh builder whose Send is expected
// once and resolves to the exchange's Result.
func New(config Config) *MockClient {
	m := &MockClient{}
	if config.T != nil {
		m.Test(config.T)
	}

	var seq sequence.Sequence
	for _, ex := range config.Exchanges {
		method := ex.Method
		if method == "" {
			method = http.MethodGet
		}
		call, err := m.expect(method, ex.URL, ex.Result)
		if err != nil {
			setupFailed(m.t, err)
			continue
		}
		seq.Add(call)
	}

	logging.Debug().Int("exchanges", seq.Len()).Msg("mock http client configured")
	return m
}

// NewClient is New with the exchanges supplied inline.
func NewClient(t mock.TestingT, exchanges ...Exchange) *MockClient {
	return New(Config{T: t, Exchanges: exchanges})
}

// CreateMockClient builds an ordered client from exchanges held in a slice.
func CreateMockClient(t mock.TestingT, pairs []Exchange) *MockClient {
	return NewClient(t, pairs...)
}

// Test sets the TestingT used for failures by the client and by every builder
// it produces afterwards.
func (m *MockClient) Test(t mock.TestingT) {
	m.t = t
	m.Mock.Test(t)
}

// Expect registers an unordered expectation for one request. The returned call
// can be further constrained, e.g. with Times or NotBefore.
func (m *MockClient) Expect(method, rawURL string, result Result) *mock.Call {
	call, err := m.expect(strings.ToUpper(method), rawURL, result)
	if err != nil {
		setupFailed(m.t, err)
		return nil
	}
	return call
}

func (m *MockClient) expect(method, rawURL string, result Result) (*mock.Call, error) {
	verb, ok := verbs[method]
	if !ok {
		return nil, fmt.Errorf("mock: unsupported HTTP method %q", method)
	}

	u, err := sdkhttp.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	newBuilder := BuilderFunc(func(*url.URL) *MockRequestBuilder {
		b := NewRequestBuilder(m.t)
		b.ExpectSend(result)
		return b
	})

	return m.On(verb, u.String()).Return(newBuilder).Once(), nil
}

// AssertExpectations verifies the client's expectations and those of every
// builder it has produced.
func (m *MockClient) AssertExpectations(t mock.TestingT) bool {
	ok := m.Mock.AssertExpectations(t)
	for _, b := range m.builders {
		ok = b.AssertExpectations(t) && ok
	}
	return ok
}

// Builders returns the builders handed out so far, in call order.
func (m *MockClient) Builders() []*MockRequestBuilder {
	return append([]*MockRequestBuilder(nil), m.builders...)
}

// Get starts a mocked GET request.
func (m *MockClient) Get(url string) sdkhttp.RequestBuilder {
	return m.request(http.MethodGet, url)
}

// Post starts a mocked POST request.
func (m *MockClient) Post(url string) sdkhttp.RequestBuilder {
	return m.request(http.MethodPost, url)
}

// Put starts a mocked PUT request.
func (m *MockClient) Put(url string) sdkhttp.RequestBuilder {
	return m.request(http.MethodPut, url)
}

// Patch starts a mocked PATCH request.
func (m *MockClient) Patch(url string) sdkhttp.RequestBuilder {
	return m.request(http.MethodPatch, url)
}

// Delete starts a mocked DELETE request.
func (m *MockClient) Delete(url string) sdkhttp.RequestBuilder {
	return m.request(http.MethodDelete, url)
}

// request matches the call and resolves the builder. An unparseable URL is not
// an error here; it is passed through verbatim and fails to match.
func (m *MockClient) request(method, rawURL string) sdkhttp.RequestBuilder {
	target := rawURL
	u, err := sdkhttp.ParseURL(rawURL)
	if err == nil {
		target = u.String()
	}

	logging.Debug().Str("method", method).Str("url", target).Msg("mock http request")
	args := m.MethodCalled(verbs[method], target)

	var b *MockRequestBuilder
	if len(args) > 0 {
		switch v := args.Get(0).(type) {
		case *MockRequestBuilder:
			b = v
		case BuilderFunc:
			b = v(u)
		case func(*url.URL) *MockRequestBuilder:
			b = v(u)
		}
	}
	if b == nil {
		b = NewRequestBuilder(m.t)
	}

	m.builders = append(m.builders, b)
	return b
}

// Compile-time check: ensure MockClient implements the sdkhttp.Client interface.
var _ sdkhttp.Client = (*MockClient)(nil)

// MockRequestBuilder implements sdkhttp.RequestBuilder. Only Send has
// behaviour; Body, JSON, Form and Headers accept their arguments and return the
// builder unchanged.
type MockRequestBuilder struct {
	mock.Mock
}

// NewRequestBuilder creates a builder reporting failures to t (nil panics).
func NewRequestBuilder(t mock.TestingT) *MockRequestBuilder {
	b := &MockRequestBuilder{}
	if t != nil {
		b.Test(t)
	}
	return b
}

// ExpectSend registers one Send call resolving to result.
func (b *MockRequestBuilder) ExpectSend(result Result) *mock.Call {
	return b.On("Send", mock.Anything).Return(result).Once()
}

// Body is accepted for compatibility and does nothing.
func (b *MockRequestBuilder) Body(_ io.Reader) sdkhttp.RequestBuilder { return b }

// JSON is accepted for compatibility and does nothing.
func (b *MockRequestBuilder) JSON(_ any) sdkhttp.RequestBuilder { return b }

// Form is accepted for compatibility and does nothing.
func (b *MockRequestBuilder) Form(_ url.Values) sdkhttp.RequestBuilder { return b }

// Headers is accepted for compatibility and does nothing.
func (b *MockRequestBuilder) Headers(_ http.Header) sdkhttp.RequestBuilder { return b }

// Send resolves to the configured Result. A Send expectation without a Result
// resolves to a request error.
func (b *MockRequestBuilder) Send(ctx context.Context) (sdkhttp.Response, error) {
	args := b.MethodCalled("Send", ctx)

	var res Result
	if len(args) > 0 {
		res, _ = args.Get(0).(Result)
	}

	switch {
	case res.Err != nil:
		logging.Debug().Str("kind", res.Err.Kind.String()).Msg("mock http send failed")
		return nil, res.Err
	case res.Response != nil:
		logging.Debug().Int("status", res.Response.Status()).Msg("mock http send")
		return res.Response, nil
	default:
		return nil, &MockError{Kind: sdkhttp.KindRequest}
	}
}

// Compile-time check: ensure MockRequestBuilder implements sdkhttp.RequestBuilder.
var _ sdkhttp.RequestBuilder = (*MockRequestBuilder)(nil)

// setupFailed aborts the test for a broken fixture; without a TestingT it panics.
func setupFailed(t mock.TestingT, err error) {
	err = fmt.Errorf("%w: %w", sham.ErrInvalidFixture, err)
	if t == nil {
		panic(err)
	}
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	t.Errorf("mock setup failed: %v", err)
	t.FailNow()
}
