package mock

import (
	"fmt"
	"net/url"
	"strings"

	sdkhttp "github.com/danwilliams/sham/http"
)

// MockError implements sdkhttp.Error as a plain bundle of flags. It carries no
// cause; tests set exactly the categories the code under test should observe.
//
// revive:disable:exported // Name mirrors package for discoverability; stutter is acceptable here.
type MockError struct {
	// Kind holds the categories reported by the Is* methods.
	Kind sdkhttp.ErrorKind
	// StatusCode is the response status, or 0.
	StatusCode int
	// RequestURL is the related URL, or nil.
	RequestURL *url.URL
}

// revive:enable:exported

// NewError returns a MockError with the given categories set.
func NewError(kinds ...sdkhttp.ErrorKind) *MockError {
	e := &MockError{}
	for _, k := range kinds {
		e.Kind |= k
	}
	return e
}

func (e *MockError) Error() string {
	var b strings.Builder
	b.WriteString("mocked HTTP error (")
	b.WriteString(e.Kind.String())
	b.WriteString(")")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " status %d", e.StatusCode)
	}
	if e.RequestURL != nil {
		fmt.Fprintf(&b, " for %s", e.RequestURL)
	}
	return b.String()
}

func (e *MockError) IsBody() bool     { return e.Kind.Has(sdkhttp.KindBody) }
func (e *MockError) IsBuilder() bool  { return e.Kind.Has(sdkhttp.KindBuilder) }
func (e *MockError) IsConnect() bool  { return e.Kind.Has(sdkhttp.KindConnect) }
func (e *MockError) IsDecode() bool   { return e.Kind.Has(sdkhttp.KindDecode) }
func (e *MockError) IsRedirect() bool { return e.Kind.Has(sdkhttp.KindRedirect) }
func (e *MockError) IsRequest() bool  { return e.Kind.Has(sdkhttp.KindRequest) }
func (e *MockError) IsStatus() bool   { return e.Kind.Has(sdkhttp.KindStatus) }
func (e *MockError) IsTimeout() bool  { return e.Kind.Has(sdkhttp.KindTimeout) }

// Status returns StatusCode.
func (e *MockError) Status() int { return e.StatusCode }

// URL returns a copy of RequestURL.
func (e *MockError) URL() *url.URL { return sdkhttp.CloneURL(e.RequestURL) }

// URLMut returns RequestURL itself, so edits are visible through the error.
func (e *MockError) URLMut() *url.URL { return e.RequestURL }

// WithURL returns a copy of e carrying u, overwriting any existing URL.
func (e *MockError) WithURL(u *url.URL) sdkhttp.Error {
	c := e.clone()
	c.RequestURL = sdkhttp.CloneURL(u)
	return c
}

// WithoutURL returns a copy of e with no URL.
func (e *MockError) WithoutURL() sdkhttp.Error {
	c := e.clone()
	c.RequestURL = nil
	return c
}

func (e *MockError) clone() *MockError {
	c := *e
	c.RequestURL = sdkhttp.CloneURL(e.RequestURL)
	return &c
}

// Compile-time check: ensure MockError implements sdkhttp.Error.
var _ sdkhttp.Error = (*MockError)(nil)
