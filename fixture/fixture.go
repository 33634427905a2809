package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/danwilliams/sham"
	sdkhttp "github.com/danwilliams/sham/http"
	httpmock "github.com/danwilliams/sham/http/mock"
	"github.com/danwilliams/sham/logging"
	procmock "github.com/danwilliams/sham/process/mock"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/mock"
	"gopkg.in/yaml.v3"
)

// Script is a parsed fixture file.
type Script struct {
	// Exchanges are the expected HTTP requests, in order.
	Exchanges []Exchange `yaml:"exchanges"`
	// Commands are the expected process hand-offs.
	Commands []Command `yaml:"commands"`
}

// Exchange is one expected request. It carries either a response (status,
// headers, body) or an error, never both.
type Exchange struct {
	Method        string            `yaml:"method"`
	URL           string            `yaml:"url"`
	Status        int               `yaml:"status"`
	ContentType   string            `yaml:"content_type"`
	ContentLength *int              `yaml:"content_length"`
	Headers       map[string]Values `yaml:"headers"`
	Body          string            `yaml:"body"`
	JSON          any               `yaml:"json"`
	BodyError     *Error            `yaml:"body_error"`
	Error         *Error            `yaml:"error"`
}

// Error describes a simulated request failure.
type Error struct {
	Kinds  []string `yaml:"kinds"`
	Status int      `yaml:"status"`
	URL    string   `yaml:"url"`
}

// Command is one expected process hand-off.
type Command struct {
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
}

// Values holds header values. In YAML it is either a single string or a list.
type Values []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (v *Values) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = Values{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*v = list
		return nil
	default:
		return fmt.Errorf("line %d: header values must be a string or a list of strings", node.Line)
	}
}

// Parse decodes and validates a script. Unknown keys are rejected. An empty
// document is an empty script.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", sham.ErrInvalidFixture, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sham.ErrInvalidFixture, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logging.Debug().Str("path", path).Int("exchanges", len(s.Exchanges)).
		Int("commands", len(s.Commands)).Msg("fixture loaded")
	return s, nil
}

// Resolve returns path when it is absolute, exists as given, or dir is empty,
// and path joined to dir otherwise.
func Resolve(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(dir, path)
}

// Validate reports every problem in the script at once.
func (s *Script) Validate() error {
	var errs []error
	for i, ex := range s.Exchanges {
		if err := ex.validate(); err != nil {
			errs = append(errs, fmt.Errorf("exchanges[%d]: %w", i, err))
		}
	}
	for i, c := range s.Commands {
		if strings.TrimSpace(c.Program) == "" {
			errs = append(errs, fmt.Errorf("commands[%d]: program is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", sham.ErrInvalidFixture, errors.Join(errs...))
	}
	return nil
}

func (ex Exchange) validate() error {
	var errs []error

	if _, err := sdkhttp.ParseURL(ex.URL); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToUpper(ex.Method) {
	case "", http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		errs = append(errs, fmt.Errorf("unsupported method %q", ex.Method))
	}

	if ex.Status != 0 && (ex.Status < 100 || ex.Status > 599) {
		errs = append(errs, fmt.Errorf("status %d out of range", ex.Status))
	}
	if ex.Body != "" && ex.JSON != nil {
		errs = append(errs, errors.New("body and json are mutually exclusive"))
	}
	if ex.Error != nil {
		if ex.hasResponse() {
			errs = append(errs, errors.New("error cannot be combined with response fields"))
		}
		if err := ex.Error.validate(); err != nil {
			errs = append(errs, fmt.Errorf("error: %w", err))
		}
	}
	if ex.BodyError != nil {
		if err := ex.BodyError.validate(); err != nil {
			errs = append(errs, fmt.Errorf("body_error: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (ex Exchange) hasResponse() bool {
	return ex.Status != 0 || ex.ContentType != "" || ex.ContentLength != nil ||
		len(ex.Headers) > 0 || ex.Body != "" || ex.JSON != nil || ex.BodyError != nil
}

func (e *Error) validate() error {
	if len(e.Kinds) == 0 {
		return errors.New("at least one kind is required")
	}
	for _, name := range e.Kinds {
		if _, ok := sdkhttp.ParseKind(name); !ok {
			return fmt.Errorf("unknown kind %q", name)
		}
	}
	if e.URL != "" {
		if _, err := sdkhttp.ParseURL(e.URL); err != nil {
			return err
		}
	}
	return nil
}

func (e *Error) mockError() (*httpmock.MockError, error) {
	me := &httpmock.MockError{StatusCode: e.Status}
	for _, name := range e.Kinds {
		k, ok := sdkhttp.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", name)
		}
		me.Kind |= k
	}
	if e.URL != "" {
		u, err := sdkhttp.ParseURL(e.URL)
		if err != nil {
			return nil, err
		}
		me.RequestURL = u
	}
	return me, nil
}

// Outcome summarises what the exchange resolves to.
func (ex Exchange) Outcome() string {
	if ex.Error != nil {
		return "error: " + strings.Join(ex.Error.Kinds, "|")
	}
	status := ex.Status
	if status == 0 {
		status = http.StatusOK
	}
	out := fmt.Sprintf("%d %s", status, http.StatusText(status))
	if ex.BodyError != nil {
		out += " (body error: " + strings.Join(ex.BodyError.Kinds, "|") + ")"
	}
	return out
}

// MethodOrDefault returns the upper-cased method, GET when unset.
func (ex Exchange) MethodOrDefault() string {
	if ex.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(ex.Method)
}

func (ex Exchange) build() (httpmock.Exchange, error) {
	out := httpmock.Exchange{Method: ex.MethodOrDefault(), URL: ex.URL}

	if ex.Error != nil {
		me, err := ex.Error.mockError()
		if err != nil {
			return out, err
		}
		out.Result = httpmock.Fail(me)
		return out, nil
	}

	cfg := httpmock.ResponseConfig{
		URL:           ex.URL,
		Status:        ex.Status,
		ContentType:   ex.ContentType,
		ContentLength: ex.ContentLength,
		Header:        make(http.Header),
		Body:          []byte(ex.Body),
	}
	for k, values := range ex.Headers {
		for _, v := range values {
			cfg.Header.Add(k, v)
		}
	}
	if ex.JSON != nil {
		body, err := json.Marshal(ex.JSON)
		if err != nil {
			return out, fmt.Errorf("json: %w", err)
		}
		cfg.Body = body
		if cfg.ContentType == "" {
			cfg.ContentType = "application/json"
		}
	}
	if ex.BodyError != nil {
		me, err := ex.BodyError.mockError()
		if err != nil {
			return out, fmt.Errorf("body_error: %w", err)
		}
		cfg.BodyErr = me
	}

	resp, err := httpmock.BuildResponse(cfg)
	if err != nil {
		return out, err
	}
	out.Result = httpmock.Ok(resp)
	return out, nil
}

// MockExchanges converts the exchanges into http/mock form.
func (s *Script) MockExchanges() ([]httpmock.Exchange, error) {
	out := make([]httpmock.Exchange, 0, len(s.Exchanges))
	for i, ex := range s.Exchanges {
		m, err := ex.build()
		if err != nil {
			return nil, fmt.Errorf("%w: exchanges[%d]: %w", sham.ErrInvalidFixture, i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Client returns an ordered mock client expecting every exchange in turn.
// Conversion failures abort the test through t (panic when t is nil).
func (s *Script) Client(t mock.TestingT) *httpmock.MockClient {
	exchanges, err := s.MockExchanges()
	if err != nil {
		fail(t, err)
		return nil
	}
	return httpmock.NewClient(t, exchanges...)
}

// Command returns a FakeCommand for the i-th command entry.
func (s *Script) Command(t mock.TestingT, i int) *procmock.FakeCommand {
	if i < 0 || i >= len(s.Commands) {
		fail(t, fmt.Errorf("%w: no command at index %d", sham.ErrInvalidFixture, i))
		return nil
	}
	c := s.Commands[i]
	return procmock.New(t, c.Program, c.Args)
}

func fail(t mock.TestingT, err error) {
	if t == nil {
		panic(err)
	}
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	t.Errorf("fixture: %v", err)
	t.FailNow()
}
