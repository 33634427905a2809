package mock

import (
	"os"
	"slices"
	"sync"
	"syscall"

	"github.com/danwilliams/sham/logging"
	"github.com/danwilliams/sham/process"
	"github.com/danwilliams/sham/sequence"
	"github.com/stretchr/testify/mock"
)

// MockCommand records process builder calls against testify expectations.
// Its methods do not chain; FakeCommand wraps it to provide the fluent API.
//
// revive:disable:exported // Name mirrors package for discoverability; stutter is acceptable here.
type MockCommand struct {
	mock.Mock
}

// revive:enable:exported

// Args records the argument list.
func (m *MockCommand) Args(args []string) { m.Called(args) }

// Stdin records the standard input configuration.
func (m *MockCommand) Stdin(cfg process.Stdio) { m.Called(cfg) }

// Stdout records the standard output configuration.
func (m *MockCommand) Stdout(cfg process.Stdio) { m.Called(cfg) }

// Stderr records the standard error configuration.
func (m *MockCommand) Stderr(cfg process.Stdio) { m.Called(cfg) }

// Exec records the exec call and returns the configured error.
func (m *MockCommand) Exec() error {
	args := m.Called()
	return args.Error(0)
}

// FakeCommand implements process.Command. It is created with the full expected
// call sequence already registered: Args with the expected list, then Stdin,
// Stdout and Stderr with MockStdio values, then Exec, each exactly once.
type FakeCommand struct {
	program string
	command *MockCommand
}

// Ensure FakeCommand always satisfies the Command interface at compile time.
var _ process.Command = (*FakeCommand)(nil)

// New creates a FakeCommand for program expecting args. Failures are reported
// to t; without one they panic. A nil and an empty args list are equivalent.
func New(t mock.TestingT, program string, args []string) *FakeCommand {
	m := &MockCommand{}
	if t != nil {
		m.Test(t)
	}

	expected := slices.Clone(args)
	stdio := mock.IsType(MockStdio{})

	var seq sequence.Sequence
	seq.Add(m.On("Args", mock.MatchedBy(func(got []string) bool {
		return slices.Equal(got, expected)
	})).Return().Once())
	seq.Add(m.On("Stdin", stdio).Return().Once())
	seq.Add(m.On("Stdout", stdio).Return().Once())
	seq.Add(m.On("Stderr", stdio).Return().Once())
	seq.Add(m.On("Exec").Return(syscall.Errno(0)).Once())

	logging.Debug().Str("program", program).Strs("args", expected).Msg("mock command configured")
	return &FakeCommand{program: program, command: m}
}

// NewPassthrough creates a FakeCommand expecting the test binary's own
// arguments, for programs that forward their command line unchanged.
func NewPassthrough(t mock.TestingT, program string) *FakeCommand {
	return New(t, program, os.Args[1:])
}

// Program returns the program name given at construction.
func (f *FakeCommand) Program() string { return f.program }

// Mock returns the underlying MockCommand for extra expectations or
// inspection of recorded calls.
func (f *FakeCommand) Mock() *MockCommand { return f.command }

// Args records args and returns f.
func (f *FakeCommand) Args(args ...string) process.Command {
	f.command.Args(args)
	return f
}

// Stdin records cfg and returns f.
func (f *FakeCommand) Stdin(cfg process.Stdio) process.Command {
	f.command.Stdin(cfg)
	return f
}

// Stdout records cfg and returns f.
func (f *FakeCommand) Stdout(cfg process.Stdio) process.Command {
	f.command.Stdout(cfg)
	return f
}

// Stderr records cfg and returns f.
func (f *FakeCommand) Stderr(cfg process.Stdio) process.Command {
	f.command.Stderr(cfg)
	return f
}

// Exec records the call and returns syscall.Errno(0) without running anything.
func (f *FakeCommand) Exec() error {
	logging.Debug().Str("program", f.program).Msg("mock exec")
	return f.command.Exec()
}

// AssertExpectations verifies every call in the sequence happened.
func (f *FakeCommand) AssertExpectations(t mock.TestingT) bool {
	return f.command.AssertExpectations(t)
}

// MockStdio stands in for a stream configuration. It has no behavior beyond
// satisfying process.Stdio.
//
// revive:disable:exported // Name mirrors package for discoverability; stutter is acceptable here.
type MockStdio struct{}

// revive:enable:exported

// Inherit returns a MockStdio.
func Inherit() MockStdio { return MockStdio{} }

// File returns parent unchanged.
func (MockStdio) File(parent *os.File) (*os.File, error) { return parent, nil }

// Ensure MockStdio always satisfies the Stdio interface at compile time.
var _ process.Stdio = MockStdio{}

// Exit does nothing, so code under test can "exit" without ending the test
// binary.
func Exit(_ int) {}

// Ensure Exit always satisfies process.ExitFunc at compile time.
var _ process.ExitFunc = Exit

// Exits records exit codes in place of terminating the program.
type Exits struct {
	mu    sync.Mutex
	codes []int
}

// Exit records code.
func (e *Exits) Exit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.codes = append(e.codes, code)
}

// Codes returns the recorded codes in call order.
func (e *Exits) Codes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.codes)
}
