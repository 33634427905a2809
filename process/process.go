package process

import (
	"errors"
	"os"
	"os/exec"

	"github.com/danwilliams/sham/logging"
)

// Command is a fluent process builder whose last step replaces the running
// program.
type Command interface {
	// Args adds arguments to pass to the program.
	Args(args ...string) Command

	// Stdin configures the child's standard input.
	Stdin(cfg Stdio) Command

	// Stdout configures the child's standard output.
	Stdout(cfg Stdio) Command

	// Stderr configures the child's standard error.
	Stderr(cfg Stdio) Command

	// Exec hands control to the program. It returns only on failure.
	Exec() error
}

// Stdio selects the file a child process uses for one standard stream.
type Stdio interface {
	// File returns the file to use given the parent's own stream.
	File(parent *os.File) (*os.File, error)
}

// ExitFunc terminates the program with a status code.
type ExitFunc func(code int)

// Exit terminates the program through os.Exit.
func Exit(code int) {
	logging.Debug().Int("code", code).Msg("exiting")
	os.Exit(code)
}

var (
	// ErrNotFound indicates the program could not be resolved on PATH.
	ErrNotFound = errors.New("program not found")

	// ErrStdio wraps failures while opening a configured standard stream.
	ErrStdio = errors.New("failed to open stdio")
)

type stdio int

const (
	inherit stdio = iota
	null
)

// Inherit uses the parent's stream.
func Inherit() Stdio { return inherit }

// Null connects the stream to the null device.
func Null() Stdio { return null }

func (s stdio) File(parent *os.File) (*os.File, error) {
	if s == null {
		return os.OpenFile(os.DevNull, os.O_RDWR, 0)
	}
	return parent, nil
}

// Cmd is the real Command.
type Cmd struct {
	program string
	args    []string
	stdin   Stdio
	stdout  Stdio
	stderr  Stdio

	// Exit ends the program after a child started by Exec has finished, on
	// platforms or configurations where the image cannot be replaced.
	Exit ExitFunc
}

// Ensure Cmd always satisfies the Command interface at compile time.
var _ Command = (*Cmd)(nil)

// New creates a Command for program. Streams default to Inherit.
func New(program string) *Cmd {
	return &Cmd{
		program: program,
		stdin:   Inherit(),
		stdout:  Inherit(),
		stderr:  Inherit(),
		Exit:    Exit,
	}
}

// Args adds arguments to pass to the program.
func (c *Cmd) Args(args ...string) Command {
	c.args = append(c.args, args...)
	return c
}

// Stdin configures the child's standard input.
func (c *Cmd) Stdin(cfg Stdio) Command {
	c.stdin = cfg
	return c
}

// Stdout configures the child's standard output.
func (c *Cmd) Stdout(cfg Stdio) Command {
	c.stdout = cfg
	return c
}

// Stderr configures the child's standard error.
func (c *Cmd) Stderr(cfg Stdio) Command {
	c.stderr = cfg
	return c
}

// Exec resolves the program on PATH and hands control to it. See exec_unix.go
// and exec_other.go for the platform behavior.
func (c *Cmd) Exec() error {
	path, err := exec.LookPath(c.program)
	if err != nil {
		return errors.Join(ErrNotFound, err)
	}

	logging.Debug().Str("program", path).Strs("args", c.args).Msg("exec")
	return c.exec(path)
}

func (c *Cmd) inherited() bool {
	return c.stdin == inherit && c.stdout == inherit && c.stderr == inherit
}

// run starts the program as a child, waits for it, and exits with its code.
// Streams opened for the child are closed before exit and on every error.
func (c *Cmd) run(path string) error {
	cmd := exec.Command(path, c.args...)

	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
		opened = nil
	}
	defer closeAll()

	open := func(cfg Stdio, parent *os.File) (*os.File, error) {
		f, err := cfg.File(parent)
		if err != nil {
			return nil, errors.Join(ErrStdio, err)
		}
		if f != nil && f != parent {
			opened = append(opened, f)
		}
		return f, nil
	}

	stdin, err := open(c.stdin, os.Stdin)
	if err != nil {
		return err
	}
	stdout, err := open(c.stdout, os.Stdout)
	if err != nil {
		return err
	}
	stderr, err := open(c.stderr, os.Stderr)
	if err != nil {
		return err
	}
	if stdin != nil {
		cmd.Stdin = stdin
	}
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = stderr
	}

	code := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return err
		}
		code = exitErr.ExitCode()
	}
	closeAll()

	exit := c.Exit
	if exit == nil {
		exit = Exit
	}
	exit(code)
	return nil
}
