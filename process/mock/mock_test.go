package mock

import (
	"os"
	"syscall"
	"testing"

	"github.com/danwilliams/sham/internal/mocktest"
	"github.com/danwilliams/sham/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handOff is the call chain a program uses to replace itself with another.
func handOff(cmd process.Command, args ...string) error {
	return cmd.Args(args...).
		Stdin(Inherit()).
		Stdout(Inherit()).
		Stderr(Inherit()).
		Exec()
}

func TestFakeCommand(t *testing.T) {
	t.Run("Full sequence", func(t *testing.T) {
		cmd := New(t, "git", []string{"status", "--short"})
		assert.Equal(t, "git", cmd.Program())

		err := handOff(cmd, "status", "--short")
		assert.Equal(t, syscall.Errno(0), err)
		assert.True(t, cmd.AssertExpectations(t))
		assert.Len(t, cmd.Mock().Calls, 5)
	})

	t.Run("No arguments", func(t *testing.T) {
		cmd := New(t, "true", nil)
		_ = handOff(cmd)
		cmd.AssertExpectations(t)
	})

	t.Run("Passthrough expects the test binary arguments", func(t *testing.T) {
		cmd := NewPassthrough(t, "git")
		_ = handOff(cmd, os.Args[1:]...)
		cmd.AssertExpectations(t)
	})
}

func TestFakeCommandFailures(t *testing.T) {
	tt := []struct {
		name        string
		drive       func(c *FakeCommand)
		wantAborted bool
	}{
		{
			name: "wrong arguments",
			drive: func(c *FakeCommand) {
				c.Args("other")
			},
			wantAborted: true,
		},
		{
			name: "exec before stderr",
			drive: func(c *FakeCommand) {
				c.Args("run").Stdin(Inherit()).Stdout(Inherit())
				_ = c.Exec()
			},
			wantAborted: true,
		},
		{
			name: "stdout before stdin",
			drive: func(c *FakeCommand) {
				c.Args("run").Stdout(Inherit())
			},
			wantAborted: true,
		},
		{
			name: "args twice",
			drive: func(c *FakeCommand) {
				c.Args("run").Args("run")
			},
			wantAborted: true,
		},
		{
			name: "real stdio value",
			drive: func(c *FakeCommand) {
				c.Args("run").Stdin(process.Inherit())
			},
			wantAborted: true,
		},
		{
			name: "exec never called",
			drive: func(c *FakeCommand) {
				c.Args("run").Stdin(Inherit()).Stdout(Inherit()).Stderr(Inherit())
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			rec := &mocktest.Recorder{}
			cmd := New(rec, "app", []string{"run"})

			aborted := rec.Run(func() { tc.drive(cmd) })
			require.Equal(t, tc.wantAborted, aborted, rec.Output())

			if !aborted {
				assert.False(t, cmd.AssertExpectations(rec))
			}
			assert.True(t, rec.Failed())
		})
	}
}

func TestExit(t *testing.T) {
	Exit(1)

	var exits Exits
	var exit process.ExitFunc = exits.Exit
	exit(0)
	exit(2)
	assert.Equal(t, []int{0, 2}, exits.Codes())
}
