/*
Package mock provides test doubles for the process capability.

FakeCommand accepts exactly the call chain a program uses to hand control to
another program, and nothing else:

	cmd := mock.New(t, "git", []string{"status"})
	err := cmd.Args("status").
		Stdin(mock.Inherit()).
		Stdout(mock.Inherit()).
		Stderr(mock.Inherit()).
		Exec()
	// err is syscall.Errno(0); nothing was executed.
	cmd.AssertExpectations(t)

Calls out of order, repeated, or with different arguments fail the test.
Exit replaces process.Exit so code paths that terminate the program can run
under test.
*/
package mock
