/*
Package process describes the slice of an OS process builder that sham can
stand in for, and provides the real implementation.

A program that ends by handing control to another program writes against
Command:

	cmd := process.New("git").
		Args(os.Args[1:]...).
		Stdin(process.Inherit()).
		Stdout(process.Inherit()).
		Stderr(process.Inherit())
	err := cmd.Exec()
	// Exec only returns on failure.

Tests substitute process/mock.FakeCommand, which records the same calls
without starting anything.
*/
package process
