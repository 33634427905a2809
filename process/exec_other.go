//go:build !unix

package process

// exec runs the program as a child and exits with its status; the process
// image cannot be replaced on this platform.
func (c *Cmd) exec(path string) error {
	return c.run(path)
}
