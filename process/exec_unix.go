//go:build unix

package process

import (
	"os"
	"syscall"
)

// exec replaces the current process image when every stream is inherited.
// Redirected streams fall back to running a child.
func (c *Cmd) exec(path string) error {
	if !c.inherited() {
		return c.run(path)
	}

	argv := append([]string{c.program}, c.args...)
	return syscall.Exec(path, argv, os.Environ())
}
