// Package mocktest provides a TestingT that records failures instead of
// ending the test, for exercising the failure paths of the mocks.
package mocktest

import (
	"fmt"
	"strings"
)

// failNow is the panic value used to unwind out of FailNow.
type failNow struct{}

// Recorder implements testify's mock.TestingT and require.TestingT.
type Recorder struct {
	Errors []string
	Logs   []string
	failed bool
}

func (r *Recorder) Logf(format string, args ...interface{}) {
	r.Logs = append(r.Logs, fmt.Sprintf(format, args...))
}

func (r *Recorder) Errorf(format string, args ...interface{}) {
	r.failed = true
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// FailNow marks the recorder failed and unwinds to the enclosing Run.
func (r *Recorder) FailNow() {
	r.failed = true
	panic(failNow{})
}

// Helper is a no-op so assertion helpers can call it.
func (r *Recorder) Helper() {}

// Failed reports whether Errorf or FailNow was called.
func (r *Recorder) Failed() bool { return r.failed }

// Output joins everything recorded, for matching in assertions.
func (r *Recorder) Output() string {
	return strings.Join(append(append([]string(nil), r.Errors...), r.Logs...), "\n")
}

// Run calls fn and reports whether it was aborted by FailNow. Other panics
// propagate.
func (r *Recorder) Run(fn func()) (aborted bool) {
	defer func() {
		if v := recover(); v != nil {
			if _, ok := v.(failNow); !ok {
				panic(v)
			}
			aborted = true
		}
	}()
	fn()
	return false
}
