package sequence

import "github.com/stretchr/testify/mock"

// Sequence is an ordered list of expectations. The zero value is ready to use.
type Sequence struct {
	calls []*mock.Call
}

// New returns a sequence pre-populated with calls, in order.
func New(calls ...*mock.Call) *Sequence {
	s := &Sequence{}
	for _, c := range calls {
		s.Add(c)
	}
	return s
}

// Add appends call to the sequence so that it cannot fire before the previous
// call. It returns call for further configuration.
func (s *Sequence) Add(call *mock.Call) *mock.Call {
	if n := len(s.calls); n > 0 {
		call.NotBefore(s.calls[n-1])
	}
	s.calls = append(s.calls, call)
	return call
}

// Len reports how many calls have been added.
func (s *Sequence) Len() int { return len(s.calls) }

// Calls returns the calls in sequence order.
func (s *Sequence) Calls() []*mock.Call {
	return append([]*mock.Call(nil), s.calls...)
}
