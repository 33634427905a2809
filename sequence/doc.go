/*
Package sequence binds testify mock expectations into a single ordered chain.

Each call added to a Sequence may only fire after the call added before it has
been satisfied. Calls may come from different mocks, so a sequence can span a
client and the builders it hands out.

	var seq sequence.Sequence
	seq.Add(m.On("Args", want).Once())
	seq.Add(m.On("Exec").Return(nil).Once())

An out-of-order call fails through the mock's TestingT (or panics when the
mock has none). Calls that never happen are reported by AssertExpectations.
*/
package sequence
