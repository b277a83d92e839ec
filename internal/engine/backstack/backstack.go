// Package backstack holds the LIFO of reopen callbacks used for view
// navigation.
package backstack

// Stack is a LIFO of zero-argument reopen callbacks. Not safe for
// concurrent use; a stack lives inside one session's owner context.
type Stack struct {
	entries []func()
}

// Push records a reopen callback.
func (s *Stack) Push(reopen func()) {
	if reopen == nil {
		return
	}
	s.entries = append(s.entries, reopen)
}

// Pop removes and returns the most recent callback. ok is false when the
// stack is empty.
func (s *Stack) Pop() (reopen func(), ok bool) {
	n := len(s.entries)
	if n == 0 {
		return nil, false
	}
	reopen = s.entries[n-1]
	s.entries[n-1] = nil
	s.entries = s.entries[:n-1]
	return reopen, true
}

// Len reports the number of stacked entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Clear drops every entry.
func (s *Stack) Clear() {
	s.entries = nil
}
