package types

// Stack is a quantified value occupying a slot or the cursor. Kind is an
// opaque application-defined identifier; the engine only ever compares it
// and moves counts around.
type Stack struct {
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Count int    `json:"count"`
}

// Empty is the zero stack. A slot holding Empty renders as blank.
var Empty = Stack{}

// IsEmpty reports whether the stack holds nothing.
func (s Stack) IsEmpty() bool {
	return s.Count <= 0 || s.Kind == ""
}

// Equal reports visual equality. Two empty stacks are equal regardless of
// kind so that a blanked slot never re-renders.
func (s Stack) Equal(o Stack) bool {
	if s.IsEmpty() && o.IsEmpty() {
		return true
	}
	return s.Kind == o.Kind && s.Name == o.Name && s.Count == o.Count
}

// WithCount returns a copy of the stack holding n. A non-positive n yields
// the empty stack.
func (s Stack) WithCount(n int) Stack {
	if n <= 0 {
		return Empty
	}
	s.Count = n
	return s
}

// Grow returns a copy of the stack with its count changed by n. Growing
// the empty stack yields Empty, as does shrinking to zero or below.
func (s Stack) Grow(n int) Stack {
	if s.IsEmpty() {
		return Empty
	}
	return s.WithCount(s.Count + n)
}

// Split removes up to n from the stack, returning the taken portion and the
// remainder.
func (s Stack) Split(n int) (taken, rest Stack) {
	if s.IsEmpty() || n <= 0 {
		return Empty, s
	}
	if n >= s.Count {
		return s, Empty
	}
	return s.WithCount(n), s.WithCount(s.Count - n)
}
