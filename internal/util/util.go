// Package util contains small generic containers shared by the automaton
// packages.
package util

import (
	"sort"
)

// OrderedKeys returns the keys of m in ascending order. The order is
// guaranteed to be the same on every run.
func OrderedKeys[K Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}

// Stack is a LIFO container. The zero value is an empty stack ready for use.
type Stack[E any] struct {
	Of []E
}

// Push adds v to the top of the stack.
func (s *Stack[E]) Push(v E) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the top of the stack. It panics if the stack is
// empty.
func (s *Stack[E]) Pop() E {
	if len(s.Of) == 0 {
		panic("pop of empty stack")
	}
	v := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

// Peek returns the top of the stack without removing it. It panics if the
// stack is empty.
func (s Stack[E]) Peek() E {
	if len(s.Of) == 0 {
		panic("peek of empty stack")
	}
	return s.Of[len(s.Of)-1]
}

// Len returns the number of items on the stack.
func (s Stack[E]) Len() int {
	return len(s.Of)
}

// Empty returns whether the stack has no items.
func (s Stack[E]) Empty() bool {
	return len(s.Of) == 0
}
