package util

import (
	"fmt"
	"sort"
	"strings"
)

// Ordered is any type whose values can be sorted with the < operator.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// KeySet is a map[E]bool with methods added to act as a set. Elements are
// always handed back in ascending order so that anything built from a KeySet
// iterates it the same way on every run.
type KeySet[E Ordered] map[E]bool

func NewKeySet[E Ordered](of ...E) KeySet[E] {
	s := KeySet[E]{}
	for _, k := range of {
		s.Add(k)
	}
	return s
}

func (s KeySet[E]) Copy() KeySet[E] {
	newS := NewKeySet[E]()

	for k := range s {
		newS[k] = true
	}

	return newS
}

// Difference returns a new set that contains the elements that are in s but
// not in o.
func (s KeySet[E]) Difference(o KeySet[E]) KeySet[E] {
	newSet := s.Copy()

	for k := range o {
		newSet.Remove(k)
	}

	return newSet
}

func (s KeySet[E]) Empty() bool {
	return s.Len() == 0
}

func (s KeySet[E]) Has(value E) bool {
	_, has := s[value]
	return has
}

func (s KeySet[E]) Add(value E) {
	s[value] = true
}

func (s KeySet[E]) Remove(value E) {
	delete(s, value)
}

func (s KeySet[E]) Len() int {
	return len(s)
}

func (s KeySet[E]) AddAll(s2 KeySet[E]) {
	for element := range s2 {
		s.Add(element)
	}
}

// Equal returns whether two sets have the same items. Anything other than a
// KeySet[E] or a non-nil *KeySet[E] is never equal.
func (s KeySet[E]) Equal(o any) bool {
	other, ok := o.(KeySet[E])
	if !ok {
		otherPtr, ok := o.(*KeySet[E])
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if s.Len() != other.Len() {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}

// Elements returns the elements of s as a slice in ascending order.
func (s KeySet[E]) Elements() []E {
	if s == nil {
		return nil
	}

	sl := make([]E, 0, len(s))
	for item := range s {
		sl = append(sl, item)
	}

	sort.Slice(sl, func(i, j int) bool {
		return sl[i] < sl[j]
	})

	return sl
}

// StringOrdered shows the contents of the set in ascending order. Two sets
// give the same StringOrdered if and only if they contain the same elements,
// so it can be used as a map key for the set.
func (s KeySet[E]) StringOrdered() string {
	return JoinFormatted(s.Elements(), "{", ", ", "}", func(e E) string {
		return fmt.Sprintf("%v", e)
	})
}

// String is the same as StringOrdered.
func (s KeySet[E]) String() string {
	return s.StringOrdered()
}

// JoinFormatted formats every element of items with format and joins the
// results with sep, wrapped in open and close.
func JoinFormatted[E any](items []E, open, sep, close string, format func(E) string) string {
	var sb strings.Builder

	sb.WriteString(open)
	for i := range items {
		sb.WriteString(format(items[i]))
		if i+1 < len(items) {
			sb.WriteString(sep)
		}
	}
	sb.WriteString(close)
	return sb.String()
}
