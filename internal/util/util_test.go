package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KeySet_StringOrdered(t *testing.T) {
	testCases := []struct {
		name   string
		input  []int
		expect string
	}{
		{name: "empty", input: nil, expect: "{}"},
		{name: "one element", input: []int{4}, expect: "{4}"},
		{name: "numeric not lexical order", input: []int{10, 2, 1}, expect: "{1, 2, 10}"},
		{name: "duplicates collapse", input: []int{3, 3, 1}, expect: "{1, 3}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := NewKeySet(tc.input...).StringOrdered()

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_KeySet_Equal(t *testing.T) {
	assert := assert.New(t)

	s := NewKeySet(1, 2, 3)

	assert.True(s.Equal(NewKeySet(3, 2, 1)))
	assert.True(s.Equal(&s))
	assert.False(s.Equal(NewKeySet(1, 2)))
	assert.False(s.Equal([]int{1, 2, 3}))
}

func Test_KeySet_Difference(t *testing.T) {
	assert := assert.New(t)

	s := NewKeySet('a', 'b', 'c')
	actual := s.Difference(NewKeySet('b'))

	assert.Equal([]rune{'a', 'c'}, actual.Elements())
	assert.Equal(3, s.Len(), "receiver must not be modified")
}

func Test_Stack(t *testing.T) {
	assert := assert.New(t)

	var s Stack[string]
	assert.True(s.Empty())

	s.Push("a")
	s.Push("b")
	assert.Equal("b", s.Peek())
	assert.Equal(2, s.Len())
	assert.Equal("b", s.Pop())
	assert.Equal("a", s.Pop())
	assert.True(s.Empty())
	assert.Panics(func() { s.Pop() })
}

func Test_OrderedKeys(t *testing.T) {
	assert := assert.New(t)

	m := map[rune]int{'c': 1, 'a': 2, 'b': 3}

	assert.Equal([]rune{'a', 'b', 'c'}, OrderedKeys(m))
}
