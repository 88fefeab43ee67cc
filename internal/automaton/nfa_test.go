package automaton

import (
	"testing"

	"github.com/dekarrin/refa/internal/util"
	"github.com/stretchr/testify/assert"
)

// buildNFA makes an NFA from transitions given as {from, symbol, to}, where a
// symbol of 0 is ε.
func buildNFA(start, final int, trans [][3]int) NFA {
	var nfa NFA
	nfa.Start = start
	nfa.Final = final
	nfa.AddState(start)
	nfa.AddState(final)

	for _, t := range trans {
		nfa.AddState(t[0])
		nfa.AddState(t[2])
	}
	for _, t := range trans {
		in := Epsilon
		if t[1] != 0 {
			in = On(rune(t[1]))
		}
		nfa.AddTransition(t[0], in, t[2])
	}

	return nfa
}

// unionAB is the Thompson NFA for a|b.
func unionAB() NFA {
	return buildNFA(4, 5, [][3]int{
		{0, 'a', 1},
		{2, 'b', 3},
		{4, 0, 0},
		{4, 0, 2},
		{1, 0, 5},
		{3, 0, 5},
	})
}

// starA is the Thompson NFA for a*.
func starA() NFA {
	return buildNFA(2, 3, [][3]int{
		{0, 'a', 1},
		{2, 0, 0},
		{1, 0, 3},
		{1, 0, 0},
		{2, 0, 3},
	})
}

func Test_Input(t *testing.T) {
	assert := assert.New(t)

	var zero Input
	assert.True(zero.IsEpsilon())
	assert.Equal(Epsilon, zero)
	assert.Equal("ε", Epsilon.String())

	a := On('a')
	sym, ok := a.Symbol()
	assert.False(a.IsEpsilon())
	assert.True(ok)
	assert.Equal('a', sym)
	assert.Equal("a", a.String())

	// a symbol is never confused with ε, even the NUL rune
	assert.False(On(0).IsEpsilon())
}

func Test_NFA_AddTransition_missingState(t *testing.T) {
	assert := assert.New(t)

	var nfa NFA
	nfa.AddState(0)

	assert.Panics(func() { nfa.AddTransition(0, On('a'), 1) })
	assert.Panics(func() { nfa.AddTransition(1, On('a'), 0) })
}

func Test_NFA_EpsilonClosure(t *testing.T) {
	testCases := []struct {
		name   string
		nfa    NFA
		from   []int
		expect []int
	}{
		{
			name:   "union start reaches both branches",
			nfa:    unionAB(),
			from:   []int{4},
			expect: []int{0, 2, 4},
		},
		{
			name:   "state with no epsilon moves is its own closure",
			nfa:    unionAB(),
			from:   []int{0},
			expect: []int{0},
		},
		{
			name:   "closure of set is union of closures",
			nfa:    unionAB(),
			from:   []int{1, 3},
			expect: []int{1, 3, 5},
		},
		{
			name:   "star loop does not recurse forever",
			nfa:    starA(),
			from:   []int{1},
			expect: []int{0, 1, 3},
		},
		{
			name:   "empty set",
			nfa:    starA(),
			from:   nil,
			expect: []int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := tc.nfa.EpsilonClosure(util.NewKeySet(tc.from...))

			assert.Equal(tc.expect, actual.Elements())
		})
	}
}

func Test_NFA_Move(t *testing.T) {
	testCases := []struct {
		name   string
		nfa    NFA
		from   []int
		symbol rune
		expect []int
	}{
		{name: "one step on a", nfa: unionAB(), from: []int{0, 2, 4}, symbol: 'a', expect: []int{1}},
		{name: "one step on b", nfa: unionAB(), from: []int{0, 2, 4}, symbol: 'b', expect: []int{3}},
		{name: "epsilon moves are not followed", nfa: unionAB(), from: []int{4}, symbol: 'a', expect: []int{}},
		{name: "unknown symbol", nfa: unionAB(), from: []int{0, 2, 4}, symbol: 'c', expect: []int{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := tc.nfa.Move(util.NewKeySet(tc.from...), tc.symbol)

			assert.Equal(tc.expect, actual.Elements())
		})
	}
}

func Test_NFA_Alphabet(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]rune{'a', 'b'}, unionAB().Alphabet())
	assert.Equal([]rune{'a'}, starA().Alphabet())

	var empty NFA
	empty.AddState(0)
	assert.Empty(empty.Alphabet())
}

func Test_NFA_ToDFA(t *testing.T) {
	testCases := []struct {
		name   string
		nfa    NFA
		expect string
	}{
		{
			name: "union",
			nfa:  unionAB(),
			expect: "Q = {0, 1, 2}\n" +
				"Sigma = {'a', 'b'}\n" +
				"q0 = 0\n" +
				"F = {1, 2}\n" +
				"delta(0, 'a') = 1\n" +
				"delta(0, 'b') = 2\n",
		},
		{
			name: "star",
			nfa:  starA(),
			expect: "Q = {0, 1}\n" +
				"Sigma = {'a'}\n" +
				"q0 = 0\n" +
				"F = {0, 1}\n" +
				"delta(0, 'a') = 1\n" +
				"delta(1, 'a') = 1\n",
		},
		{
			name: "single state accepting only the empty word",
			nfa:  buildNFA(0, 0, nil),
			expect: "Q = {0}\n" +
				"Sigma = {}\n" +
				"q0 = 0\n" +
				"F = {0}\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			assert := assert.New(t)

			// execute
			actual := tc.nfa.ToDFA()

			// assert
			text, err := actual.MarshalText()
			assert.NoError(err)
			assert.Equal(tc.expect, string(text))
			assert.NoError(actual.Validate())
		})
	}
}

func Test_NFA_ToDFA_isDeterministic(t *testing.T) {
	assert := assert.New(t)

	first := unionAB().ToDFA()
	for i := 0; i < 20; i++ {
		assert.True(first.Equal(unionAB().ToDFA()))
	}
}

func Test_NFA_ToDFALimit(t *testing.T) {
	testCases := []struct {
		name      string
		max       int
		expectErr bool
	}{
		{name: "no limit", max: 0},
		{name: "limit equal to states", max: 3},
		{name: "limit above states", max: 10},
		{name: "limit below states", max: 2, expectErr: true},
		{name: "limit of one", max: 1, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// execute
			actual, err := unionAB().ToDFALimit(tc.max)

			// assert
			if tc.expectErr {
				assert.ErrorIs(err, ErrTooManyStates)
				return
			}
			assert.NoError(err)
			assert.True(unionAB().ToDFA().Equal(actual))
		})
	}
}

func Test_NFA_ToDFAWithSets(t *testing.T) {
	assert := assert.New(t)

	_, sets := unionAB().ToDFAWithSets()

	if !assert.Len(sets, 3) {
		return
	}
	assert.Equal("{0, 2, 4}", sets[0].StringOrdered())
	assert.Equal("{1, 5}", sets[1].StringOrdered())
	assert.Equal("{3, 5}", sets[2].StringOrdered())
}

func Test_NFA_Copy(t *testing.T) {
	assert := assert.New(t)

	orig := unionAB()
	copied := orig.Copy()
	copied.AddState(10)
	copied.AddTransition(5, On('z'), 10)

	assert.False(orig.HasState(10))
	assert.Equal([]rune{'a', 'b'}, orig.Alphabet())
	assert.Equal(unionAB().String(), orig.String())
}
