package automaton

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// endsInOne accepts binary strings that end in 1.
func endsInOne() DFA {
	dfa := NewDFA()
	dfa.AddState(0)
	dfa.AddState(1)
	dfa.AddSymbol('0')
	dfa.AddSymbol('1')
	dfa.SetStart(0)
	dfa.AddFinal(1)
	dfa.AddTransition(0, '0', 0)
	dfa.AddTransition(0, '1', 1)
	dfa.AddTransition(1, '0', 0)
	dfa.AddTransition(1, '1', 1)
	return dfa
}

func Test_DFA_Accepts(t *testing.T) {
	testCases := []struct {
		name   string
		dfa    DFA
		word   string
		expect bool
	}{
		{name: "accepted", dfa: endsInOne(), word: "0101", expect: true},
		{name: "rejected by ending in non-final state", dfa: endsInOne(), word: "0110", expect: false},
		{name: "empty word with non-final start", dfa: endsInOne(), word: "", expect: false},
		{name: "symbol outside alphabet", dfa: endsInOne(), word: "012", expect: false},
		{name: "empty word with final start", dfa: unionAB().ToDFA().withFinal(0), word: "", expect: true},
		{name: "missing transition", dfa: unionAB().ToDFA(), word: "ab", expect: false},
		{name: "partial dfa accepts", dfa: unionAB().ToDFA(), word: "b", expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := tc.dfa.Accepts(tc.word)

			assert.Equal(tc.expect, actual)
		})
	}
}

// withFinal returns a copy of the DFA with q added to F.
func (dfa DFA) withFinal(q int) DFA {
	copied := dfa.Copy()
	copied.AddFinal(q)
	return copied
}

func Test_DFA_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		build     func(dfa *DFA)
		expectErr bool
		expect    ViolationKind
	}{
		{
			name:  "valid",
			build: func(dfa *DFA) {},
		},
		{
			name:      "start not in Q",
			build:     func(dfa *DFA) { dfa.SetStart(7) },
			expectErr: true,
			expect:    StartNotInStates,
		},
		{
			name:      "final not in Q",
			build:     func(dfa *DFA) { dfa.AddFinal(9) },
			expectErr: true,
			expect:    FinalNotInStates,
		},
		{
			name:      "source not in Q",
			build:     func(dfa *DFA) { dfa.AddTransition(5, '0', 0) },
			expectErr: true,
			expect:    SourceNotInStates,
		},
		{
			name:      "symbol not in alphabet",
			build:     func(dfa *DFA) { dfa.AddTransition(0, 'x', 1) },
			expectErr: true,
			expect:    SymbolNotInAlphabet,
		},
		{
			name:      "destination not in Q",
			build:     func(dfa *DFA) { dfa.AddTransition(1, '1', 8) },
			expectErr: true,
			expect:    DestNotInStates,
		},
		{
			name: "start checked before finals",
			build: func(dfa *DFA) {
				dfa.SetStart(7)
				dfa.AddFinal(9)
			},
			expectErr: true,
			expect:    StartNotInStates,
		},
		{
			name: "finals checked before transitions",
			build: func(dfa *DFA) {
				dfa.AddFinal(9)
				dfa.AddTransition(1, '1', 8)
			},
			expectErr: true,
			expect:    FinalNotInStates,
		},
		{
			name:      "symbol checked before destination on the same transition",
			build:     func(dfa *DFA) { dfa.AddTransition(0, 'x', 8) },
			expectErr: true,
			expect:    SymbolNotInAlphabet,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			assert := assert.New(t)
			dfa := endsInOne()
			tc.build(&dfa)

			// execute
			err := dfa.Validate()

			// assert
			if !tc.expectErr {
				assert.NoError(err)
				return
			}

			var vErr *ValidationError
			if !assert.True(errors.As(err, &vErr)) {
				return
			}
			assert.Equal(tc.expect, vErr.Kind)
			assert.NotEmpty(vErr.Error())
		})
	}
}

func Test_DFA_Validate_zeroValue(t *testing.T) {
	assert := assert.New(t)

	var dfa DFA
	err := dfa.Validate()

	var vErr *ValidationError
	if assert.True(errors.As(err, &vErr)) {
		assert.Equal(StartNotInStates, vErr.Kind)
	}
}

func Test_DFA_Render(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	err := unionAB().ToDFA().Render(&buf, 80)
	if !assert.NoError(err) {
		return
	}
	out := buf.String()

	assert.Contains(out, "States (Q): { 0, 1, 2 }")
	assert.Contains(out, "Alphabet (Σ): { a, b }")
	assert.Contains(out, "Initial state (q0): 0")
	assert.Contains(out, "Final states (F): { 1, 2 }")
	assert.Contains(out, "->0")
	assert.Contains(out, "1*")
	assert.Contains(out, "2*")
	assert.Contains(out, "State")
}

func Test_DFA_Table(t *testing.T) {
	assert := assert.New(t)

	dfa := unionAB().ToDFA()
	dfa.AddFinal(0)

	expect := [][]string{
		{"State", "a", "b"},
		{"->0*", "1", "2"},
		{"1*", "-", "-"},
		{"2*", "-", "-"},
	}

	assert.Equal(expect, dfa.Table())
}

func Test_DFA_Equal(t *testing.T) {
	assert := assert.New(t)

	a := endsInOne()
	b := endsInOne()
	assert.True(a.Equal(b))
	assert.True(a.Equal(&b))

	b.AddTransition(1, '1', 0)
	assert.False(a.Equal(b))

	c := endsInOne()
	c.SetStart(1)
	assert.False(a.Equal(c))

	assert.False(a.Equal("not a dfa"))
}

func Test_DFA_TextRoundTrip(t *testing.T) {
	assert := assert.New(t)

	orig := endsInOne()
	orig.AddSymbol('\'')
	orig.AddSymbol(' ')
	orig.AddTransition(1, '\'', 0)
	orig.AddTransition(0, ' ', 1)

	text, err := orig.MarshalText()
	if !assert.NoError(err) {
		return
	}

	var actual DFA
	err = actual.UnmarshalText(text)
	if !assert.NoError(err) {
		return
	}

	assert.True(orig.Equal(actual), "got:\n%s", actual.String())
}

func Test_DFA_BinaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	orig := unionAB().ToDFA()
	orig.AddSymbol('é')
	orig.AddTransition(2, 'é', 0)

	data, err := orig.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var actual DFA
	err = actual.UnmarshalBinary(data)
	if !assert.NoError(err) {
		return
	}

	assert.True(orig.Equal(actual))
}

func Test_DFA_UnmarshalBinary_truncated(t *testing.T) {
	assert := assert.New(t)

	data, _ := endsInOne().MarshalBinary()

	var actual DFA
	err := actual.UnmarshalBinary(data[:len(data)/2])

	assert.Error(err)
}

func Test_ParseDefinition(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr bool
		check     func(assert *assert.Assertions, dfa DFA)
	}{
		{
			name: "full definition with comments in any order",
			input: `
				# binary strings that end in 1
				q0 = 0
				delta(0, '0') = 0
				delta(0, '1') = 1
				Q = {0, 1}
				Sigma = {'0', '1'}
				F = {1}
				delta(1, '0') = 0
				delta(1, '1') = 1
			`,
			check: func(assert *assert.Assertions, dfa DFA) {
				assert.True(endsInOne().Equal(dfa))
			},
		},
		{
			name: "invalid structure is still read",
			input: `
				Q = {0}
				Sigma = {}
				q0 = 3
				F = {}
			`,
			check: func(assert *assert.Assertions, dfa DFA) {
				var vErr *ValidationError
				if assert.ErrorAs(dfa.Validate(), &vErr) {
					assert.Equal(StartNotInStates, vErr.Kind)
				}
			},
		},
		{
			name:      "missing q0",
			input:     "Q = {0}\nF = {0}\n",
			expectErr: true,
		},
		{
			name:      "q0 twice",
			input:     "q0 = 0\nq0 = 1\n",
			expectErr: true,
		},
		{
			name:      "conflicting transitions",
			input:     "q0 = 0\ndelta(0, 'a') = 1\ndelta(0, 'a') = 2\n",
			expectErr: true,
		},
		{
			name:      "multi-character symbol",
			input:     "q0 = 0\nSigma = {'ab'}\n",
			expectErr: true,
		},
		{
			name:      "syntax error",
			input:     "q0 = = 0\n",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDefinition(strings.NewReader(tc.input))

			if tc.expectErr {
				assert.ErrorIs(err, ErrDefinition)
				return
			}
			if !assert.NoError(err) {
				return
			}
			tc.check(assert, actual)
		})
	}
}
