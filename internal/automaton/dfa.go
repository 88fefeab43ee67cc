package automaton

import (
	"github.com/dekarrin/refa/internal/util"
)

// DFA is a deterministic finite automaton M = (Q, Σ, δ, q0, F) whose
// transition function δ may be partial. Nothing is checked when a DFA is
// built up; call Validate to check that it is structurally sound. This allows
// a DFA to hold automata loaded from outside that may be broken.
//
// The zero value is an automaton with no states, which does not validate.
type DFA struct {
	start    int
	states   util.KeySet[int]
	alphabet util.KeySet[rune]
	final    util.KeySet[int]
	delta    map[int]map[rune]int
}

// NewDFA returns an empty DFA ready to be built up.
func NewDFA() DFA {
	return DFA{
		states:   util.NewKeySet[int](),
		alphabet: util.NewKeySet[rune](),
		final:    util.NewKeySet[int](),
		delta:    map[int]map[rune]int{},
	}
}

func (dfa *DFA) init() {
	if dfa.states == nil {
		dfa.states = util.NewKeySet[int]()
	}
	if dfa.alphabet == nil {
		dfa.alphabet = util.NewKeySet[rune]()
	}
	if dfa.final == nil {
		dfa.final = util.NewKeySet[int]()
	}
	if dfa.delta == nil {
		dfa.delta = map[int]map[rune]int{}
	}
}

// AddState adds q to Q.
func (dfa *DFA) AddState(q int) {
	dfa.init()
	dfa.states.Add(q)
}

// AddSymbol adds a to Σ.
func (dfa *DFA) AddSymbol(a rune) {
	dfa.init()
	dfa.alphabet.Add(a)
}

// SetStart sets q0. q does not need to be in Q.
func (dfa *DFA) SetStart(q int) {
	dfa.start = q
}

// AddFinal adds q to F. q does not need to be in Q.
func (dfa *DFA) AddFinal(q int) {
	dfa.init()
	dfa.final.Add(q)
}

// AddTransition sets δ(from, a) = to, replacing any existing entry. None of
// from, a, or to need to be in Q or Σ.
func (dfa *DFA) AddTransition(from int, a rune, to int) {
	dfa.init()

	row, ok := dfa.delta[from]
	if !ok {
		row = map[rune]int{}
		dfa.delta[from] = row
	}
	row[a] = to
}

// Start returns q0.
func (dfa DFA) Start() int {
	return dfa.start
}

// States returns Q in ascending order.
func (dfa DFA) States() []int {
	return dfa.states.Elements()
}

// Alphabet returns Σ in ascending order.
func (dfa DFA) Alphabet() []rune {
	return dfa.alphabet.Elements()
}

// FinalStates returns F in ascending order.
func (dfa DFA) FinalStates() []int {
	return dfa.final.Elements()
}

// HasState returns whether q is in Q.
func (dfa DFA) HasState(q int) bool {
	return dfa.states.Has(q)
}

// HasSymbol returns whether a is in Σ.
func (dfa DFA) HasSymbol(a rune) bool {
	return dfa.alphabet.Has(a)
}

// IsFinal returns whether q is in F.
func (dfa DFA) IsFinal(q int) bool {
	return dfa.final.Has(q)
}

// Next returns δ(q, a). ok is false if the transition is not defined.
func (dfa DFA) Next(q int, a rune) (next int, ok bool) {
	row, hasRow := dfa.delta[q]
	if !hasRow {
		return 0, false
	}
	next, ok = row[a]
	return next, ok
}

// Transitions returns every defined transition ordered by source state and
// then by symbol.
func (dfa DFA) Transitions() []DFATransition {
	var all []DFATransition

	for _, q := range util.OrderedKeys(dfa.delta) {
		row := dfa.delta[q]
		for _, a := range util.OrderedKeys(row) {
			all = append(all, DFATransition{From: q, Symbol: a, To: row[a]})
		}
	}

	return all
}

// Accepts runs the DFA on word and returns whether it ends in a final state.
// A symbol outside of Σ or an undefined transition rejects the word at once.
// The empty word is accepted exactly when q0 is final.
func (dfa DFA) Accepts(word string) bool {
	cur := dfa.start

	for _, a := range word {
		if !dfa.alphabet.Has(a) {
			return false
		}

		next, ok := dfa.Next(cur, a)
		if !ok {
			return false
		}
		cur = next
	}

	return dfa.final.Has(cur)
}

// Equal returns whether o is a DFA (or non-nil *DFA) with the same states,
// alphabet, start state, final states, and transition function. State
// numbering must match as well.
func (dfa DFA) Equal(o any) bool {
	other, ok := o.(DFA)
	if !ok {
		otherPtr, ok := o.(*DFA)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if dfa.start != other.start {
		return false
	}
	if !dfa.states.Equal(other.states) || !dfa.alphabet.Equal(other.alphabet) || !dfa.final.Equal(other.final) {
		return false
	}

	mine := dfa.Transitions()
	theirs := other.Transitions()
	if len(mine) != len(theirs) {
		return false
	}
	for i := range mine {
		if mine[i] != theirs[i] {
			return false
		}
	}

	return true
}

// Copy returns a deep copy of the DFA.
func (dfa DFA) Copy() DFA {
	copied := NewDFA()
	copied.start = dfa.start
	copied.states.AddAll(dfa.states)
	copied.alphabet.AddAll(dfa.alphabet)
	copied.final.AddAll(dfa.final)

	for _, t := range dfa.Transitions() {
		copied.AddTransition(t.From, t.Symbol, t.To)
	}

	return copied
}
