package automaton

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/refa/internal/util"
)

// ErrTooManyStates is returned when subset construction would make a DFA
// bigger than the limit it was given.
var ErrTooManyStates = errors.New("DFA has too many states")

// NFA is a nondeterministic finite automaton with ε-moves. It has exactly one
// start state and exactly one accepting state.
type NFA struct {
	Start int
	Final int

	states util.KeySet[int]

	// outgoing transitions by source state, in the order they were added.
	out map[int][]Transition
}

// AddState adds q to the NFA. Adding a state that already exists has no
// effect.
func (nfa *NFA) AddState(q int) {
	if nfa.states == nil {
		nfa.states = util.NewKeySet[int]()
	}
	nfa.states.Add(q)
}

// AddTransition adds an edge from one state to another with the given label.
// Both states must already exist or AddTransition panics.
func (nfa *NFA) AddTransition(from int, in Input, to int) {
	if !nfa.states.Has(from) {
		panic(fmt.Sprintf("add transition from non-existent state %d", from))
	}
	if !nfa.states.Has(to) {
		panic(fmt.Sprintf("add transition to non-existent state %d", to))
	}

	if nfa.out == nil {
		nfa.out = map[int][]Transition{}
	}
	nfa.out[from] = append(nfa.out[from], Transition{From: from, Input: in, To: to})
}

// HasState returns whether q is a state of the NFA.
func (nfa NFA) HasState(q int) bool {
	return nfa.states.Has(q)
}

// States returns all states in the NFA in ascending order.
func (nfa NFA) States() []int {
	return nfa.states.Elements()
}

// Transitions returns every transition of the NFA ordered by source state and
// then by the order in which they were added.
func (nfa NFA) Transitions() []Transition {
	var all []Transition
	for _, q := range util.OrderedKeys(nfa.out) {
		all = append(all, nfa.out[q]...)
	}
	return all
}

// Alphabet returns the set of all symbols read by some transition in the NFA,
// sorted ascending. ε is never included.
func (nfa NFA) Alphabet() []rune {
	symbols := util.NewKeySet[rune]()
	for q := range nfa.out {
		for _, t := range nfa.out[q] {
			if a, ok := t.Input.Symbol(); ok {
				symbols.Add(a)
			}
		}
	}

	return symbols.Elements()
}

// EpsilonClosure gives the set of states reachable from any state in X using
// zero or more ε-moves. X itself is always contained in the result.
func (nfa NFA) EpsilonClosure(X util.KeySet[int]) util.KeySet[int] {
	closure := util.NewKeySet[int]()
	checking := util.Stack[int]{Of: X.Elements()}

	for !checking.Empty() {
		q := checking.Pop()

		if closure.Has(q) {
			continue
		}
		closure.Add(q)

		for _, t := range nfa.out[q] {
			if t.Input.IsEpsilon() && !closure.Has(t.To) {
				checking.Push(t.To)
			}
		}
	}

	return closure
}

// Move returns the set of states reachable with exactly one transition on
// symbol a from some state in X.
func (nfa NFA) Move(X util.KeySet[int], a rune) util.KeySet[int] {
	moves := util.NewKeySet[int]()

	for q := range X {
		for _, t := range nfa.out[q] {
			if sym, ok := t.Input.Symbol(); ok && sym == a {
				moves.Add(t.To)
			}
		}
	}

	return moves
}

// ToDFA converts the NFA into a deterministic finite automaton accepting the
// same words using the subset construction.
//
// DFA states are numbered in the order their NFA state sets are first
// discovered. The ε-closure of the start state is always state 0, sets are
// processed first-in first-out, and symbols are tried in ascending order, so
// converting the same NFA always gives the same DFA, numbering included.
func (nfa NFA) ToDFA() DFA {
	dfa, _, _ := nfa.subsetConstruction(0)
	return dfa
}

// ToDFALimit is the same as ToDFA but gives up once the DFA would have more
// than limit states, in which case the returned error matches
// ErrTooManyStates. A limit of 0 or less means no limit.
func (nfa NFA) ToDFALimit(limit int) (DFA, error) {
	dfa, _, err := nfa.subsetConstruction(limit)
	return dfa, err
}

// ToDFAWithSets is the same as ToDFA but also returns the set of NFA states
// that each DFA state stands for, indexed by DFA state.
func (nfa NFA) ToDFAWithSets() (DFA, []util.KeySet[int]) {
	dfa, sets, _ := nfa.subsetConstruction(0)
	return dfa, sets
}

func (nfa NFA) subsetConstruction(limit int) (DFA, []util.KeySet[int], error) {
	alphabet := nfa.Alphabet()

	dfa := NewDFA()
	for _, a := range alphabet {
		dfa.AddSymbol(a)
	}

	start := nfa.EpsilonClosure(util.NewKeySet(nfa.Start))

	ids := map[string]int{start.StringOrdered(): 0}
	Dstates := []util.KeySet[int]{start}
	dfa.AddState(0)
	dfa.SetStart(0)

	// Dstates doubles as the worklist; everything past cur is unmarked.
	for cur := 0; cur < len(Dstates); cur++ {
		T := Dstates[cur]

		if T.Has(nfa.Final) {
			dfa.AddFinal(cur)
		}

		for _, a := range alphabet {
			U := nfa.EpsilonClosure(nfa.Move(T, a))

			// no move on a from T; leave the transition undefined
			if U.Empty() {
				continue
			}

			key := U.StringOrdered()
			id, seen := ids[key]
			if !seen {
				if limit > 0 && len(Dstates) >= limit {
					return DFA{}, nil, fmt.Errorf("%w: more than %d", ErrTooManyStates, limit)
				}
				id = len(Dstates)
				ids[key] = id
				Dstates = append(Dstates, U)
				dfa.AddState(id)
			}

			dfa.AddTransition(cur, a, id)
		}
	}

	return dfa, Dstates, nil
}

// Copy returns a duplicate of this NFA.
func (nfa NFA) Copy() NFA {
	copied := NFA{
		Start:  nfa.Start,
		Final:  nfa.Final,
		states: nfa.states.Copy(),
		out:    make(map[int][]Transition, len(nfa.out)),
	}

	for q := range nfa.out {
		copied.out[q] = append([]Transition(nil), nfa.out[q]...)
	}

	return copied
}

func (nfa NFA) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %d, FINAL: %d, STATES: %s, TRANSITIONS:", nfa.Start, nfa.Final, nfa.states.StringOrdered()))

	for i, t := range nfa.Transitions() {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteRune(' ')
		sb.WriteString(t.String())
	}

	sb.WriteRune('>')
	return sb.String()
}
