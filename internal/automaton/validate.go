package automaton

import (
	"fmt"
	"strconv"
)

// ViolationKind is the structural rule of a DFA that a ValidationError
// reports as broken.
type ViolationKind int

const (
	StartNotInStates ViolationKind = iota
	FinalNotInStates
	SourceNotInStates
	SymbolNotInAlphabet
	DestNotInStates
)

func (vk ViolationKind) String() string {
	switch vk {
	case StartNotInStates:
		return "StartNotInStates"
	case FinalNotInStates:
		return "FinalNotInStates"
	case SourceNotInStates:
		return "SourceNotInStates"
	case SymbolNotInAlphabet:
		return "SymbolNotInAlphabet"
	case DestNotInStates:
		return "DestNotInStates"
	default:
		return fmt.Sprintf("ViolationKind(%d)", int(vk))
	}
}

// ValidationError is returned by DFA.Validate for the first broken rule it
// finds.
type ValidationError struct {
	Kind ViolationKind

	// State is the offending state for StartNotInStates and FinalNotInStates.
	State int

	// Transition is the offending transition for the other kinds.
	Transition DFATransition
}

func (e *ValidationError) Error() string {
	t := e.Transition

	switch e.Kind {
	case StartNotInStates:
		return fmt.Sprintf("initial state %d is not in Q", e.State)
	case FinalNotInStates:
		return fmt.Sprintf("final state %d is not in Q", e.State)
	case SourceNotInStates:
		return fmt.Sprintf("transition %s: source state %d is not in Q", t, t.From)
	case SymbolNotInAlphabet:
		return fmt.Sprintf("transition %s: symbol %s is not in Σ", t, strconv.QuoteRune(t.Symbol))
	case DestNotInStates:
		return fmt.Sprintf("transition %s: destination state %d is not in Q", t, t.To)
	default:
		return fmt.Sprintf("invalid automaton (%s)", e.Kind)
	}
}

// Validate checks that the DFA is well-formed and returns a *ValidationError
// describing the first problem found, or nil if there is none.
//
// Checks are made in this order and stop at the first failure: q0 is in Q;
// every final state is in Q; then for every transition, by ascending source
// state and symbol, its source is in Q, its symbol is in Σ, and its
// destination is in Q.
func (dfa DFA) Validate() error {
	if !dfa.states.Has(dfa.start) {
		return &ValidationError{Kind: StartNotInStates, State: dfa.start}
	}

	for _, f := range dfa.final.Elements() {
		if !dfa.states.Has(f) {
			return &ValidationError{Kind: FinalNotInStates, State: f}
		}
	}

	for _, t := range dfa.Transitions() {
		if !dfa.states.Has(t.From) {
			return &ValidationError{Kind: SourceNotInStates, State: t.From, Transition: t}
		}
		if !dfa.alphabet.Has(t.Symbol) {
			return &ValidationError{Kind: SymbolNotInAlphabet, State: t.From, Transition: t}
		}
		if !dfa.states.Has(t.To) {
			return &ValidationError{Kind: DestNotInStates, State: t.To, Transition: t}
		}
	}

	return nil
}
