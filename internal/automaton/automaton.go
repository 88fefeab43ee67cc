// Package automaton has finite automata over rune alphabets: the NFAs produced
// by Thompson construction, the subset construction that turns them into DFAs,
// and the DFA model itself with validation, simulation, rendering and
// serialization.
package automaton

import (
	"fmt"
	"strconv"
)

// Input is the label on an NFA transition. It is either a single symbol or
// the empty move ε. The zero value is ε.
type Input struct {
	sym   rune
	isSym bool
}

// Epsilon is the label of a transition that consumes no input.
var Epsilon = Input{}

// On returns the label of a transition that consumes exactly r.
func On(r rune) Input {
	return Input{sym: r, isSym: true}
}

// IsEpsilon returns whether the label is ε.
func (in Input) IsEpsilon() bool {
	return !in.isSym
}

// Symbol returns the symbol consumed by the label. ok is false if the label
// is ε.
func (in Input) Symbol() (r rune, ok bool) {
	return in.sym, in.isSym
}

func (in Input) String() string {
	if !in.isSym {
		return "ε"
	}
	return string(in.sym)
}

// Transition is a single labeled edge of an NFA.
type Transition struct {
	From  int
	Input Input
	To    int
}

func (t Transition) String() string {
	return fmt.Sprintf("%d =(%s)=> %d", t.From, t.Input, t.To)
}

// DFATransition is a single entry of a DFA's transition function.
type DFATransition struct {
	From   int
	Symbol rune
	To     int
}

func (t DFATransition) String() string {
	return fmt.Sprintf("δ(%d, %s) = %d", t.From, strconv.QuoteRune(t.Symbol), t.To)
}
