package regex

import (
	"fmt"

	"github.com/dekarrin/refa/internal/automaton"
	"github.com/dekarrin/refa/internal/util"
)

// fragment is a partially built NFA with one entry and one exit state.
type fragment struct {
	start int
	final int
}

// stateCounter hands out state numbers for a single build.
type stateCounter struct {
	next int
}

func (sc *stateCounter) take() int {
	q := sc.next
	sc.next++
	return q
}

// thompsonBuilder holds the state of one run of Thompson construction.
type thompsonBuilder struct {
	nfa     automaton.NFA
	counter stateCounter
	stack   util.Stack[fragment]
}

func (b *thompsonBuilder) newState() int {
	q := b.counter.take()
	b.nfa.AddState(q)
	return q
}

func (b *thompsonBuilder) pop(op Token) (fragment, error) {
	if b.stack.Empty() {
		return fragment{}, fmt.Errorf("%w: %q at position %d is missing an operand", ErrMalformed, op.String(), op.Pos)
	}
	return b.stack.Pop(), nil
}

func (b *thompsonBuilder) epsilon(from, to int) {
	b.nfa.AddTransition(from, automaton.Epsilon, to)
}

// Build makes an NFA from a postfix token sequence using Thompson
// construction. States are numbered from 0 in the order they are created, so
// building the same postfix twice gives identical NFAs.
//
// An empty postfix gives an NFA of a single state that is both start and
// final, which accepts only the empty word. An operator without enough
// operands gives an error that matches ErrMalformed.
func Build(postfix Postfix) (automaton.NFA, error) {
	b := &thompsonBuilder{}

	for _, tok := range postfix {
		switch tok.Kind {
		case Literal:
			s := b.newState()
			t := b.newState()
			b.nfa.AddTransition(s, automaton.On(tok.Symbol), t)
			b.stack.Push(fragment{start: s, final: t})
		case Star, Plus, Optional:
			a, err := b.pop(tok)
			if err != nil {
				return automaton.NFA{}, err
			}
			s := b.newState()
			t := b.newState()

			b.epsilon(s, a.start)
			b.epsilon(a.final, t)
			if tok.Kind != Optional {
				// loop back for another repetition
				b.epsilon(a.final, a.start)
			}
			if tok.Kind != Plus {
				// bypass for zero repetitions
				b.epsilon(s, t)
			}
			b.stack.Push(fragment{start: s, final: t})
		case Concat:
			right, err := b.pop(tok)
			if err != nil {
				return automaton.NFA{}, err
			}
			left, err := b.pop(tok)
			if err != nil {
				return automaton.NFA{}, err
			}

			b.epsilon(left.final, right.start)
			b.stack.Push(fragment{start: left.start, final: right.final})
		case Union:
			right, err := b.pop(tok)
			if err != nil {
				return automaton.NFA{}, err
			}
			left, err := b.pop(tok)
			if err != nil {
				return automaton.NFA{}, err
			}
			s := b.newState()
			t := b.newState()

			b.epsilon(s, left.start)
			b.epsilon(s, right.start)
			b.epsilon(left.final, t)
			b.epsilon(right.final, t)
			b.stack.Push(fragment{start: s, final: t})
		default:
			return automaton.NFA{}, fmt.Errorf("%w: %s token at position %d cannot appear in postfix", ErrMalformed, tok.Kind, tok.Pos)
		}
	}

	switch b.stack.Len() {
	case 0:
		q := b.newState()
		b.nfa.Start = q
		b.nfa.Final = q
	case 1:
		frag := b.stack.Pop()
		b.nfa.Start = frag.start
		b.nfa.Final = frag.final
	default:
		return automaton.NFA{}, fmt.Errorf("%w: %d operands are not joined by any operator", ErrMalformed, b.stack.Len())
	}

	return b.nfa, nil
}
