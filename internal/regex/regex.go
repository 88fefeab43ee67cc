// Package regex compiles regular expression patterns into automata. A
// pattern is made of literal symbols and the operators | (union), * (zero or
// more), + (one or more), ? (zero or one) and parentheses for grouping;
// writing two operands next to each other concatenates them.
//
// Compilation runs in stages that are each exposed on their own: Normalize
// turns the infix pattern into postfix, Build makes an NFA from the postfix
// with Thompson construction, and the NFA is converted to a DFA by subset
// construction.
package regex

import (
	"github.com/dekarrin/refa/internal/automaton"
)

// Compiled is the result of compiling a pattern, with every intermediate
// stage kept.
type Compiled struct {
	Pattern     string
	Postfix     Postfix
	Diagnostics []Diagnostic
	NFA         automaton.NFA
	DFA         automaton.DFA
}

// Compile converts pattern into a DFA that accepts exactly the words the
// pattern matches. Compiling the same pattern twice gives equal DFAs, state
// numbering included.
func Compile(pattern string, opts Options) (*Compiled, error) {
	postfix, diags, err := Normalize(pattern, opts)
	if err != nil {
		return nil, err
	}

	nfa, err := Build(postfix)
	if err != nil {
		return nil, err
	}

	dfa, err := nfa.ToDFALimit(opts.MaxStates)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Pattern:     pattern,
		Postfix:     postfix,
		Diagnostics: diags,
		NFA:         nfa,
		DFA:         dfa,
	}, nil
}

// MustCompile is like Compile but panics if there is an error.
func MustCompile(pattern string, opts Options) *Compiled {
	c, err := Compile(pattern, opts)
	if err != nil {
		panic(err.Error())
	}
	return c
}

// Tree returns the syntax tree of the compiled pattern.
func (c *Compiled) Tree() (*Node, error) {
	return BuildTree(c.Postfix)
}

// Matches returns whether the pattern matches all of word.
func (c *Compiled) Matches(word string) bool {
	return c.DFA.Accepts(word)
}
