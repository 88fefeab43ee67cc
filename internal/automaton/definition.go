package automaton

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/dekarrin/refa/internal/util"
)

// ErrDefinition is the error wrapped by every failure to read a DFA
// definition.
var ErrDefinition = errors.New("bad DFA definition")

// The definition format is line-oriented text such as:
//
//	# binary strings that end in 1
//	Q = {0, 1}
//	Sigma = {'0', '1'}
//	q0 = 0
//	F = {1}
//	delta(0, '0') = 0
//	delta(0, '1') = 1
//	delta(1, '0') = 0
//	delta(1, '1') = 1
//
// Symbols are Go rune literals so that any rune can be written. Entries may
// appear in any order.

type definitionFile struct {
	Entries []*definitionEntry `parser:"@@*"`
}

type definitionEntry struct {
	States     *stateList       `parser:"  'Q' '=' @@"`
	Alphabet   *symbolList      `parser:"| 'Sigma' '=' @@"`
	Start      *int             `parser:"| 'q0' '=' @Int"`
	Final      *stateList       `parser:"| 'F' '=' @@"`
	Transition *definitionDelta `parser:"| @@"`
	Pos        lexer.Position
}

type stateList struct {
	Items []int `parser:"'{' (@Int (',' @Int)*)? '}'"`
}

type symbolList struct {
	Items []string `parser:"'{' (@Symbol (',' @Symbol)*)? '}'"`
}

type definitionDelta struct {
	From   int    `parser:"'delta' '(' @Int ','"`
	Symbol string `parser:"@Symbol ')' '='"`
	To     int    `parser:"@Int"`
}

var definitionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Symbol", Pattern: `'(?:\\.|[^'\\])+'`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[{}(),=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var definitionParser = participle.MustBuild[definitionFile](
	participle.Lexer(definitionLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseDefinition reads a DFA in the definition format from r. The returned
// DFA is not validated; automata with broken structure can be read so that
// they can be checked with Validate.
func ParseDefinition(r io.Reader) (DFA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return DFA{}, fmt.Errorf("%w: %s", ErrDefinition, err)
	}

	var dfa DFA
	if err := dfa.UnmarshalText(data); err != nil {
		return DFA{}, err
	}
	return dfa, nil
}

// MarshalText converts the DFA to the definition format. It never returns a
// non-nil error.
func (dfa DFA) MarshalText() ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("Q = ")
	sb.WriteString(util.JoinFormatted(dfa.States(), "{", ", ", "}", strconv.Itoa))
	sb.WriteString("\nSigma = ")
	sb.WriteString(util.JoinFormatted(dfa.Alphabet(), "{", ", ", "}", strconv.QuoteRune))
	sb.WriteString(fmt.Sprintf("\nq0 = %d\n", dfa.start))
	sb.WriteString("F = ")
	sb.WriteString(util.JoinFormatted(dfa.FinalStates(), "{", ", ", "}", strconv.Itoa))
	sb.WriteRune('\n')

	for _, t := range dfa.Transitions() {
		sb.WriteString(fmt.Sprintf("delta(%d, %s) = %d\n", t.From, strconv.QuoteRune(t.Symbol), t.To))
	}

	return []byte(sb.String()), nil
}

// UnmarshalText replaces the contents of the DFA with the automaton described
// by data in the definition format. All errors wrap ErrDefinition.
func (dfa *DFA) UnmarshalText(data []byte) error {
	file, err := definitionParser.ParseBytes("definition", data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDefinition, err)
	}

	newDFA := NewDFA()
	startSet := false

	for _, ent := range file.Entries {
		switch {
		case ent.States != nil:
			for _, q := range ent.States.Items {
				newDFA.AddState(q)
			}
		case ent.Alphabet != nil:
			for _, lit := range ent.Alphabet.Items {
				a, err := unquoteSymbol(lit)
				if err != nil {
					return fmt.Errorf("%w: %s: %s", ErrDefinition, ent.Pos, err)
				}
				newDFA.AddSymbol(a)
			}
		case ent.Start != nil:
			if startSet {
				return fmt.Errorf("%w: %s: q0 given more than once", ErrDefinition, ent.Pos)
			}
			newDFA.SetStart(*ent.Start)
			startSet = true
		case ent.Final != nil:
			for _, q := range ent.Final.Items {
				newDFA.AddFinal(q)
			}
		case ent.Transition != nil:
			d := ent.Transition
			a, err := unquoteSymbol(d.Symbol)
			if err != nil {
				return fmt.Errorf("%w: %s: %s", ErrDefinition, ent.Pos, err)
			}
			if existing, ok := newDFA.Next(d.From, a); ok && existing != d.To {
				return fmt.Errorf("%w: %s: delta(%d, %s) given as both %d and %d", ErrDefinition, ent.Pos, d.From, d.Symbol, existing, d.To)
			}
			newDFA.AddTransition(d.From, a, d.To)
		}
	}

	if !startSet {
		return fmt.Errorf("%w: no q0 given", ErrDefinition)
	}

	*dfa = newDFA
	return nil
}

func unquoteSymbol(lit string) (rune, error) {
	s, err := strconv.Unquote(lit)
	if err != nil {
		return 0, fmt.Errorf("symbol %s: %w", lit, err)
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("symbol %s is not exactly one character", lit)
	}
	return runes[0], nil
}
