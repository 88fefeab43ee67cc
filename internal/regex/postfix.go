package regex

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dekarrin/refa/internal/util"
)

var (
	// ErrUnbalanced is wrapped by every Diagnostic and is returned from
	// Normalize in strict mode when parentheses do not match.
	ErrUnbalanced = errors.New("unbalanced parentheses")

	// ErrMalformed is returned when a postfix sequence cannot be assembled,
	// such as when an operator has no operand.
	ErrMalformed = errors.New("malformed pattern")
)

// DiagnosticKind is the kind of problem a Diagnostic reports.
type DiagnosticKind int

const (
	UnmatchedOpen DiagnosticKind = iota
	UnmatchedClose
)

func (dk DiagnosticKind) String() string {
	switch dk {
	case UnmatchedOpen:
		return "UnmatchedOpen"
	case UnmatchedClose:
		return "UnmatchedClose"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(dk))
	}
}

// Diagnostic is a problem with a pattern that normalization recovered from.
// It can be used as an error.
type Diagnostic struct {
	Kind DiagnosticKind

	// Pos is the index of the rune in the pattern of the offending
	// parenthesis.
	Pos int
}

func (d Diagnostic) Error() string {
	switch d.Kind {
	case UnmatchedOpen:
		return fmt.Sprintf("unmatched '(' at position %d", d.Pos)
	case UnmatchedClose:
		return fmt.Sprintf("unmatched ')' at position %d", d.Pos)
	default:
		return fmt.Sprintf("%s at position %d", d.Kind, d.Pos)
	}
}

func (d Diagnostic) Unwrap() error {
	return ErrUnbalanced
}

// Options changes how a pattern is compiled.
type Options struct {
	// Strict makes unmatched parentheses an error instead of a diagnostic.
	Strict bool

	// MaxStates caps the number of DFA states Compile will build. A pattern
	// needing more fails with an error matching automaton.ErrTooManyStates.
	// 0 means no limit.
	MaxStates int
}

// Normalize converts an infix pattern to postfix. Implicit concatenation is
// made explicit and then operators are reordered with the shunting-yard
// algorithm.
//
// An unmatched parenthesis is dropped and reported in the returned
// diagnostics; the remaining tokens are still converted. If opts.Strict is
// set, the first diagnostic is instead returned as the error, and it will
// match ErrUnbalanced with errors.Is.
func Normalize(pattern string, opts Options) (Postfix, []Diagnostic, error) {
	tokens := InsertConcat(Tokenize(pattern))
	postfix, diags := ToPostfix(tokens)

	if opts.Strict && len(diags) > 0 {
		return nil, diags, diags[0]
	}

	return postfix, diags, nil
}

// InsertConcat returns a copy of tokens with an explicit Concat placed
// wherever two operands are adjacent: after a literal, a closing parenthesis,
// or a unary operator, when followed by a literal or an opening parenthesis.
func InsertConcat(tokens []Token) []Token {
	if len(tokens) == 0 {
		return nil
	}

	out := make([]Token, 0, len(tokens)*2)

	for i := range tokens {
		out = append(out, tokens[i])

		if i+1 >= len(tokens) {
			break
		}

		cur, next := tokens[i].Kind, tokens[i+1].Kind
		endsOperand := cur == Literal || cur == Close || cur.Unary()
		startsOperand := next == Literal || next == Open

		if endsOperand && startsOperand {
			out = append(out, Token{Kind: Concat, Pos: tokens[i+1].Pos})
		}
	}

	return out
}

// ToPostfix reorders infix tokens into postfix. All operators are left
// associative. Parentheses do not appear in the output; any that are not
// matched are reported as diagnostics ordered by position.
func ToPostfix(tokens []Token) (Postfix, []Diagnostic) {
	var out Postfix
	var diags []Diagnostic
	var ops util.Stack[Token]

	for _, tok := range tokens {
		switch tok.Kind {
		case Literal:
			out = append(out, tok)
		case Open:
			ops.Push(tok)
		case Close:
			matched := false
			for !ops.Empty() {
				top := ops.Pop()
				if top.Kind == Open {
					matched = true
					break
				}
				out = append(out, top)
			}

			if !matched {
				diags = append(diags, Diagnostic{Kind: UnmatchedClose, Pos: tok.Pos})
			}
		default:
			prec := tok.Kind.precedence()
			for !ops.Empty() && ops.Peek().Kind != Open && ops.Peek().Kind.precedence() >= prec {
				out = append(out, ops.Pop())
			}
			ops.Push(tok)
		}
	}

	for !ops.Empty() {
		top := ops.Pop()
		if top.Kind == Open {
			diags = append(diags, Diagnostic{Kind: UnmatchedOpen, Pos: top.Pos})
			continue
		}
		out = append(out, top)
	}

	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Pos < diags[j].Pos
	})

	return out, diags
}
