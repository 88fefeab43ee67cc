package regex

import (
	"fmt"
	"strings"
)

// Kind is the kind of a Token.
type Kind int

const (
	Literal Kind = iota
	Concat
	Union
	Star
	Plus
	Optional
	Open
	Close
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case Concat:
		return "Concat"
	case Union:
		return "Union"
	case Star:
		return "Star"
	case Plus:
		return "Plus"
	case Optional:
		return "Optional"
	case Open:
		return "Open"
	case Close:
		return "Close"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Unary returns whether k is a postfix operator taking one operand.
func (k Kind) Unary() bool {
	return k == Star || k == Plus || k == Optional
}

// Binary returns whether k is an infix operator taking two operands.
func (k Kind) Binary() bool {
	return k == Concat || k == Union
}

// precedence gives the binding strength of an operator. Higher binds tighter.
// Parentheses and literals are 0.
func (k Kind) precedence() int {
	switch k {
	case Star, Plus, Optional:
		return 3
	case Concat:
		return 2
	case Union:
		return 1
	default:
		return 0
	}
}

var operatorRunes = map[rune]Kind{
	'*': Star,
	'+': Plus,
	'?': Optional,
	'|': Union,
	'(': Open,
	')': Close,
}

var operatorText = map[Kind]string{
	Concat:   ".",
	Union:    "|",
	Star:     "*",
	Plus:     "+",
	Optional: "?",
	Open:     "(",
	Close:    ")",
}

// Token is one element of a pattern. Symbol is only meaningful for Literal
// tokens.
type Token struct {
	Kind   Kind
	Symbol rune

	// Pos is the index of the rune in the pattern the token came from. An
	// implicit concatenation has the position of the token after it.
	Pos int
}

// Lit returns a Literal token for r.
func Lit(r rune) Token {
	return Token{Kind: Literal, Symbol: r}
}

// Op returns an operator token of the given kind.
func Op(k Kind) Token {
	return Token{Kind: k}
}

// String gives the symbol of a literal or the operator character. An
// explicit concatenation is shown as ".".
func (t Token) String() string {
	if t.Kind == Literal {
		return string(t.Symbol)
	}
	return operatorText[t.Kind]
}

// Tokenize splits a pattern into tokens. Every rune that is not one of
// * + ? | ( ) is a literal symbol.
func Tokenize(pattern string) []Token {
	var tokens []Token

	pos := 0
	for _, ch := range pattern {
		if k, isOp := operatorRunes[ch]; isOp {
			tokens = append(tokens, Token{Kind: k, Pos: pos})
		} else {
			tokens = append(tokens, Token{Kind: Literal, Symbol: ch, Pos: pos})
		}
		pos++
	}

	return tokens
}

// Postfix is a token sequence in reverse Polish order. It never holds Open or
// Close tokens.
type Postfix []Token

// String is the concatenation of the String of every token.
func (p Postfix) String() string {
	var sb strings.Builder
	for _, t := range p {
		sb.WriteString(t.String())
	}
	return sb.String()
}
