package automaton

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/dekarrin/refa/internal/util"
	"github.com/dekarrin/rosed"
)

// DefaultWidth is the width String lays out the transition table in.
const DefaultWidth = 80

// Render writes a human-readable description of the DFA to w: the sets Q, Σ,
// and F, the start state, and the transition table. In the table the start
// state's row is marked with a leading "->" and final states' rows with a
// trailing "*"; an undefined transition is shown as "-".
func (dfa DFA) Render(w io.Writer, width int) error {
	_, err := io.WriteString(w, dfa.render(width))
	return err
}

func (dfa DFA) String() string {
	return dfa.render(DefaultWidth)
}

func (dfa DFA) render(width int) string {
	var sb strings.Builder

	sb.WriteString("Deterministic Finite Automaton (M):\n")
	sb.WriteString(fmt.Sprintf("States (Q): %s\n", formatStates(dfa.States())))
	sb.WriteString(fmt.Sprintf("Alphabet (Σ): %s\n", formatSymbols(dfa.Alphabet())))
	sb.WriteString(fmt.Sprintf("Initial state (q0): %d\n", dfa.start))
	sb.WriteString(fmt.Sprintf("Final states (F): %s\n", formatStates(dfa.FinalStates())))
	sb.WriteRune('\n')

	return rosed.Edit(sb.String()).
		InsertTableOpts(rosed.End, dfa.Table(), width, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// Table returns the transition table of the DFA as rows of cells. The first
// row is the header with the symbols of Σ in ascending order.
func (dfa DFA) Table() [][]string {
	symbols := dfa.Alphabet()

	header := []string{"State"}
	for _, a := range symbols {
		header = append(header, symbolLabel(a))
	}
	data := [][]string{header}

	for _, q := range dfa.States() {
		label := strconv.Itoa(q)
		if q == dfa.start {
			label = "->" + label
		}
		if dfa.final.Has(q) {
			label += "*"
		}

		row := []string{label}
		for _, a := range symbols {
			cell := "-"
			if next, ok := dfa.Next(q, a); ok {
				cell = strconv.Itoa(next)
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	return data
}

func formatStates(states []int) string {
	return util.JoinFormatted(states, "{ ", ", ", " }", strconv.Itoa)
}

func formatSymbols(symbols []rune) string {
	return util.JoinFormatted(symbols, "{ ", ", ", " }", symbolLabel)
}

// symbolLabel gives the way a symbol is displayed in a table. Symbols that
// would not be visible are quoted.
func symbolLabel(a rune) string {
	if unicode.IsPrint(a) && !unicode.IsSpace(a) {
		return string(a)
	}
	return strconv.QuoteRune(a)
}
