package automaton

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// MarshalBinary converts the DFA to bytes with the rezi encoding. It never
// returns a non-nil error.
func (dfa DFA) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(dfa.start)...)

	states := dfa.States()
	data = append(data, rezi.EncInt(len(states))...)
	for _, q := range states {
		data = append(data, rezi.EncInt(q)...)
	}

	// symbols are stored as a string; every rune in it is one symbol
	data = append(data, rezi.EncString(string(dfa.Alphabet()))...)

	finals := dfa.FinalStates()
	data = append(data, rezi.EncInt(len(finals))...)
	for _, q := range finals {
		data = append(data, rezi.EncInt(q)...)
	}

	trans := dfa.Transitions()
	data = append(data, rezi.EncInt(len(trans))...)
	for _, t := range trans {
		data = append(data, rezi.EncInt(t.From)...)
		data = append(data, rezi.EncString(string(t.Symbol))...)
		data = append(data, rezi.EncInt(t.To)...)
	}

	return data, nil
}

// UnmarshalBinary replaces the contents of the DFA with the one encoded in
// data by MarshalBinary.
func (dfa *DFA) UnmarshalBinary(data []byte) error {
	var n int
	var err error
	newDFA := NewDFA()

	readInt := func(what string) (int, error) {
		var v int
		v, n, err = rezi.DecInt(data)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", what, err)
		}
		data = data[n:]
		return v, nil
	}
	readString := func(what string) (string, error) {
		var s string
		s, n, err = rezi.DecString(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", what, err)
		}
		data = data[n:]
		return s, nil
	}

	start, err := readInt("initial state")
	if err != nil {
		return err
	}
	newDFA.SetStart(start)

	count, err := readInt("state count")
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		q, err := readInt("state")
		if err != nil {
			return err
		}
		newDFA.AddState(q)
	}

	symbols, err := readString("alphabet")
	if err != nil {
		return err
	}
	for _, a := range symbols {
		newDFA.AddSymbol(a)
	}

	count, err = readInt("final state count")
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		q, err := readInt("final state")
		if err != nil {
			return err
		}
		newDFA.AddFinal(q)
	}

	count, err = readInt("transition count")
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		from, err := readInt("transition source")
		if err != nil {
			return err
		}
		sym, err := readString("transition symbol")
		if err != nil {
			return err
		}
		symRunes := []rune(sym)
		if len(symRunes) != 1 {
			return fmt.Errorf("transition symbol: want exactly one rune, got %d", len(symRunes))
		}
		to, err := readInt("transition destination")
		if err != nil {
			return err
		}
		newDFA.AddTransition(from, symRunes[0], to)
	}

	*dfa = newDFA
	return nil
}
