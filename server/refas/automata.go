package refas

import (
	"context"
	"errors"

	"github.com/dekarrin/refa/internal/automaton"
	"github.com/dekarrin/refa/internal/regex"
	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/serr"
	"github.com/google/uuid"
)

const (
	// MaxPatternLength is the longest pattern, in runes, that the service
	// will compile.
	MaxPatternLength = 256

	// MaxDFAStates is the most states a compiled automaton may have. Short
	// patterns can still need exponentially many, so subset construction is
	// stopped once it passes this.
	MaxDFAStates = 4096
)

// Match is the outcome of running one word through an automaton.
type Match struct {
	Word     string
	Accepted bool
}

// CompileAutomaton compiles pattern and stores the result as a new automaton
// owned by owner.
//
// The returned error matches serr.ErrBadArgument if the pattern cannot be
// compiled (including unbalanced parentheses in strict mode, or a DFA of more
// than MaxDFAStates states), and serr.ErrDB
// for DB problems.
func (svc Service) CompileAutomaton(ctx context.Context, owner uuid.UUID, pattern string, strict bool) (dao.Automaton, error) {
	if len([]rune(pattern)) > MaxPatternLength {
		return dao.Automaton{}, serr.New("pattern is too long", serr.ErrBadArgument)
	}

	compiled, err := regex.Compile(pattern, regex.Options{Strict: strict, MaxStates: MaxDFAStates})
	if err != nil {
		if errors.Is(err, automaton.ErrTooManyStates) {
			return dao.Automaton{}, serr.New("pattern needs too many states", err, serr.ErrBadArgument)
		}
		return dao.Automaton{}, serr.New("pattern could not be compiled", err, serr.ErrBadArgument)
	}

	a := dao.Automaton{
		OwnerID: owner,
		Pattern: compiled.Pattern,
		Strict:  strict,
		Postfix: compiled.Postfix.String(),
		DFA:     compiled.DFA,
	}
	for _, d := range compiled.Diagnostics {
		a.Diagnostics = append(a.Diagnostics, d.Error())
	}

	created, err := svc.DB.Automata().Create(ctx, a)
	if err != nil {
		return dao.Automaton{}, serr.WrapDB("could not store automaton", err)
	}

	return created, nil
}

// GetAutomaton returns the automaton with the given ID.
//
// The returned error matches serr.ErrNotFound if there is no such automaton,
// serr.ErrBadArgument if id is not a UUID, and serr.ErrDB for DB problems.
func (svc Service) GetAutomaton(ctx context.Context, id string) (dao.Automaton, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Automaton{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	a, err := svc.DB.Automata().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Automaton{}, serr.ErrNotFound
		}
		return dao.Automaton{}, serr.WrapDB("could not get automaton", err)
	}

	return a, nil
}

// GetAutomataOf returns every automaton owned by the given user, oldest
// first.
func (svc Service) GetAutomataOf(ctx context.Context, owner uuid.UUID) ([]dao.Automaton, error) {
	all, err := svc.DB.Automata().GetAllByOwner(ctx, owner)
	if err != nil {
		return nil, serr.WrapDB("could not get automata", err)
	}

	return all, nil
}

// DeleteAutomaton deletes the automaton with the given ID and returns it.
//
// The returned error matches serr.ErrNotFound if there is no such automaton,
// serr.ErrBadArgument if id is not a UUID, and serr.ErrDB for DB problems.
func (svc Service) DeleteAutomaton(ctx context.Context, id string) (dao.Automaton, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Automaton{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	a, err := svc.DB.Automata().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Automaton{}, serr.ErrNotFound
		}
		return dao.Automaton{}, serr.WrapDB("could not delete automaton", err)
	}

	return a, nil
}

// MatchWords runs every word through the automaton with the given ID. The
// results are in the same order as words.
func (svc Service) MatchWords(ctx context.Context, id string, words []string) ([]Match, error) {
	a, err := svc.GetAutomaton(ctx, id)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, len(words))
	for i, w := range words {
		matches[i] = Match{Word: w, Accepted: a.DFA.Accepts(w)}
	}

	return matches, nil
}

// ValidateAutomaton checks the structure of the automaton with the given ID.
// The first return value is the structural problem found, or nil if the
// automaton is well-formed; the second is any error in retrieving it.
func (svc Service) ValidateAutomaton(ctx context.Context, id string) (problem error, err error) {
	a, err := svc.GetAutomaton(ctx, id)
	if err != nil {
		return nil, err
	}

	return a.DFA.Validate(), nil
}
