// Package dao provides data access objects for use in the refa server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/refa/internal/automaton"
	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Automata() AutomatonRepository
	Close() error
}

type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// AutomatonRepository stores compiled automata. Automata are immutable once
// created; to change one, delete it and compile a new one.
type AutomatonRepository interface {
	// Create stores a new Automaton. The ID and Created fields are assigned by
	// the repository.
	Create(ctx context.Context, a Automaton) (Automaton, error)
	GetByID(ctx context.Context, id uuid.UUID) (Automaton, error)

	// GetAllByOwner returns every automaton owned by the given user, oldest
	// first.
	GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]Automaton, error)
	Delete(ctx context.Context, id uuid.UUID) (Automaton, error)

	// DeleteAllByOwner removes every automaton owned by the given user and
	// returns how many there were.
	DeleteAllByOwner(ctx context.Context, owner uuid.UUID) (int, error)
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Automaton is a DFA compiled from a pattern on behalf of a user.
type Automaton struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Pattern string
	Strict  bool

	// Postfix is the display form of the pattern's postfix token sequence.
	Postfix string

	// Diagnostics are the messages for the unbalanced parentheses that were
	// dropped while compiling in tolerant mode.
	Diagnostics []string

	DFA     automaton.DFA
	Created time.Time
}
