// Package inmem provides repositories that keep all data in memory. Nothing
// is persisted past the life of the process.
package inmem

import (
	"fmt"

	"github.com/dekarrin/refa/server/dao"
)

type store struct {
	users    *InMemoryUsersRepository
	automata *InMemoryAutomataRepository
}

func NewDatastore() dao.Store {
	return &store{
		users:    NewUsersRepository(),
		automata: NewAutomataRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Automata() dao.AutomatonRepository {
	return s.automata
}

func (s *store) Close() error {
	var err error

	if nextErr := s.users.Close(); nextErr != nil {
		err = nextErr
	}
	if nextErr := s.automata.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
