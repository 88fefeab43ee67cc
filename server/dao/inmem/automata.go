package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dekarrin/refa/server/dao"
	"github.com/google/uuid"
)

func NewAutomataRepository() *InMemoryAutomataRepository {
	return &InMemoryAutomataRepository{
		automata: make(map[uuid.UUID]dao.Automaton),
	}
}

type InMemoryAutomataRepository struct {
	mtx      sync.RWMutex
	automata map[uuid.UUID]dao.Automaton
}

func (imar *InMemoryAutomataRepository) Close() error {
	return nil
}

func (imar *InMemoryAutomataRepository) Create(ctx context.Context, a dao.Automaton) (dao.Automaton, error) {
	imar.mtx.Lock()
	defer imar.mtx.Unlock()

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Automaton{}, fmt.Errorf("could not generate ID: %w", err)
	}

	a.ID = newUUID
	a.Created = time.Now()

	imar.automata[a.ID] = storedCopy(a)

	return storedCopy(a), nil
}

func (imar *InMemoryAutomataRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	imar.mtx.RLock()
	defer imar.mtx.RUnlock()

	a, ok := imar.automata[id]
	if !ok {
		return dao.Automaton{}, dao.ErrNotFound
	}

	return storedCopy(a), nil
}

func (imar *InMemoryAutomataRepository) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Automaton, error) {
	imar.mtx.RLock()
	defer imar.mtx.RUnlock()

	var all []dao.Automaton
	for _, a := range imar.automata {
		if a.OwnerID == owner {
			all = append(all, storedCopy(a))
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Created.Equal(all[j].Created) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].Created.Before(all[j].Created)
	})

	return all, nil
}

func (imar *InMemoryAutomataRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	imar.mtx.Lock()
	defer imar.mtx.Unlock()

	a, ok := imar.automata[id]
	if !ok {
		return dao.Automaton{}, dao.ErrNotFound
	}

	delete(imar.automata, id)

	return a, nil
}

func (imar *InMemoryAutomataRepository) DeleteAllByOwner(ctx context.Context, owner uuid.UUID) (int, error) {
	imar.mtx.Lock()
	defer imar.mtx.Unlock()

	var count int
	for id, a := range imar.automata {
		if a.OwnerID == owner {
			delete(imar.automata, id)
			count++
		}
	}

	return count, nil
}

// storedCopy gives a copy of a that shares no mutable state with it, so
// callers cannot alter what the repository holds.
func storedCopy(a dao.Automaton) dao.Automaton {
	a.DFA = a.DFA.Copy()
	if a.Diagnostics != nil {
		diags := make([]string, len(a.Diagnostics))
		copy(diags, a.Diagnostics)
		a.Diagnostics = diags
	}
	return a
}
