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

func NewUsersRepository() *InMemoryUsersRepository {
	return &InMemoryUsersRepository{
		users:  make(map[uuid.UUID]dao.User),
		byName: make(map[string]uuid.UUID),
	}
}

// InMemoryUsersRepository keeps users in a map with a second index on
// username, which is unique.
type InMemoryUsersRepository struct {
	mtx    sync.RWMutex
	users  map[uuid.UUID]dao.User
	byName map[string]uuid.UUID
}

func (imur *InMemoryUsersRepository) Close() error {
	return nil
}

func (imur *InMemoryUsersRepository) Create(ctx context.Context, user dao.User) (dao.User, error) {
	imur.mtx.Lock()
	defer imur.mtx.Unlock()

	if _, taken := imur.byName[user.Username]; taken {
		return dao.User{}, dao.ErrConstraintViolation
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	// a fresh user has no tokens, so its logout time starts now
	now := time.Now()
	user.ID = id
	user.Created, user.Modified, user.LastLogoutTime = now, now, now

	imur.put(user)
	return user, nil
}

func (imur *InMemoryUsersRepository) GetAll(ctx context.Context) ([]dao.User, error) {
	imur.mtx.RLock()
	defer imur.mtx.RUnlock()

	all := make([]dao.User, 0, len(imur.users))
	for _, u := range imur.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID.String() < all[j].ID.String()
	})

	return all, nil
}

// Update replaces the user with the given ID. The user may be given a new ID
// or username as long as neither belongs to another user.
func (imur *InMemoryUsersRepository) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	imur.mtx.Lock()
	defer imur.mtx.Unlock()

	old, ok := imur.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	if owner, taken := imur.byName[user.Username]; taken && owner != id {
		return dao.User{}, dao.ErrConstraintViolation
	}
	if _, taken := imur.users[user.ID]; taken && user.ID != id {
		return dao.User{}, dao.ErrConstraintViolation
	}

	user.Created = old.Created
	user.Modified = time.Now()

	imur.remove(old)
	imur.put(user)
	return user, nil
}

func (imur *InMemoryUsersRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	imur.mtx.RLock()
	defer imur.mtx.RUnlock()

	user, ok := imur.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return user, nil
}

func (imur *InMemoryUsersRepository) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	imur.mtx.RLock()
	defer imur.mtx.RUnlock()

	id, ok := imur.byName[username]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return imur.users[id], nil
}

func (imur *InMemoryUsersRepository) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	imur.mtx.Lock()
	defer imur.mtx.Unlock()

	user, ok := imur.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	imur.remove(user)
	return user, nil
}

// put and remove keep both indexes in step; callers hold the write lock.
func (imur *InMemoryUsersRepository) put(u dao.User) {
	imur.users[u.ID] = u
	imur.byName[u.Username] = u.ID
}

func (imur *InMemoryUsersRepository) remove(u dao.User) {
	delete(imur.users, u.ID)
	delete(imur.byName, u.Username)
}
