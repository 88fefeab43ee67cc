package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/refa/internal/regex"
	"github.com/dekarrin/refa/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_UsersRepository(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	repo := NewUsersRepository()

	// execute
	ada, err := repo.Create(ctx, dao.User{Username: "ada", Password: "hash"})

	// assert
	if !assert.NoError(err) {
		return
	}
	_, err = repo.Create(ctx, dao.User{Username: "ada", Password: "other"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	bob, err := repo.Create(ctx, dao.User{Username: "bob", Password: "hash"})
	assert.NoError(err)

	// renaming onto a taken username fails
	bob.Username = "ada"
	_, err = repo.Update(ctx, bob.ID, bob)
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	// renaming frees the old name
	ada.Username = "ada2"
	_, err = repo.Update(ctx, ada.ID, ada)
	assert.NoError(err)
	_, err = repo.GetByUsername(ctx, "ada")
	assert.ErrorIs(err, dao.ErrNotFound)
	byName, err := repo.GetByUsername(ctx, "ada2")
	assert.NoError(err)
	assert.Equal(ada.ID, byName.ID)

	all, err := repo.GetAll(ctx)
	assert.NoError(err)
	assert.Len(all, 2)

	_, err = repo.Delete(ctx, ada.ID)
	assert.NoError(err)
	_, err = repo.GetByID(ctx, ada.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_AutomataRepository(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	repo := NewAutomataRepository()
	owner := uuid.New()
	c := regex.MustCompile("a*", regex.Options{})

	// execute
	created, err := repo.Create(ctx, dao.Automaton{OwnerID: owner, Pattern: "a*", DFA: c.DFA})

	// assert
	if !assert.NoError(err) {
		return
	}
	assert.NotEqual(uuid.Nil, created.ID)

	// changing what was returned does not change what is stored
	created.DFA.AddFinal(99)
	stored, err := repo.GetByID(ctx, created.ID)
	assert.NoError(err)
	assert.True(stored.DFA.Equal(c.DFA))

	_, err = repo.Create(ctx, dao.Automaton{OwnerID: uuid.New(), Pattern: "b", DFA: c.DFA})
	assert.NoError(err)

	list, err := repo.GetAllByOwner(ctx, owner)
	assert.NoError(err)
	assert.Len(list, 1)

	count, err := repo.DeleteAllByOwner(ctx, owner)
	assert.NoError(err)
	assert.Equal(1, count)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}
