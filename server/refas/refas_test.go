package refas

import (
	"context"
	"strings"
	"testing"

	"github.com/dekarrin/refa/internal/automaton"
	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/dao/inmem"
	"github.com/dekarrin/refa/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() Service {
	return Service{DB: inmem.NewDatastore(), HashCost: bcrypt.MinCost}
}

func Test_Service_Login(t *testing.T) {
	testCases := []struct {
		name      string
		username  string
		password  string
		expectErr error
	}{
		{name: "correct credentials", username: "ada", password: "secret"},
		{name: "wrong password", username: "ada", password: "nope", expectErr: serr.ErrBadCredentials},
		{name: "unknown user", username: "bob", password: "secret", expectErr: serr.ErrBadCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			ctx := context.Background()
			svc := newTestService()
			created, err := svc.CreateUser(ctx, "ada", "secret", "ada@example.com", dao.Normal)
			if !assert.NoError(err) {
				return
			}

			// execute
			user, err := svc.Login(ctx, tc.username, tc.password)

			// assert
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			assert.NoError(err)
			assert.Equal(created.ID, user.ID)
			assert.False(user.LastLoginTime.IsZero())
		})
	}
}

func Test_Service_Logout(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	svc := newTestService()
	user, err := svc.CreateUser(ctx, "ada", "secret", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	// execute
	loggedOut, err := svc.Logout(ctx, user.ID)

	// assert
	assert.NoError(err)
	assert.Greater(loggedOut.LastLogoutTime.Unix(), user.LastLogoutTime.Unix())

	_, err = svc.Logout(ctx, uuid.New())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_CreateUser(t *testing.T) {
	testCases := []struct {
		name      string
		username  string
		password  string
		email     string
		expectErr error
	}{
		{name: "valid", username: "bob", password: "pw", email: "bob@example.com"},
		{name: "no email", username: "bob", password: "pw"},
		{name: "blank username", username: "", password: "pw", expectErr: serr.ErrBadArgument},
		{name: "blank password", username: "bob", password: "", expectErr: serr.ErrBadArgument},
		{name: "bad email", username: "bob", password: "pw", email: "not an email", expectErr: serr.ErrBadArgument},
		{name: "taken username", username: "ada", password: "pw", expectErr: serr.ErrAlreadyExists},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			ctx := context.Background()
			svc := newTestService()
			_, err := svc.CreateUser(ctx, "ada", "secret", "", dao.Admin)
			if !assert.NoError(err) {
				return
			}

			// execute
			user, err := svc.CreateUser(ctx, tc.username, tc.password, tc.email, dao.Normal)

			// assert
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.username, user.Username)
			assert.Equal(dao.Normal, user.Role)
			assert.NotEqual(tc.password, user.Password)
		})
	}
}

func Test_Service_UpdatePassword(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	svc := newTestService()
	user, err := svc.CreateUser(ctx, "ada", "secret", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	// execute
	_, err = svc.UpdatePassword(ctx, user.ID.String(), "better")

	// assert
	assert.NoError(err)
	_, err = svc.Login(ctx, "ada", "secret")
	assert.ErrorIs(err, serr.ErrBadCredentials)
	_, err = svc.Login(ctx, "ada", "better")
	assert.NoError(err)

	_, err = svc.UpdatePassword(ctx, user.ID.String(), "")
	assert.ErrorIs(err, serr.ErrBadArgument)
	_, err = svc.UpdatePassword(ctx, "12", "x")
	assert.ErrorIs(err, serr.ErrBadArgument)
}

func Test_Service_DeleteUser_removesAutomata(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	svc := newTestService()
	user, err := svc.CreateUser(ctx, "ada", "secret", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}
	a, err := svc.CompileAutomaton(ctx, user.ID, "a*", false)
	if !assert.NoError(err) {
		return
	}

	// execute
	_, err = svc.DeleteUser(ctx, user.ID.String())

	// assert
	assert.NoError(err)
	_, err = svc.GetAutomaton(ctx, a.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.GetUser(ctx, user.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_CompileAutomaton(t *testing.T) {
	testCases := []struct {
		name              string
		pattern           string
		strict            bool
		expectPostfix     string
		expectDiagnostics []string
		expectStates      int
		expectErr         error
	}{
		{
			name:          "union of concat and star",
			pattern:       "ab|c*",
			expectPostfix: "ab.c*|",
			expectStates:  4,
		},
		{
			name:              "tolerant drops stray paren",
			pattern:           "a)",
			expectPostfix:     "a",
			expectDiagnostics: []string{"unmatched ')' at position 1"},
			expectStates:      2,
		},
		{
			name:      "strict rejects stray paren",
			pattern:   "a)",
			strict:    true,
			expectErr: serr.ErrBadArgument,
		},
		{
			name:      "missing operand",
			pattern:   "|",
			expectErr: serr.ErrBadArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			ctx := context.Background()
			svc := newTestService()
			owner := uuid.New()

			// execute
			a, err := svc.CompileAutomaton(ctx, owner, tc.pattern, tc.strict)

			// assert
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(owner, a.OwnerID)
			assert.Equal(tc.pattern, a.Pattern)
			assert.Equal(tc.expectPostfix, a.Postfix)
			assert.Equal(tc.expectDiagnostics, a.Diagnostics)
			assert.Len(a.DFA.States(), tc.expectStates)

			stored, err := svc.GetAutomaton(ctx, a.ID.String())
			assert.NoError(err)
			assert.True(stored.DFA.Equal(a.DFA))
		})
	}
}

func Test_Service_CompileAutomaton_tooManyStates(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	svc := newTestService()
	owner := uuid.New()
	pattern := "(a|b)*a" + strings.Repeat("(a|b)", 12)

	// execute
	_, err := svc.CompileAutomaton(ctx, owner, pattern, false)

	// assert
	assert.ErrorIs(err, serr.ErrBadArgument)
	assert.ErrorIs(err, automaton.ErrTooManyStates)
	stored, err := svc.GetAutomataOf(ctx, owner)
	assert.NoError(err)
	assert.Empty(stored)
}

func Test_Service_MatchWords(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	svc := newTestService()
	a, err := svc.CompileAutomaton(ctx, uuid.New(), "ab|c*", false)
	if !assert.NoError(err) {
		return
	}

	// execute
	matches, err := svc.MatchWords(ctx, a.ID.String(), []string{"ab", "", "ccc", "abc", "x"})

	// assert
	assert.NoError(err)
	assert.Equal([]Match{
		{Word: "ab", Accepted: true},
		{Word: "", Accepted: true},
		{Word: "ccc", Accepted: true},
		{Word: "abc", Accepted: false},
		{Word: "x", Accepted: false},
	}, matches)

	_, err = svc.MatchWords(ctx, uuid.NewString(), []string{"a"})
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_GetAutomataOf_andDelete(t *testing.T) {
	assert := assert.New(t)

	// setup
	ctx := context.Background()
	svc := newTestService()
	owner := uuid.New()
	first, err := svc.CompileAutomaton(ctx, owner, "a", false)
	assert.NoError(err)
	_, err = svc.CompileAutomaton(ctx, uuid.New(), "b", false)
	assert.NoError(err)

	// execute
	mine, err := svc.GetAutomataOf(ctx, owner)

	// assert
	assert.NoError(err)
	if assert.Len(mine, 1) {
		assert.Equal(first.ID, mine[0].ID)
	}

	deleted, err := svc.DeleteAutomaton(ctx, first.ID.String())
	assert.NoError(err)
	assert.Equal("a", deleted.Pattern)

	_, err = svc.DeleteAutomaton(ctx, first.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)

	problem, err := svc.ValidateAutomaton(ctx, first.ID.String())
	assert.Nil(problem)
	assert.ErrorIs(err, serr.ErrNotFound)
}
