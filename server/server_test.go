package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dekarrin/refa/server/api"
	"github.com/dekarrin/refa/server/dao"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) RefaServer {
	rs, err := New(Config{
		TokenSecret:       []byte("0123456789abcdef0123456789abcdef"),
		UnauthDelayMillis: -1,
		HashCost:          bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("could not create server: %v", err)
	}
	t.Cleanup(func() { rs.Close() })

	ctx := context.Background()
	if _, err := rs.CreateUser(ctx, "admin", "adminpass", "", dao.Admin); err != nil {
		t.Fatalf("could not create admin: %v", err)
	}
	if _, err := rs.CreateUser(ctx, "ada", "adapass", "ada@example.com", dao.Normal); err != nil {
		t.Fatalf("could not create user: %v", err)
	}

	return rs
}

// do sends a request to rs and returns the recorded response. body is sent
// as JSON if not nil.
func do(rs RefaServer, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, api.PathPrefix+path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	rs.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, rs RefaServer, username, password string) api.LoginResponse {
	w := do(rs, http.MethodPost, "/login", "", api.LoginRequest{Username: username, Password: password})
	if w.Code != http.StatusCreated {
		t.Fatalf("login as %s: got HTTP-%d: %s", username, w.Code, w.Body.String())
	}

	var resp api.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("login response: %v", err)
	}
	return resp
}

func Test_Server_Login(t *testing.T) {
	testCases := []struct {
		name         string
		body         interface{}
		expectStatus int
	}{
		{name: "good credentials", body: api.LoginRequest{Username: "ada", Password: "adapass"}, expectStatus: http.StatusCreated},
		{name: "bad password", body: api.LoginRequest{Username: "ada", Password: "nope"}, expectStatus: http.StatusUnauthorized},
		{name: "unknown user", body: api.LoginRequest{Username: "zed", Password: "adapass"}, expectStatus: http.StatusUnauthorized},
		{name: "missing password", body: api.LoginRequest{Username: "ada"}, expectStatus: http.StatusBadRequest},
		{name: "no body", body: nil, expectStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			rs := newTestServer(t)

			w := do(rs, http.MethodPost, "/login", "", tc.body)

			assert.Equal(tc.expectStatus, w.Code, w.Body.String())
		})
	}
}

func Test_Server_Info(t *testing.T) {
	assert := assert.New(t)

	rs := newTestServer(t)

	w := do(rs, http.MethodGet, "/info", "", nil)

	assert.Equal(http.StatusOK, w.Code)
	var info api.InfoModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &info))
	assert.NotEmpty(info.Version.Server)
	assert.NotEmpty(info.Version.Refa)
}

func Test_Server_RequiresAuth(t *testing.T) {
	assert := assert.New(t)

	rs := newTestServer(t)

	assert.Equal(http.StatusUnauthorized, do(rs, http.MethodGet, "/automata", "", nil).Code)
	assert.Equal(http.StatusUnauthorized, do(rs, http.MethodGet, "/users", "garbage", nil).Code)
	assert.Equal(http.StatusNotFound, do(rs, http.MethodGet, "/nothing-here", "", nil).Code)
}

func Test_Server_AutomatonFlow(t *testing.T) {
	assert := assert.New(t)

	// setup
	rs := newTestServer(t)
	tok := login(t, rs, "ada", "adapass").Token

	// compile
	w := do(rs, http.MethodPost, "/automata", tok, api.AutomatonRequest{Pattern: "ab|c*"})
	if !assert.Equal(http.StatusCreated, w.Code, w.Body.String()) {
		return
	}
	var created api.AutomatonModel
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &created)) {
		return
	}
	assert.Equal("ab|c*", created.Pattern)
	assert.Equal("ab.c*|", created.Postfix)
	assert.Equal([]int{0, 1, 2, 3}, created.States)
	assert.Equal([]string{"a", "b", "c"}, created.Alphabet)
	assert.Equal(0, created.Start)
	assert.Equal([]string{}, created.Diagnostics)
	assert.Contains(created.Definition, "q0 = 0")

	// list
	w = do(rs, http.MethodGet, "/automata", tok, nil)
	assert.Equal(http.StatusOK, w.Code)
	var all []api.AutomatonModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &all))
	if assert.Len(all, 1) {
		assert.Equal(created.ID, all[0].ID)
	}

	// match
	w = do(rs, http.MethodPost, "/automata/"+created.ID+"/matches", tok, api.MatchRequest{Words: []string{"ab", "", "cc", "abc"}})
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	var matched api.MatchResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &matched))
	assert.Equal([]api.MatchModel{
		{Word: "ab", Accepted: true},
		{Word: "", Accepted: true},
		{Word: "cc", Accepted: true},
		{Word: "abc", Accepted: false},
	}, matched.Results)

	// validate
	w = do(rs, http.MethodGet, "/automata/"+created.ID+"/validation", tok, nil)
	assert.Equal(http.StatusOK, w.Code)
	var valid api.ValidationModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &valid))
	assert.True(valid.Valid)

	// delete
	w = do(rs, http.MethodDelete, "/automata/"+created.ID, tok, nil)
	assert.Equal(http.StatusNoContent, w.Code)
	w = do(rs, http.MethodGet, "/automata/"+created.ID, tok, nil)
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Server_CreateAutomaton_errors(t *testing.T) {
	testCases := []struct {
		name         string
		body         api.AutomatonRequest
		expectStatus int
		expectDiags  []string
	}{
		{name: "tolerant unbalanced", body: api.AutomatonRequest{Pattern: "(a"}, expectStatus: http.StatusCreated, expectDiags: []string{"unmatched '(' at position 0"}},
		{name: "strict unbalanced", body: api.AutomatonRequest{Pattern: "(a", Strict: true}, expectStatus: http.StatusUnprocessableEntity},
		{name: "missing operand", body: api.AutomatonRequest{Pattern: "a|"}, expectStatus: http.StatusUnprocessableEntity},
		{name: "too many states", body: api.AutomatonRequest{Pattern: "(a|b)*a" + strings.Repeat("(a|b)", 12)}, expectStatus: http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			rs := newTestServer(t)
			tok := login(t, rs, "ada", "adapass").Token

			w := do(rs, http.MethodPost, "/automata", tok, tc.body)

			assert.Equal(tc.expectStatus, w.Code, w.Body.String())
			if tc.expectDiags != nil {
				var created api.AutomatonModel
				assert.NoError(json.Unmarshal(w.Body.Bytes(), &created))
				assert.Equal(tc.expectDiags, created.Diagnostics)
			}
		})
	}
}

func Test_Server_AutomatonOwnership(t *testing.T) {
	assert := assert.New(t)

	// setup
	rs := newTestServer(t)
	adminTok := login(t, rs, "admin", "adminpass").Token
	adaTok := login(t, rs, "ada", "adapass").Token

	w := do(rs, http.MethodPost, "/automata", adminTok, api.AutomatonRequest{Pattern: "a"})
	if !assert.Equal(http.StatusCreated, w.Code) {
		return
	}
	var created api.AutomatonModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &created))

	// execute & assert
	assert.Equal(http.StatusForbidden, do(rs, http.MethodGet, "/automata/"+created.ID, adaTok, nil).Code)
	assert.Equal(http.StatusForbidden, do(rs, http.MethodDelete, "/automata/"+created.ID, adaTok, nil).Code)
	assert.Equal(http.StatusOK, do(rs, http.MethodGet, "/automata/"+created.ID, adminTok, nil).Code)
}

func Test_Server_Users(t *testing.T) {
	assert := assert.New(t)

	// setup
	rs := newTestServer(t)
	admin := login(t, rs, "admin", "adminpass")
	adminTok := admin.Token
	ada := login(t, rs, "ada", "adapass")

	// only admin lists users
	assert.Equal(http.StatusForbidden, do(rs, http.MethodGet, "/users", ada.Token, nil).Code)
	w := do(rs, http.MethodGet, "/users", adminTok, nil)
	assert.Equal(http.StatusOK, w.Code)
	var users []api.UserModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(users, 2)

	// admin creates a user
	w = do(rs, http.MethodPost, "/users", adminTok, api.UserModel{Username: "bob", Password: "bobpass"})
	assert.Equal(http.StatusCreated, w.Code, w.Body.String())
	w = do(rs, http.MethodPost, "/users", adminTok, api.UserModel{Username: "bob", Password: "bobpass"})
	assert.Equal(http.StatusConflict, w.Code)

	// users get themselves
	w = do(rs, http.MethodGet, "/users/"+ada.UserID, ada.Token, nil)
	assert.Equal(http.StatusOK, w.Code)
	var self api.UserModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &self))
	assert.Equal("ada", self.Username)
	assert.Equal("ada@example.com", self.Email)
	assert.Empty(self.Password)

	// password change ends old logins
	w = do(rs, http.MethodPut, "/users/"+ada.UserID+"/password", ada.Token, api.PasswordRequest{Password: ""})
	assert.Equal(http.StatusBadRequest, w.Code, w.Body.String())
	w = do(rs, http.MethodPut, "/users/"+admin.UserID+"/password", ada.Token, api.PasswordRequest{Password: "mine"})
	assert.Equal(http.StatusForbidden, w.Code)
	w = do(rs, http.MethodPut, "/users/"+ada.UserID+"/password", ada.Token, api.PasswordRequest{Password: "newpass"})
	assert.Equal(http.StatusNoContent, w.Code, w.Body.String())
	assert.Equal(http.StatusUnauthorized, do(rs, http.MethodGet, "/users/"+ada.UserID, ada.Token, nil).Code)
	ada = login(t, rs, "ada", "newpass")

	// self delete
	assert.Equal(http.StatusNoContent, do(rs, http.MethodDelete, "/users/"+ada.UserID, ada.Token, nil).Code)
	w = do(rs, http.MethodPost, "/login", "", api.LoginRequest{Username: "ada", Password: "newpass"})
	assert.Equal(http.StatusUnauthorized, w.Code)
}

func Test_Server_LogoutAndRefresh(t *testing.T) {
	assert := assert.New(t)

	// setup
	rs := newTestServer(t)
	ada := login(t, rs, "ada", "adapass")

	// refresh
	w := do(rs, http.MethodPost, "/tokens", ada.Token, nil)
	assert.Equal(http.StatusCreated, w.Code)

	// logout ends every token
	assert.Equal(http.StatusNoContent, do(rs, http.MethodDelete, "/login/"+ada.UserID, ada.Token, nil).Code)
	assert.Equal(http.StatusUnauthorized, do(rs, http.MethodGet, "/automata", ada.Token, nil).Code)
}
