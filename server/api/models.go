package api

import (
	"time"

	"github.com/dekarrin/refa/server/dao"
)

// these are *not* the DAO models; they are what is received from and sent to
// the client.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Refa   string `json:"refa"`
	} `json:"version"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

type PasswordRequest struct {
	Password string `json:"password"`
}

type AutomatonRequest struct {
	Pattern string `json:"pattern"`
	Strict  bool   `json:"strict"`
}

type TransitionModel struct {
	From   int    `json:"from"`
	Symbol string `json:"symbol"`
	To     int    `json:"to"`
}

type AutomatonModel struct {
	URI         string            `json:"uri"`
	ID          string            `json:"id"`
	Owner       string            `json:"owner"`
	Pattern     string            `json:"pattern"`
	Strict      bool              `json:"strict"`
	Postfix     string            `json:"postfix"`
	Diagnostics []string          `json:"diagnostics"`
	States      []int             `json:"states"`
	Alphabet    []string          `json:"alphabet"`
	Start       int               `json:"start"`
	Finals      []int             `json:"finals"`
	Transitions []TransitionModel `json:"transitions"`
	Definition  string            `json:"definition"`
	Created     string            `json:"created"`
}

type MatchRequest struct {
	Words []string `json:"words"`
}

type MatchModel struct {
	Word     string `json:"word"`
	Accepted bool   `json:"accepted"`
}

type MatchResponse struct {
	Automaton string       `json:"automaton"`
	Results   []MatchModel `json:"results"`
}

type ValidationModel struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func userModel(u dao.User) UserModel {
	m := UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
		LastLoginTime:  u.LastLoginTime.Format(time.RFC3339),
	}
	if u.Email != nil {
		m.Email = u.Email.Address
	}
	return m
}

func automatonModel(a dao.Automaton) (AutomatonModel, error) {
	def, err := a.DFA.MarshalText()
	if err != nil {
		return AutomatonModel{}, err
	}

	m := AutomatonModel{
		URI:         PathPrefix + "/automata/" + a.ID.String(),
		ID:          a.ID.String(),
		Owner:       a.OwnerID.String(),
		Pattern:     a.Pattern,
		Strict:      a.Strict,
		Postfix:     a.Postfix,
		Diagnostics: a.Diagnostics,
		States:      a.DFA.States(),
		Start:       a.DFA.Start(),
		Finals:      a.DFA.FinalStates(),
		Definition:  string(def),
		Created:     a.Created.Format(time.RFC3339),
	}

	// always send lists, never null
	if m.Diagnostics == nil {
		m.Diagnostics = []string{}
	}
	if m.States == nil {
		m.States = []int{}
	}
	if m.Finals == nil {
		m.Finals = []int{}
	}

	m.Alphabet = []string{}
	for _, sym := range a.DFA.Alphabet() {
		m.Alphabet = append(m.Alphabet, string(sym))
	}

	m.Transitions = []TransitionModel{}
	for _, t := range a.DFA.Transitions() {
		m.Transitions = append(m.Transitions, TransitionModel{From: t.From, Symbol: string(t.Symbol), To: t.To})
	}

	return m, nil
}
