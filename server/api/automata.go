package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/refa/server/dao"
	"github.com/dekarrin/refa/server/result"
	"github.com/dekarrin/refa/server/serr"
)

// MaxWordsPerMatch is the most words a single match request may check.
const MaxWordsPerMatch = 1000

// HTTPCreateAutomaton returns a HandlerFunc that compiles a pattern into a
// DFA and stores it as an automaton owned by the client.
//
// The request context must contain the logged-in user of the client.
func (api API) HTTPCreateAutomaton() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateAutomaton)
}

func (api API) epCreateAutomaton(req *http.Request) result.Result {
	user := requestUser(req)

	var createReq AutomatonRequest
	if err := parseJSON(req, &createReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	a, err := api.Backend.CompileAutomaton(req.Context(), user.ID, createReq.Pattern, createReq.Strict)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.UnprocessableEntity(err.Error(), "user '%s' compile %q: %s", user.Username, createReq.Pattern, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp, err := automatonModel(a)
	if err != nil {
		return result.InternalServerError("could not render automaton: " + err.Error())
	}

	return result.Created(resp, "user '%s' compiled %q into automaton %s (%d states)", user.Username, a.Pattern, a.ID, len(resp.States))
}

// HTTPGetAllAutomata returns a HandlerFunc that lists the automata owned by
// the client.
//
// The request context must contain the logged-in user of the client.
func (api API) HTTPGetAllAutomata() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetAllAutomata)
}

func (api API) epGetAllAutomata(req *http.Request) result.Result {
	user := requestUser(req)

	all, err := api.Backend.GetAutomataOf(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]AutomatonModel, len(all))
	for i := range all {
		resp[i], err = automatonModel(all[i])
		if err != nil {
			return result.InternalServerError("could not render automaton %s: %s", all[i].ID, err.Error())
		}
	}

	return result.OK(resp, "user '%s' got all %d of their automata", user.Username, len(resp))
}

// getOwnedAutomaton retrieves the automaton named in the URI of req, giving a
// non-nil Result to return in its place if it does not exist or the client
// may not access it. Admins may access any automaton.
func (api API) getOwnedAutomaton(req *http.Request, action string) (dao.Automaton, *result.Result) {
	id := requireIDParam(req)
	user := requestUser(req)

	a, err := api.Backend.GetAutomaton(req.Context(), id.String())
	if err != nil {
		var r result.Result
		if errors.Is(err, serr.ErrNotFound) {
			r = result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			r = result.BadRequest(err.Error(), err.Error())
		} else {
			r = result.InternalServerError(err.Error())
		}
		return dao.Automaton{}, &r
	}

	if a.OwnerID != user.ID && user.Role != dao.Admin {
		r := result.Forbidden("user '%s' (role %s) %s automaton %s of user %s: forbidden", user.Username, user.Role, action, id, a.OwnerID)
		return dao.Automaton{}, &r
	}

	return a, nil
}

// HTTPGetAutomaton returns a HandlerFunc that gets one automaton. Users may
// only get their own automata unless they are an admin.
//
// The request context must contain the ID of the automaton and the logged-in
// user of the client.
func (api API) HTTPGetAutomaton() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetAutomaton)
}

func (api API) epGetAutomaton(req *http.Request) result.Result {
	a, failed := api.getOwnedAutomaton(req, "get")
	if failed != nil {
		return *failed
	}

	resp, err := automatonModel(a)
	if err != nil {
		return result.InternalServerError("could not render automaton: " + err.Error())
	}

	return result.OK(resp, "user '%s' got automaton %s", requestUser(req).Username, a.ID)
}

// HTTPDeleteAutomaton returns a HandlerFunc that deletes one automaton. Users
// may only delete their own automata unless they are an admin.
//
// The request context must contain the ID of the automaton and the logged-in
// user of the client.
func (api API) HTTPDeleteAutomaton() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epDeleteAutomaton)
}

func (api API) epDeleteAutomaton(req *http.Request) result.Result {
	a, failed := api.getOwnedAutomaton(req, "delete")
	if failed != nil {
		return *failed
	}

	_, err := api.Backend.DeleteAutomaton(req.Context(), a.ID.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete automaton: " + err.Error())
	}

	return result.NoContent("user '%s' deleted automaton %s", requestUser(req).Username, a.ID)
}

// HTTPCreateMatches returns a HandlerFunc that runs a list of words through
// an automaton and reports which are accepted.
//
// The request context must contain the ID of the automaton and the logged-in
// user of the client.
func (api API) HTTPCreateMatches() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateMatches)
}

func (api API) epCreateMatches(req *http.Request) result.Result {
	a, failed := api.getOwnedAutomaton(req, "match against")
	if failed != nil {
		return *failed
	}

	var matchReq MatchRequest
	if err := parseJSON(req, &matchReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if matchReq.Words == nil {
		return result.BadRequest("words: property is missing from request", "missing words")
	}
	if len(matchReq.Words) > MaxWordsPerMatch {
		return result.BadRequest("words: no more than 1000 words may be checked at once", "%d words given", len(matchReq.Words))
	}

	matches, err := api.Backend.MatchWords(req.Context(), a.ID.String(), matchReq.Words)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	resp := MatchResponse{
		Automaton: a.ID.String(),
		Results:   make([]MatchModel, len(matches)),
	}
	var accepted int
	for i, m := range matches {
		resp.Results[i] = MatchModel{Word: m.Word, Accepted: m.Accepted}
		if m.Accepted {
			accepted++
		}
	}

	// matches are not stored, so there is nothing "created" to point to
	return result.OK(resp, "user '%s' matched %d words against automaton %s; %d accepted", requestUser(req).Username, len(matches), a.ID, accepted)
}

// HTTPGetValidation returns a HandlerFunc that checks whether an automaton is
// well-formed.
//
// The request context must contain the ID of the automaton and the logged-in
// user of the client.
func (api API) HTTPGetValidation() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetValidation)
}

func (api API) epGetValidation(req *http.Request) result.Result {
	a, failed := api.getOwnedAutomaton(req, "validate")
	if failed != nil {
		return *failed
	}

	problem, err := api.Backend.ValidateAutomaton(req.Context(), a.ID.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	resp := ValidationModel{Valid: true}
	if problem != nil {
		resp.Valid = false
		resp.Error = problem.Error()
	}

	return result.OK(resp, "user '%s' validated automaton %s: valid=%t", requestUser(req).Username, a.ID, resp.Valid)
}
