// Package contract is the single source of truth for the HTTP API: every
// operation's method, path template and input schema lives here and is
// consumed by both the server routes/handlers and the Go client, so the two
// sides can never validate against different rules.
package contract

import (
	"fmt"
	"net/http"
	"strings"
)

// Operation describes one API operation. NewInput returns a fresh pointer to
// the operation's input struct, or nil when the operation carries no body.
// Responses lists the status codes the operation may legitimately answer with.
type Operation struct {
	Method    string
	Path      string
	NewInput  func() any
	Responses []int
}

// Operation names, as used by the table, the client and the client's cache.
const (
	OpTournamentsList   = "tournaments.list"
	OpTournamentsGet    = "tournaments.get"
	OpTournamentsCreate = "tournaments.create"
	OpTournamentsUpdate = "tournaments.update"
	OpTournamentsDelete = "tournaments.delete"
	OpTeamList          = "team.list"
	OpTeamCreate        = "team.create"
	OpTeamUpdate        = "team.update"
	OpTeamDelete        = "team.delete"
)

var API = map[string]Operation{
	OpTournamentsList: {
		Method:    http.MethodGet,
		Path:      "/api/tournaments",
		Responses: []int{http.StatusOK},
	},
	OpTournamentsGet: {
		Method:    http.MethodGet,
		Path:      "/api/tournaments/:id",
		Responses: []int{http.StatusOK, http.StatusBadRequest, http.StatusNotFound},
	},
	OpTournamentsCreate: {
		Method:    http.MethodPost,
		Path:      "/api/tournaments",
		NewInput:  func() any { return &CreateTournamentInput{} },
		Responses: []int{http.StatusCreated, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden},
	},
	OpTournamentsUpdate: {
		Method:    http.MethodPut,
		Path:      "/api/tournaments/:id",
		NewInput:  func() any { return &UpdateTournamentInput{} },
		Responses: []int{http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	},
	OpTournamentsDelete: {
		Method:    http.MethodDelete,
		Path:      "/api/tournaments/:id",
		Responses: []int{http.StatusNoContent, http.StatusUnauthorized, http.StatusForbidden},
	},
	OpTeamList: {
		Method:    http.MethodGet,
		Path:      "/api/team",
		Responses: []int{http.StatusOK},
	},
	OpTeamCreate: {
		Method:    http.MethodPost,
		Path:      "/api/team",
		NewInput:  func() any { return &CreateTeamMemberInput{} },
		Responses: []int{http.StatusCreated, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden},
	},
	OpTeamUpdate: {
		Method:    http.MethodPut,
		Path:      "/api/team/:id",
		NewInput:  func() any { return &UpdateTeamMemberInput{} },
		Responses: []int{http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	},
	OpTeamDelete: {
		Method:    http.MethodDelete,
		Path:      "/api/team/:id",
		Responses: []int{http.StatusNoContent, http.StatusUnauthorized, http.StatusForbidden},
	},
}

// BuildURL substitutes :param placeholders in a path template with concrete
// values. Params with no matching placeholder are ignored, and placeholders
// with no matching param are left as literal text.
func BuildURL(path string, params map[string]any) string {
	url := path
	for key, value := range params {
		token := ":" + key
		if strings.Contains(url, token) {
			url = strings.Replace(url, token, fmt.Sprint(value), 1)
		}
	}
	return url
}

// ChiPattern converts the operation's :param template to chi's {param}
// syntax, so the router mounts exactly the paths the table declares.
func (o Operation) ChiPattern() string {
	segments := strings.Split(o.Path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}
