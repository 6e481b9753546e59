// Package client is a Go consumer of the API, built on the same contract
// table the server mounts its routes from. Reads go through an invalidating
// cache; mutations validate their inputs locally before hitting the wire,
// the same rules the server enforces.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/maxesports/esports-hub/contract"
	"github.com/maxesports/esports-hub/models"
)

// APIError is a non-2xx answer: the server's message when the body carried
// one, else the operation's fallback text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

var fallbackMessages = map[string]string{
	contract.OpTournamentsList:   "failed to load tournaments",
	contract.OpTournamentsGet:    "failed to load tournament",
	contract.OpTournamentsCreate: "failed to create tournament",
	contract.OpTournamentsUpdate: "failed to update tournament",
	contract.OpTournamentsDelete: "failed to delete tournament",
	contract.OpTeamList:          "failed to load team members",
	contract.OpTeamCreate:        "failed to add team member",
	contract.OpTeamUpdate:        "failed to update team member",
	contract.OpTeamDelete:        "failed to remove team member",
}

type Client struct {
	baseURL      string
	httpClient   *http.Client
	sessionToken string
	cache        *readCache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionToken attaches a session token to every request, needed for
// the mutating operations.
func WithSessionToken(token string) Option {
	return func(c *Client) { c.sessionToken = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		cache:      newReadCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	var out []models.Tournament
	err := c.do(ctx, contract.OpTournamentsList, nil, nil, &out)
	return out, err
}

func (c *Client) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var out models.Tournament
	if err := c.do(ctx, contract.OpTournamentsGet, params(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTournament(ctx context.Context, input contract.CreateTournamentInput) (*models.Tournament, error) {
	var out models.Tournament
	if err := c.do(ctx, contract.OpTournamentsCreate, nil, &input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTournament(ctx context.Context, id int, input contract.UpdateTournamentInput) (*models.Tournament, error) {
	var out models.Tournament
	if err := c.do(ctx, contract.OpTournamentsUpdate, params(id), &input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTournament(ctx context.Context, id int) error {
	return c.do(ctx, contract.OpTournamentsDelete, params(id), nil, nil)
}

func (c *Client) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	var out []models.TeamMember
	err := c.do(ctx, contract.OpTeamList, nil, nil, &out)
	return out, err
}

func (c *Client) CreateTeamMember(ctx context.Context, input contract.CreateTeamMemberInput) (*models.TeamMember, error) {
	var out models.TeamMember
	if err := c.do(ctx, contract.OpTeamCreate, nil, &input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTeamMember(ctx context.Context, id int, input contract.UpdateTeamMemberInput) (*models.TeamMember, error) {
	var out models.TeamMember
	if err := c.do(ctx, contract.OpTeamUpdate, params(id), &input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTeamMember(ctx context.Context, id int) error {
	return c.do(ctx, contract.OpTeamDelete, params(id), nil, nil)
}

func params(id int) map[string]any {
	return map[string]any{"id": id}
}

func (c *Client) do(ctx context.Context, opName string, urlParams map[string]any, body any, out any) error {
	op, ok := contract.API[opName]
	if !ok {
		return fmt.Errorf("unknown operation %q", opName)
	}

	url := c.baseURL + contract.BuildURL(op.Path, urlParams)
	isRead := op.Method == http.MethodGet
	cacheKey := opName + " " + url

	if isRead && out != nil {
		if cached, hit := c.cache.get(cacheKey); hit {
			return json.Unmarshal(cached, out)
		}
	}

	var reqBody io.Reader
	if body != nil {
		// Client-side validation is a UX nicety against the same schema the
		// server enforces; the server's check stays authoritative.
		if fieldErr := contract.Validate(body); fieldErr != nil {
			return fieldErr
		}
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(opName, respBody),
		}
	}

	if isRead {
		c.cache.set(cacheKey, respBody)
	} else {
		// Never trust the cache across a write: drop the entity's reads.
		c.cache.invalidatePrefix(entityPrefix(opName))
	}

	if out != nil && len(respBody) > 0 {
		return json.Unmarshal(respBody, out)
	}
	return nil
}

func entityPrefix(opName string) string {
	if i := strings.Index(opName, "."); i >= 0 {
		return opName[:i+1]
	}
	return opName
}

func errorMessage(opName string, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if msg, ok := fallbackMessages[opName]; ok {
		return msg
	}
	return "request failed"
}
