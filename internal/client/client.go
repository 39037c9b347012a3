// Package client talks to the ritual HTTP API and keeps a local shadow of
// the active invocation for the command-line client and its watchdog.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/altar-backend/internal/api"
	"github.com/heartmarshall/altar-backend/internal/config"
	"github.com/heartmarshall/altar-backend/internal/domain"
)

// APIError is an error response the client could not map to a domain kind.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client is a thin typed wrapper over the HTTP API.
type Client struct {
	baseURL *url.URL
	token   string
	userID  uuid.UUID
	http    *http.Client
	stream  *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for request/response calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserID records whose state the projections describe.
func WithUserID(id uuid.UUID) Option {
	return func(c *Client) { c.userID = id }
}

// New creates a Client for cfg.
func New(cfg config.ClientAPIConfig, log *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		stream:  &http.Client{},
		log:     log.With("component", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Projections
// ---------------------------------------------------------------------------

// Active returns the active invocation, or nil if nothing is invoked.
func (c *Client) Active(ctx context.Context) (*domain.ActiveInvocation, error) {
	var resp api.ActiveResponse
	if err := c.do(ctx, http.MethodGet, "/api/rituals/active", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Active.ToDomain(c.userID), nil
}

// Overview returns the active invocation and the roster in wire form.
func (c *Client) Overview(ctx context.Context) (*api.OverviewResponse, error) {
	var resp api.OverviewResponse
	if err := c.do(ctx, http.MethodGet, "/api/rituals/overview", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns up to limit journal sessions of a subject, newest first.
// limit <= 0 leaves the server default.
func (c *Client) History(ctx context.Context, subjectID string, limit int) (*api.HistoryResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp api.HistoryResponse
	if err := c.do(ctx, http.MethodGet, subjectPath(subjectID, "history"), q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Invoke makes subjectID the active invocation and returns the new projection.
func (c *Client) Invoke(ctx context.Context, subjectID string) (*domain.ActiveInvocation, error) {
	return c.mutate(ctx, subjectPath(subjectID, "invoke"), nil)
}

// Banish ends the invocation of subjectID.
func (c *Client) Banish(ctx context.Context, subjectID string, reason domain.BanishReason) (*domain.ActiveInvocation, error) {
	var body any
	if reason != "" {
		body = map[string]string{"reason": reason.String()}
	}
	return c.mutate(ctx, subjectPath(subjectID, "banish"), body)
}

// Extend makes an offering. A cooldown comes back as *domain.CooldownError.
func (c *Client) Extend(ctx context.Context, subjectID string) (*domain.ActiveInvocation, error) {
	return c.mutate(ctx, subjectPath(subjectID, "extend"), nil)
}

// SetWishlisted puts a subject on or off the roster and returns the roster.
func (c *Client) SetWishlisted(ctx context.Context, subjectID string, wishlisted bool) ([]api.RosterItem, error) {
	method := http.MethodPut
	if !wishlisted {
		method = http.MethodDelete
	}

	var resp api.RosterResponse
	if err := c.do(ctx, method, subjectPath(subjectID, "wishlist"), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Roster, nil
}

func (c *Client) mutate(ctx context.Context, path string, body any) (*domain.ActiveInvocation, error) {
	var resp api.ActiveResponse
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Active.ToDomain(c.userID), nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func subjectPath(subjectID, action string) string {
	return "/api/rituals/" + url.PathEscape(domain.NormalizeSubjectID(subjectID)) + "/" + action
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError maps an error response back to the domain error kinds.
func decodeError(resp *http.Response) error {
	var body api.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if len(body.Fields) == 0 {
			return fmt.Errorf("%s: %w", body.Error, domain.ErrValidation)
		}
		fields := make([]domain.FieldError, 0, len(body.Fields))
		for _, f := range body.Fields {
			fields = append(fields, domain.FieldError{Field: f.Field, Message: f.Message})
		}
		return domain.NewValidationErrors(fields)
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		if body.RemainingHours != nil {
			return &domain.CooldownError{
				Remaining:      time.Duration(*body.RemainingHours) * time.Hour,
				RemainingHours: *body.RemainingHours,
			}
		}
		return fmt.Errorf("%s: %w", body.Error, domain.ErrConflict)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", body.Error, domain.ErrPersistence)
	default:
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}
}
