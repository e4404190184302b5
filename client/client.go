// Package client is the typed Go client for the LMS admin backend. It
// wraps every API call in an authenticated request pipeline that manages
// the access/refresh token lifecycle transparently: tokens are attached at
// dispatch time, an expired access token is refreshed exactly once no
// matter how many requests fail concurrently, and an unrecoverable session
// forces a logout through an injected navigation port.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lmsdesk/go-admin-client/credentials"
)

const defaultTimeout = 30 * time.Second

// Client talks to the admin backend. Service fields group the API surface;
// all authenticated calls flow through one shared Pipeline.
type Client struct {
	baseURL   string
	store     *credentials.Store
	pipeline  *Pipeline
	transport Doer // bare transport for unauthenticated calls
	log       zerolog.Logger

	Auth      *AuthService
	Sessions  *SessionService
	Users     *UserService
	Settings  *SettingsService
	TwoFactor *TwoFactorService
	AuditLogs *AuditLogService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the transport used for all calls. Defaults to an
// *http.Client with a 30 second timeout.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.transport = doer
	}
}

// WithNavigator injects the forced-logout port. Defaults to a no-op.
func WithNavigator(n Navigator) Option {
	return func(c *Client) {
		c.pipeline.navigator = n
	}
}

// WithLogger injects the structured logger shared by the client and its
// pipeline.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
		c.pipeline.log = log
	}
}

// New creates a client for the backend at baseURL, reading and writing
// session state through store.
func New(baseURL string, store *credentials.Store, options ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("[client.New] store is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, errors.Errorf("[client.New] invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:   baseURL,
		store:     store,
		transport: &http.Client{Timeout: defaultTimeout},
		log:       zerolog.Nop(),
	}
	pipeline, err := NewPipeline(store, doerFunc(func(r *http.Request) (*http.Response, error) {
		return c.transport.Do(r)
	}), NopNavigator{}, baseURL+"/auth/refresh", c.log)
	if err != nil {
		return nil, errors.Wrap(err, "[client.New]")
	}
	c.pipeline = pipeline

	for _, opt := range options {
		opt(c)
	}

	c.Auth = &AuthService{client: c}
	c.Sessions = &SessionService{client: c}
	c.Users = &UserService{client: c}
	c.Settings = &SettingsService{client: c}
	c.TwoFactor = &TwoFactorService{client: c}
	c.AuditLogs = &AuditLogService{client: c}
	return c, nil
}

// Store returns the credential store backing this client.
func (c *Client) Store() *credentials.Store {
	return c.store
}

// Pipeline returns the authenticated request pipeline, for callers that
// need to issue requests outside the typed service surface.
func (c *Client) Pipeline() *Pipeline {
	return c.pipeline
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// get issues an authenticated GET and decodes the envelope's data field
// into out (which may be nil).
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.request(ctx, http.MethodGet, path, nil, out, requestOpts{authenticated: true, unwrap: true})
}

// getPage issues an authenticated GET and decodes the entire response body
// into out, for paginated endpoints whose pagination block sits beside the
// envelope's data field.
func (c *Client) getPage(ctx context.Context, path string, out any) error {
	return c.request(ctx, http.MethodGet, path, nil, out, requestOpts{authenticated: true})
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.request(ctx, http.MethodPost, path, body, out, requestOpts{authenticated: true, unwrap: true})
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.request(ctx, http.MethodPatch, path, body, out, requestOpts{authenticated: true, unwrap: true})
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.request(ctx, http.MethodDelete, path, nil, nil, requestOpts{authenticated: true})
}

// postBare issues an unauthenticated POST (login, logout) that bypasses
// the pipeline: no bearer header, no refresh-on-401. The whole body is
// decoded into out so callers can see envelope-level flags such as
// requiresTwoFactor.
func (c *Client) postBare(ctx context.Context, path string, body, out any) error {
	return c.request(ctx, http.MethodPost, path, body, out, requestOpts{})
}

type requestOpts struct {
	authenticated bool
	unwrap        bool // decode the envelope's data field rather than the whole body
}

func (c *Client) request(ctx context.Context, method, path string, body, out any, opts requestOpts) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "[Client.request] marshal %s %s body", method, path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrapf(err, "[Client.request] build %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	var resp *http.Response
	if opts.authenticated {
		resp, err = c.pipeline.Do(req)
	} else {
		resp, err = c.transport.Do(req)
	}
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrapf(err, "[Client.request] read %s %s response", method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status: resp.StatusCode,
			Method: method,
			URL:    req.URL.String(),
			Body:   string(raw),
		}
		var env envelope
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Message = env.Message
		}
		c.log.Error().
			Str("method", method).
			Str("url", req.URL.String()).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Str("body", apiErr.Body).
			Msg("api error")
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if opts.unwrap {
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return errors.Wrapf(err, "[Client.request] decode %s %s data", method, path)
			}
			return nil
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "[Client.request] decode %s %s response", method, path)
	}
	return nil
}

// listQuery renders non-zero filter fields as a query string suffix.
func listQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
