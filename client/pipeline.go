package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lmsdesk/go-admin-client/credentials"
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests and
// callers that want tracing or custom transports inject their own.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Pipeline decorates a transport with the authenticated-request protocol:
// it attaches the current access token at dispatch time, intercepts 401
// responses, coordinates a single token refresh under concurrent load,
// replays the failed request once with the fresh token, and forces logout
// when the refresh itself fails.
type Pipeline struct {
	store      *credentials.Store
	transport  Doer
	navigator  Navigator
	refreshURL string
	log        zerolog.Logger

	lock       sync.Mutex
	refreshing bool
	waiters    []chan refreshOutcome
}

// refreshOutcome is broadcast to every request suspended on an in-flight
// refresh. All waiters observe the same outcome as the triggering call.
type refreshOutcome struct {
	accessToken string
	err         error
}

// NewPipeline wires the request pipeline to its collaborators. refreshURL
// is the absolute URL of the backend's refresh endpoint.
func NewPipeline(store *credentials.Store, transport Doer, navigator Navigator, refreshURL string, log zerolog.Logger) (*Pipeline, error) {
	if store == nil {
		return nil, errors.New("[NewPipeline] store is required")
	}
	if transport == nil {
		return nil, errors.New("[NewPipeline] transport is required")
	}
	if navigator == nil {
		navigator = NopNavigator{}
	}
	if refreshURL == "" {
		return nil, errors.New("[NewPipeline] refreshURL is required")
	}
	return &Pipeline{
		store:      store,
		transport:  transport,
		navigator:  navigator,
		refreshURL: refreshURL,
		log:        log,
	}, nil
}

// Do sends an authenticated request. On a 401 it refreshes the access
// token (joining an in-flight refresh rather than starting a second one)
// and retries exactly once with the fresh header; a second 401 propagates
// unchanged. Requests with a body must carry GetBody so the retry can
// replay it; http.NewRequest sets it for the common body types.
func (p *Pipeline) Do(req *http.Request) (*http.Response, error) {
	resp, err := p.send(req)
	if err != nil {
		p.log.Error().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Msg("request transport failure")
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Expired access token. Discard this response and recover.
	drainBody(resp)

	if _, err := p.freshAccessToken(req.Context()); err != nil {
		return nil, err
	}

	retried, err := p.send(req)
	if err != nil {
		p.log.Error().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Msg("retry transport failure")
		return nil, err
	}
	// A second 401 is not retried again; the caller sees it as an
	// authentication failure.
	return retried, nil
}

// send dispatches one attempt. The access token is read from the store
// here, not earlier, so an attempt constructed before a refresh completed
// still carries the post-refresh token.
func (p *Pipeline) send(req *http.Request) (*http.Response, error) {
	attempt := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "[Pipeline.send] replay request body")
		}
		attempt.Body = body
	}
	if token := p.store.AccessToken(); token != "" {
		attempt.Header.Set("Authorization", "Bearer "+token)
	}
	return p.transport.Do(attempt)
}

// freshAccessToken returns a post-refresh access token. If a refresh is
// already in flight the caller suspends on a waiter channel and receives
// that refresh's outcome; otherwise it becomes the refresher. Exactly one
// refresh call is in flight at any time.
func (p *Pipeline) freshAccessToken(ctx context.Context) (string, error) {
	p.lock.Lock()
	if p.refreshing {
		waiter := make(chan refreshOutcome, 1)
		p.waiters = append(p.waiters, waiter)
		p.lock.Unlock()

		select {
		case outcome := <-waiter:
			return outcome.accessToken, outcome.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	// Flag is set before the refresh call is issued so a concurrent 401
	// can never start a second refresh.
	p.refreshing = true
	p.lock.Unlock()

	token, err := p.refresh(ctx)
	p.settle(token, err)
	if err != nil {
		p.forceLogout(err)
	}
	return token, err
}

// refresh exchanges the stored refresh token for a new access token and
// writes it back to the store. A missing refresh token short-circuits
// without a network call.
func (p *Pipeline) refresh(ctx context.Context) (string, error) {
	refreshToken := p.store.RefreshToken()
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", errors.Wrap(err, "[Pipeline.refresh] marshal payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "[Pipeline.refresh] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.transport.Do(req)
	if err != nil {
		return "", errors.Wrapf(ErrRefreshFailed, "transport: %v", err)
	}
	defer drainBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		p.log.Warn().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("refresh endpoint rejected refresh token")
		return "", errors.Wrapf(ErrRefreshFailed, "status %d", resp.StatusCode)
	}

	var out struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrapf(ErrRefreshFailed, "decode response: %v", err)
	}
	if out.Data.AccessToken == "" {
		return "", errors.Wrap(ErrRefreshFailed, "empty access token in response")
	}

	if err := p.store.UpdateAccessToken(out.Data.AccessToken); err != nil {
		return "", errors.Wrap(err, "[Pipeline.refresh] store access token")
	}
	return out.Data.AccessToken, nil
}

// settle broadcasts the refresh outcome to every suspended request and
// clears the in-flight flag. The waiter list is swapped out and the flag
// cleared under the lock before any send, so a 401 arriving mid-broadcast
// starts a fresh refresh rather than joining a settled one. The channels
// are buffered, so the sends never block.
func (p *Pipeline) settle(accessToken string, err error) {
	p.lock.Lock()
	waiters := p.waiters
	p.waiters = nil
	p.refreshing = false
	p.lock.Unlock()

	outcome := refreshOutcome{accessToken: accessToken, err: err}
	for _, waiter := range waiters {
		waiter <- outcome
	}
}

// forceLogout clears the session locally and redirects to the login entry
// point. It never waits on other in-flight requests.
func (p *Pipeline) forceLogout(cause error) {
	p.log.Warn().Err(cause).Msg("forcing logout: session is unrecoverable")
	if err := p.store.Logout(); err != nil {
		p.log.Error().Err(err).Msg("clearing local session failed")
	}
	p.navigator.RedirectToLogin()
}

func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
