package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/restohub/resto-cli/internal/credentials"
	"go.uber.org/zap"
)

type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
)

// admission is what a request that got a 401 is told to do
type admission int

const (
	// admitLeader: no refresh in flight, the caller performs it
	admitLeader admission = iota
	// admitQueued: a refresh is in flight, the caller waits in the queue
	admitQueued
	// admitRenewed: the token was renewed after the caller sent its request
	admitRenewed
)

type pendingResult struct {
	resp *response
	err  error
}

// pendingRequest is a request that got a 401 while a refresh was in flight.
// It is settled exactly once by the coordinator.
type pendingRequest struct {
	ctx     context.Context
	execute func(ctx context.Context, accessToken string) (*response, error)
	done    chan pendingResult
}

func newPendingRequest(ctx context.Context, execute func(ctx context.Context, accessToken string) (*response, error)) *pendingRequest {
	return &pendingRequest{
		ctx:     ctx,
		execute: execute,
		done:    make(chan pendingResult, 1),
	}
}

// settle retries the request with the new token, or rejects it with err
func (p *pendingRequest) settle(accessToken string, err error) {
	if err != nil {
		p.done <- pendingResult{err: err}
		return
	}

	go func() {
		resp, err := p.execute(p.ctx, accessToken)
		p.done <- pendingResult{resp: resp, err: err}
	}()
}

// wait blocks until the request is settled or ctx is done
func (p *pendingRequest) wait(ctx context.Context) (*response, error) {
	select {
	case result := <-p.done:
		return result.resp, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refresher makes sure at most one token refresh is in flight per client.
// Requests failing with 401 during a refresh are queued and retried once it
// settles.
type refresher struct {
	mu    sync.Mutex
	state refreshState
	queue []*pendingRequest

	creds    *credentials.Credentials
	exchange func(ctx context.Context) (string, error)
	timeout  time.Duration
}

func newRefresher(creds *credentials.Credentials, exchange func(ctx context.Context) (string, error), timeout time.Duration) *refresher {
	return &refresher{
		creds:    creds,
		exchange: exchange,
		timeout:  timeout,
	}
}

// acquireOrEnqueue either makes the caller the refresh leader, queues p
// behind the refresh in flight, or hands back a token renewed since
// staleToken was sent
func (r *refresher) acquireOrEnqueue(ctx context.Context, p *pendingRequest, staleToken string) (admission, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == stateRefreshing {
		r.queue = append(r.queue, p)
		return admitQueued, ""
	}

	if current := r.creds.AccessToken(ctx); current != "" && current != staleToken {
		return admitRenewed, current
	}

	r.state = stateRefreshing
	return admitLeader, ""
}

// settleQueue returns to idle and settles every queued request
func (r *refresher) settleQueue(accessToken string, err error) {
	r.mu.Lock()
	queue := r.queue
	r.queue = nil
	r.state = stateIdle
	r.mu.Unlock()

	for _, p := range queue {
		p.settle(accessToken, err)
	}
}

// retryAfterRefresh obtains a fresh access token for a request rejected with
// 401 and retries it once
func (r *refresher) retryAfterRefresh(ctx context.Context, staleToken string, retry func(ctx context.Context, accessToken string) (*response, error), logger *zap.Logger) (*response, error) {
	p := newPendingRequest(ctx, retry)

	decision, current := r.acquireOrEnqueue(ctx, p, staleToken)
	switch decision {
	case admitQueued:
		logger.Debug("waiting for token refresh in flight")
		return p.wait(ctx)
	case admitRenewed:
		logger.Debug("token already renewed, retrying")
		return retry(ctx, current)
	}

	token, err := r.refresh(ctx, logger)
	r.settleQueue(token, err)
	if err != nil {
		return nil, err
	}

	return retry(ctx, token)
}

// refresh runs the exchange detached from the caller's cancellation, bounded
// by the client timeout. On failure the stored credentials are cleared.
func (r *refresher) refresh(ctx context.Context, logger *zap.Logger) (string, error) {
	detached := context.WithoutCancel(ctx)
	exchangeCtx, cancel := context.WithTimeout(detached, r.timeout)
	defer cancel()

	logger.Debug("refreshing access token")

	token, err := r.exchange(exchangeCtx)
	if err != nil {
		logger.Warn("token refresh failed, clearing credentials", zap.Error(err))
		if clearErr := r.creds.Clear(detached); clearErr != nil {
			logger.Error("failed to clear credentials", zap.Error(clearErr))
		}
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	logger.Debug("access token refreshed")
	return token, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (r refreshResponse) accessToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// exchangeRefreshToken calls the refresh endpoint and stores the new tokens.
// A response without a rotated refresh token keeps the current one.
func (c *Client) exchangeRefreshToken(ctx context.Context) (string, error) {
	refreshToken := c.creds.RefreshToken(ctx)
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	call, err := c.newCall(http.MethodPost, c.refreshEndpoint, refreshRequest{RefreshToken: refreshToken}, []RequestOption{WithoutAuth()})
	if err != nil {
		return "", err
	}

	resp, err := c.send(ctx, call, "")
	if err != nil {
		return "", err
	}

	var body refreshResponse
	if err := resp.decode(&body); err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}

	accessToken := body.accessToken()
	if accessToken == "" {
		return "", errors.New("token refresh response carries no access token")
	}

	rotated := body.RefreshToken
	if rotated == "" {
		rotated = refreshToken
	}

	if err := c.creds.UpdateTokens(ctx, accessToken, rotated); err != nil {
		return "", fmt.Errorf("failed to save refreshed tokens: %w", err)
	}

	return accessToken, nil
}
