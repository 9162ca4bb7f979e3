// Package credentials persists the access/refresh token pair used by the API client.
// A Store holds a single credential slot; Credentials wraps it with the
// never-failing read accessors the client relies on.
package credentials

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store when no bundle has been persisted yet
var ErrNotFound = errors.New("no stored credentials")

// Bundle is the pair of tokens stored for one session
type Bundle struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IsZero reports whether the bundle holds no token at all
func (b Bundle) IsZero() bool {
	return b.AccessToken == "" && b.RefreshToken == ""
}

// Store is a single-slot persistence backend for a Bundle.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the stored bundle, or ErrNotFound if nothing was saved
	Load(ctx context.Context) (Bundle, error)

	// Save overwrites the stored bundle
	Save(ctx context.Context, bundle Bundle) error

	// Clear removes the stored tokens
	Clear(ctx context.Context) error
}

// Credentials gives read/write access to the tokens of one session.
// Reads never fail: any storage problem is reported as an empty token.
type Credentials struct {
	store Store
	mu    sync.Mutex
}

// New wraps a store
func New(store Store) *Credentials {
	return &Credentials{store: store}
}

// AccessToken returns the stored access token, or "" if none is usable
func (c *Credentials) AccessToken(ctx context.Context) string {
	return c.load(ctx).AccessToken
}

// RefreshToken returns the stored refresh token, or "" if none is usable
func (c *Credentials) RefreshToken(ctx context.Context) string {
	return c.load(ctx).RefreshToken
}

// Bundle returns a copy of the stored tokens
func (c *Credentials) Bundle(ctx context.Context) Bundle {
	return c.load(ctx)
}

// UpdateTokens overwrites both tokens. Calling it twice with the same
// arguments leaves the store in the same state as calling it once.
func (c *Credentials) UpdateTokens(ctx context.Context, accessToken, refreshToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Save(ctx, Bundle{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Clear drops both tokens
func (c *Credentials) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Clear(ctx)
}

func (c *Credentials) load(ctx context.Context) Bundle {
	if c == nil || c.store == nil {
		return Bundle{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bundle, err := c.store.Load(ctx)
	if err != nil {
		return Bundle{}
	}
	return bundle
}
