// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/jeranaias/docket-tui/internal/api"
)

// =============================================================================
// IDENTITY STATE
// =============================================================================

// State is the identity controller's position in its lifecycle.
type State int

const (
	// StateUnknown is the initial state, before the first identity load.
	StateUnknown State = iota
	// StateAnonymous means no usable credential: identity is nil.
	StateAnonymous
	// StateAuthenticated means the last identity load succeeded.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// Service is the slice of the API client the controller needs.
type Service interface {
	Login(ctx context.Context, email, password string) (*api.TokenPair, error)
	CurrentUser(ctx context.Context) (*api.User, error)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the single source of truth for "who is logged in". All views
// read identity through it; only explicit user actions mutate it.
//
// Invariant: User() is non-nil iff the last identity load with the current
// credential succeeded.
type Controller struct {
	mu    sync.RWMutex
	store Store
	svc   Service

	state   State
	user    *api.User
	lastErr error

	onSignOut func()
}

// NewController creates a controller in StateUnknown. Call Load to resolve
// any existing credential.
func NewController(store Store, svc Service) *Controller {
	return &Controller{
		store: store,
		svc:   svc,
		state: StateUnknown,
	}
}

// OnSignOut registers the callback fired whenever the session ends, by
// logout or by expiry. The hosting shell uses it to navigate to login.
func (c *Controller) OnSignOut(fn func()) {
	c.mu.Lock()
	c.onSignOut = fn
	c.mu.Unlock()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// User returns the loaded identity, nil when not authenticated.
func (c *Controller) User() *api.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Err returns the error recorded by the last failed identity load. It is the
// only thing distinguishing "not logged in" from "could not find out".
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Load resolves identity from any stored credential. Absent credential and
// rejected credential both land in StateAnonymous without error; any other
// failure lands in StateAnonymous with the error recorded.
func (c *Controller) Load(ctx context.Context) error {
	return c.loadIdentity(ctx)
}

// Login exchanges credentials for a token, stores it, then loads identity.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	pair, err := c.svc.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := c.store.Set(pair.AccessToken); err != nil {
		return err
	}
	return c.loadIdentity(ctx)
}

// Logout clears the credential, nulls identity, and signals sign-out.
func (c *Controller) Logout() error {
	err := c.store.Clear()

	c.mu.Lock()
	c.user = nil
	c.state = StateAnonymous
	c.lastErr = nil
	fn := c.onSignOut
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return err
}

// Refresh re-runs the identity load without touching the credential.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.loadIdentity(ctx)
}

// HandleSessionExpired is wired to the API client's invalidation signal: the
// gateway has already purged the credential, so only local state and the
// sign-out notification remain.
func (c *Controller) HandleSessionExpired() {
	c.mu.Lock()
	c.user = nil
	c.state = StateAnonymous
	c.lastErr = nil
	fn := c.onSignOut
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// loadIdentity drives the Unknown/Anonymous -> Authenticated transition.
func (c *Controller) loadIdentity(ctx context.Context) error {
	user, err := c.svc.CurrentUser(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err == nil:
		c.user = user
		c.state = StateAuthenticated
		c.lastErr = nil
		return nil
	case errors.Is(err, api.ErrNoCredential), errors.Is(err, api.ErrSessionExpired):
		// Clean "not logged in". The expired case has already been
		// signalled by the gateway.
		c.user = nil
		c.state = StateAnonymous
		c.lastErr = nil
		return nil
	default:
		c.user = nil
		c.state = StateAnonymous
		c.lastErr = err
		return err
	}
}
