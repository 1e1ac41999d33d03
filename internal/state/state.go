// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package state is the single authority for per-visitor session state (the
// current user and shopping cart, held in the scs session) and the in-memory
// site settings snapshot shared by the view layer. It is an explicit,
// injectable object handed to handlers rather than ambient global state.
package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexedwards/scs/v2"

	"github.com/amstore/ams-go/internal/model"
	"github.com/amstore/ams-go/internal/store"
)

// Session keys. The user id is the persisted session token payload: a page
// reload (or a new request) restores the logged-in user from it.
const (
	sessionKeyUserID = "user_id"
	sessionKeyCart   = "cart"
)

// Manager holds the settings snapshot and mediates session access.
type Manager struct {
	store    *store.Store
	sessions *scs.SessionManager

	mu        sync.RWMutex
	settings  model.SiteSettings
	listeners []func(model.SiteSettings)
}

// NewManager creates a state manager. Call Init before serving requests.
func NewManager(st *store.Store, sm *scs.SessionManager) *Manager {
	return &Manager{store: st, sessions: sm}
}

// Sessions exposes the underlying session manager for middleware wiring.
func (m *Manager) Sessions() *scs.SessionManager {
	return m.sessions
}

// Store exposes the domain service.
func (m *Manager) Store() *store.Store {
	return m.store
}

// Init loads the initial settings snapshot.
func (m *Manager) Init(ctx context.Context) error {
	return m.RefreshSettings(ctx)
}

// Settings returns the current in-memory settings snapshot.
func (m *Manager) Settings() model.SiteSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// RefreshSettings re-reads the settings from the domain service, replaces the
// snapshot, and notifies subscribers (theme color, page title, and other
// presentation consumers).
func (m *Manager) RefreshSettings(ctx context.Context) error {
	settings, err := m.store.Settings(ctx)
	if err != nil {
		return fmt.Errorf("refreshing settings: %w", err)
	}

	m.mu.Lock()
	m.settings = settings
	listeners := make([]func(model.SiteSettings), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(settings)
	}
	return nil
}

// Subscribe registers a listener invoked after every settings refresh.
// Listeners are called synchronously, outside the manager's lock.
func (m *Manager) Subscribe(fn func(model.SiteSettings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// ---------------------------------------------------------------------------
// Authenticated session

// Login marks the user as the session's current user. The session token is
// renewed to prevent fixation.
func (m *Manager) Login(ctx context.Context, user model.User) error {
	if err := m.sessions.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	m.sessions.Put(ctx, sessionKeyUserID, user.ID)
	return nil
}

// Logout clears the current user and destroys the session.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.sessions.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// CurrentUser resolves the session's user id against the users collection.
// An anonymous session, or a stale id whose user record is gone, yields
// (zero, false, nil).
func (m *Manager) CurrentUser(ctx context.Context) (model.User, bool, error) {
	id := m.sessions.GetString(ctx, sessionKeyUserID)
	if id == "" {
		return model.User{}, false, nil
	}
	return m.store.FindUserByID(ctx, id)
}
