// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"net/http"

	"github.com/amstore/ams-go/internal/model"
	"github.com/amstore/ams-go/internal/state"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser is the context key for the authenticated user.
const ContextKeyUser ContextKey = "user"

// Admin route targets used by the auth gates.
const (
	RouteAdminLogin          = "/admin/login"
	RouteAdminChangePassword = "/admin/change-password"
	RouteAdminDashboard      = "/admin/dashboard"
)

// LoadUser resolves the session's current user into the request context.
// Anonymous requests pass through without a user.
func LoadUser(st *state.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok, err := st.CurrentUser(r.Context())
			if err != nil || !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the user loaded into the request context, or nil.
func GetUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(ContextKeyUser).(*model.User)
	return user
}

// RequireUser requires an authenticated session with a back-office role and
// redirects anonymous visitors to the login page. A user still in the
// must-change-password state is only allowed through to the password-change
// transition; every other admin entry redirects there.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			http.Redirect(w, r, RouteAdminLogin, http.StatusSeeOther)
			return
		}
		if !user.CanAccessAdmin() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if user.RequiresPasswordChange && r.URL.Path != RouteAdminChangePassword {
			http.Redirect(w, r, RouteAdminChangePassword, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
