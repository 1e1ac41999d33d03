// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/amstore/ams-go/internal/auth"
	"github.com/amstore/ams-go/internal/middleware"
	"github.com/amstore/ams-go/internal/render"
	"github.com/amstore/ams-go/internal/state"
	"github.com/amstore/ams-go/internal/store"
)

// AuthHandler handles the login, logout, and forced password-change flows.
type AuthHandler struct {
	store    *store.Store
	state    *state.Manager
	renderer *render.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(st *state.Manager, renderer *render.Renderer) *AuthHandler {
	return &AuthHandler{
		store:    st.Store(),
		state:    st,
		renderer: renderer,
	}
}

// LoginData is the login page payload.
type LoginData struct {
	Error string
	Email string
}

// LoginForm renders the login page. Already-authenticated back-office users
// are sent to the dashboard (or the password-change gate).
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r); user != nil {
		if user.RequiresPasswordChange {
			http.Redirect(w, r, RouteAdminChangePassword, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
		return
	}

	h.renderer.RenderPage(w, r, "admin/login", render.TemplateData{
		Title: "Admin Login",
		Data:  LoginData{},
	})
}

// Login authenticates the submitted credentials. Failures are always answered
// with the same generic message; there is no lockout or throttling.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "", "Invalid form data")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	user, ok, err := h.store.FindUserByEmail(r.Context(), email)
	if err != nil {
		logAndInternalError(w, "looking up user", "error", err)
		return
	}
	if !ok || !auth.CheckPassword(password, user.Password) {
		h.renderLoginError(w, r, email, "Invalid credentials")
		return
	}

	if err := h.state.Login(r.Context(), user); err != nil {
		logAndInternalError(w, "creating session", "error", err)
		return
	}

	slog.Info("user logged in", "email", user.Email, "role", user.Role)

	if user.RequiresPasswordChange {
		http.Redirect(w, r, RouteAdminChangePassword, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, email, message string) {
	h.renderer.RenderPage(w, r, "admin/login", render.TemplateData{
		Title: "Admin Login",
		Data:  LoginData{Error: message, Email: email},
	})
}

// Logout clears the session and returns to the storefront.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.state.Logout(r.Context()); err != nil {
		logAndInternalError(w, "destroying session", "error", err)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// ChangePasswordForm renders the forced password-change page.
func (h *AuthHandler) ChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderPage(w, r, "admin/change_password", render.TemplateData{
		Title: "Change Password",
	})
}

// ChangePassword updates the current user's credential and clears the
// must-change flag, completing the transition to the authenticated state.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteAdminLogin, http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminChangePassword) {
		return
	}

	newPassword := r.PostFormValue("password")
	if err := auth.ValidateNewPassword(newPassword); err != nil {
		flashError(w, r, h.renderer, RouteAdminChangePassword, err.Error())
		return
	}

	updated := *user
	updated.Password = newPassword
	updated.RequiresPasswordChange = false

	if err := h.store.SaveUser(r.Context(), updated); err != nil {
		logAndInternalError(w, "saving user", "error", err)
		return
	}

	slog.Info("password updated", "email", updated.Email)
	flashSuccess(w, r, h.renderer, RouteAdminDashboard, "Password updated")
}
