// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	"github.com/amstore/ams-go/internal/state"
)

// Maintenance serves a 503 interstitial on public routes while the
// maintenance flag is set in the site settings. Back-office users loaded into
// the request context pass through so admins can keep working.
func Maintenance(st *state.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !st.Settings().MaintenanceMode {
				next.ServeHTTP(w, r)
				return
			}

			if user := GetUser(r); user != nil && user.CanAccessAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("We are performing scheduled maintenance. Please check back soon."))
		})
	}
}
