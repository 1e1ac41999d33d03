package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amstore/ams-go/internal/model"
)

func requestWithUser(path string, user *model.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != nil {
		ctx := context.WithValue(req.Context(), ContextKeyUser, user)
		req = req.WithContext(ctx)
	}
	return req
}

func TestRequireUser(t *testing.T) {
	tests := []struct {
		name         string
		user         *model.User
		path         string
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "anonymous redirects to login",
			user:         nil,
			path:         "/admin/dashboard",
			wantStatus:   http.StatusSeeOther,
			wantLocation: RouteAdminLogin,
		},
		{
			name:         "customer has no back-office access",
			user:         &model.User{Role: model.RoleCustomer},
			path:         "/admin/dashboard",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/",
		},
		{
			name:       "admin passes through",
			user:       &model.User{Role: model.RoleAdmin},
			path:       "/admin/dashboard",
			wantStatus: http.StatusOK,
		},
		{
			name:       "manager passes through",
			user:       &model.User{Role: model.RoleManager},
			path:       "/admin/dashboard",
			wantStatus: http.StatusOK,
		},
		{
			name:         "pending password change is gated",
			user:         &model.User{Role: model.RoleAdmin, RequiresPasswordChange: true},
			path:         "/admin/dashboard",
			wantStatus:   http.StatusSeeOther,
			wantLocation: RouteAdminChangePassword,
		},
		{
			name:       "pending password change may reach the gate itself",
			user:       &model.User{Role: model.RoleAdmin, RequiresPasswordChange: true},
			path:       RouteAdminChangePassword,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireUser(okHandler())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, requestWithUser(tt.path, tt.user))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
				}
			}
		})
	}
}
