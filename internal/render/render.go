// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded templates and executes pages with the
// shared layout data: site settings, the current user, and cart summary.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/amstore/ams-go/internal/cache"
	"github.com/amstore/ams-go/internal/middleware"
	"github.com/amstore/ams-go/internal/model"
	"github.com/amstore/ams-go/internal/state"
)

// Renderer handles template rendering.
type Renderer struct {
	templates map[string]*template.Template
	state     *state.Manager
	sessions  *scs.SessionManager
	fragments cache.Cache
	isDev     bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	State       *state.Manager
	Fragments   cache.Cache
	IsDev       bool
}

// TemplateData is the payload handed to every page template.
type TemplateData struct {
	Title     string
	Settings  model.SiteSettings
	User      *model.User
	CartCount int
	Flash     string
	FlashType string
	Data      any
}

// New creates a Renderer with parsed templates. Rendered fragments (markdown
// HTML) are cached in cfg.Fragments; the cache is cleared whenever the site
// settings change, since fragments may embed theme values.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		state:     cfg.State,
		sessions:  cfg.State.Sessions(),
		fragments: cfg.Fragments,
		isDev:     cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	r.state.Subscribe(func(model.SiteSettings) {
		if r.fragments != nil {
			_ = r.fragments.Clear(context.Background())
		}
	})

	return r, nil
}

// parseTemplates parses all templates from the filesystem. Each page is
// parsed together with the base layout, its section layout, and the partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	sections := map[string]string{
		"public": "layouts/public.html",
		"admin":  "layouts/admin.html",
	}

	for section, layout := range sections {
		pages, err := fs.Glob(templatesFS, section+"/*.html")
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", section, err)
		}

		for _, tmplPath := range pages {
			name := section + "/" + strings.TrimSuffix(filepath.Base(tmplPath), ".html")

			files := []string{"layouts/base.html", layout}
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}

			r.templates[name] = tmpl
		}
	}

	return nil
}

// RenderPage executes the named page template with the shared layout data
// filled in from the request.
func (r *Renderer) RenderPage(w http.ResponseWriter, req *http.Request, name string, data TemplateData) {
	tmpl, ok := r.templates[name]
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data.Settings = r.state.Settings()
	if data.User == nil {
		data.User = middleware.GetUser(req)
	}
	if items, err := r.state.Cart(req.Context()); err == nil {
		data.CartCount = state.CartCount(items)
	}
	if data.Flash == "" {
		data.Flash, data.FlashType = r.PopFlash(req)
	}
	if data.Title == "" {
		data.Title = data.Settings.SiteName
	}

	// Render to a buffer first so template failures produce a clean 500
	// instead of a half-written page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// SetFlash stores a one-shot flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, messageType string) {
	r.sessions.Put(req.Context(), "flash", message)
	r.sessions.Put(req.Context(), "flash_type", messageType)
}

// PopFlash removes and returns the pending flash message, if any.
func (r *Renderer) PopFlash(req *http.Request) (message, messageType string) {
	message = r.sessions.PopString(req.Context(), "flash")
	if message == "" {
		return "", ""
	}
	messageType = r.sessions.PopString(req.Context(), "flash_type")
	if messageType == "" {
		messageType = "info"
	}
	return message, messageType
}
