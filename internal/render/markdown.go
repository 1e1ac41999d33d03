// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements (scripts, event handlers) from
// rendered markdown while keeping safe user-content tags.
var htmlSanitizer = bluemonday.UGCPolicy()

// markdownHTML converts markdown content to sanitized HTML, caching the
// rendered fragment by content hash.
func (r *Renderer) markdownHTML(content string) template.HTML {
	ctx := context.Background()

	sum := sha256.Sum256([]byte(content))
	key := "md:" + hex.EncodeToString(sum[:8])

	if r.fragments != nil {
		if cached, err := r.fragments.Get(ctx, key); err == nil {
			return template.HTML(cached) //nolint:gosec // sanitized before caching
		}
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(content)) //nolint:gosec // escaped
	}

	safe := htmlSanitizer.SanitizeBytes(buf.Bytes())

	if r.fragments != nil {
		_ = r.fragments.Set(ctx, key, safe, 0)
	}

	return template.HTML(safe) //nolint:gosec // sanitized above
}
