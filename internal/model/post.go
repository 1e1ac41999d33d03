// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// BlogPost is a read-only article; the application exposes no create, update,
// or delete operations for posts.
type BlogPost struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Slug    string    `json:"slug"`
	Content string    `json:"content"`
	Image   string    `json:"image"`
	Excerpt string    `json:"excerpt"`
	Date    time.Time `json:"date"`
}
