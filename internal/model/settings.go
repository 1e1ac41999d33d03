// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// SiteSettings is the singleton configuration record. It is created with
// defaults on first run, overwritten wholesale on each save, and never
// deleted.
type SiteSettings struct {
	SiteName            string `json:"siteName"`
	PrimaryColor        string `json:"primaryColor"`
	Address             string `json:"address"`
	SupportEmail        string `json:"supportEmail"`
	HomepageHeroTitle   string `json:"homepageHeroTitle"`
	HomepageHeroSubtext string `json:"homepageHeroSubtext"`
	MaintenanceMode     bool   `json:"maintenanceMode"`
}
