// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amstore/ams-go/internal/model"
)

// Default admin credentials. The password is stored as-is; see DESIGN.md for
// the plaintext-credential decision.
const (
	DefaultAdminID       = "admin-1"
	DefaultAdminEmail    = "admin@site.com"
	DefaultAdminPassword = "possward321@"
	DefaultAdminName     = "Super Admin"
)

// DefaultSettings returns the first-run site settings.
func DefaultSettings() model.SiteSettings {
	return model.SiteSettings{
		SiteName:            "Arabian Market Store",
		PrimaryColor:        "#0f172a",
		Address:             "Badmintas Road",
		SupportEmail:        "support@site.com",
		HomepageHeroTitle:   "Welcome to Arabian Market Store",
		HomepageHeroSubtext: "The best products with fast delivery, secure checkout, and premium quality.",
		MaintenanceMode:     false,
	}
}

// DefaultAdmin returns the seeded admin account. The account must change its
// password on first login.
func DefaultAdmin(now time.Time) model.User {
	return model.User{
		ID:                     DefaultAdminID,
		Email:                  DefaultAdminEmail,
		Password:               DefaultAdminPassword,
		Name:                   DefaultAdminName,
		Role:                   model.RoleAdmin,
		RequiresPasswordChange: true,
		CreatedAt:              now,
	}
}

func floatPtr(v float64) *float64 { return &v }

// DefaultProducts returns the seeded catalog.
func DefaultProducts(now time.Time) []model.Product {
	return []model.Product{
		{
			ID:          "p1",
			Title:       "Smart Phone X200",
			Slug:        "smart-phone-x200",
			Description: `A powerful smartphone with 6.5" display, 50MP camera, and 128GB storage.`,
			Price:       699,
			Category:    "Electronics",
			Images: []string{
				"https://picsum.photos/400/400?random=1",
				"https://picsum.photos/400/400?random=11",
			},
			Stock:        50,
			Specs:        map[string]string{"screen": "6.5 inch", "ram": "8GB", "storage": "128GB"},
			Rating:       4.8,
			ReviewsCount: 120,
			CreatedAt:    now,
		},
		{
			ID:          "p2",
			Title:       "Premium Leather Bag",
			Slug:        "premium-leather-bag",
			Description: "Handcrafted leather bag perfect for travel and daily use.",
			Price:       149,
			SalePrice:   floatPtr(129),
			Category:    "Fashion",
			Images: []string{
				"https://picsum.photos/400/400?random=2",
				"https://picsum.photos/400/400?random=22",
			},
			Stock:        20,
			Specs:        map[string]string{"material": "Leather", "color": "Brown"},
			Rating:       4.5,
			ReviewsCount: 45,
			CreatedAt:    now,
		},
		{
			ID:           "p3",
			Title:        "Wireless Noise Cancelling Headphones",
			Slug:         "wireless-headphones",
			Description:  "Immersive sound experience with 30-hour battery life.",
			Price:        299,
			Category:     "Electronics",
			Images:       []string{"https://picsum.photos/400/400?random=3"},
			Stock:        100,
			Specs:        map[string]string{"type": "Over-ear", "battery": "30 hours"},
			Rating:       4.9,
			ReviewsCount: 300,
			CreatedAt:    now,
		},
		{
			ID:           "p4",
			Title:        "Arabian Coffee Set",
			Slug:         "arabian-coffee-set",
			Description:  "Traditional porcelain coffee set with gold accents.",
			Price:        89,
			Category:     "Home",
			Images:       []string{"https://picsum.photos/400/400?random=4"},
			Stock:        15,
			Specs:        map[string]string{"pieces": "12", "material": "Porcelain"},
			Rating:       5.0,
			ReviewsCount: 12,
			CreatedAt:    now,
		},
	}
}

// DefaultPosts returns the seeded blog content.
func DefaultPosts(now time.Time) []model.BlogPost {
	return []model.BlogPost{
		{
			ID:      "post1",
			Title:   "The Future of Tech in 2024",
			Slug:    "future-tech-2024",
			Excerpt: "Explore the upcoming trends in electronics and smart devices.",
			Content: "Full article content here...",
			Image:   "https://picsum.photos/800/400?random=5",
			Date:    now,
		},
	}
}

// Seed populates the collections with first-run data. Absence of the settings
// key is the sole signal that seeding must occur; when it fires, each
// collection is written only if its own key is also absent, so existing data
// is never overwritten. Calling Seed after a successful seed is a no-op.
func (s *Store) Seed(ctx context.Context) error {
	_, ok, err := s.kv.Get(ctx, KeySettings)
	if err != nil {
		return fmt.Errorf("checking for settings: %w", err)
	}
	if ok {
		slog.Debug("settings present, skipping seed")
		return nil
	}

	now := time.Now().UTC()

	if err := s.SaveSettings(ctx, DefaultSettings()); err != nil {
		return fmt.Errorf("seeding settings: %w", err)
	}
	if err := seedCollection(ctx, s.kv, KeyUsers, []model.User{DefaultAdmin(now)}); err != nil {
		return err
	}
	if err := seedCollection(ctx, s.kv, KeyProducts, DefaultProducts(now)); err != nil {
		return err
	}
	if err := seedCollection(ctx, s.kv, KeyPosts, DefaultPosts(now)); err != nil {
		return err
	}
	if err := seedCollection(ctx, s.kv, KeyOrders, []model.Order{}); err != nil {
		return err
	}

	slog.Info("seeded default data",
		"admin_email", DefaultAdminEmail,
		"products", len(DefaultProducts(now)),
	)

	return nil
}

// seedCollection writes the collection only when its key is absent.
func seedCollection[T any](ctx context.Context, kv *KV, key string, items []T) error {
	_, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("checking collection %q: %w", key, err)
	}
	if ok {
		return nil
	}
	if err := writeCollection(ctx, kv, key, items); err != nil {
		return fmt.Errorf("seeding collection %q: %w", key, err)
	}
	return nil
}

// Reset deletes every collection key and reseeds. Used by demo mode.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range CollectionKeys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("resetting collection %q: %w", key, err)
		}
	}
	return s.Seed(ctx)
}
