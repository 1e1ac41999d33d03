// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo periodically wipes and reseeds the collections when the
// service runs as a public demo.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amstore/ams-go/internal/state"
	"github.com/amstore/ams-go/internal/store"
)

// Resetter schedules periodic demo resets.
type Resetter struct {
	store *store.Store
	state *state.Manager
	cron  *cron.Cron
}

// NewResetter creates a Resetter. Call Start to begin the schedule.
func NewResetter(st *store.Store, sm *state.Manager) *Resetter {
	return &Resetter{
		store: st,
		state: sm,
		cron:  cron.New(),
	}
}

// Start registers the reset job on the given cron schedule (for example
// "@every 24h") and starts the scheduler.
func (r *Resetter) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return fmt.Errorf("adding demo reset job: %w", err)
	}
	r.cron.Start()
	slog.Info("demo reset scheduled", "schedule", schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Resetter) Stop() {
	ctx := r.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		slog.Warn("demo reset job did not finish before shutdown")
	}
}

func (r *Resetter) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := r.store.Reset(ctx); err != nil {
		slog.Error("demo reset failed", "error", err)
		return
	}
	if err := r.state.RefreshSettings(ctx); err != nil {
		slog.Error("refreshing settings after demo reset", "error", err)
		return
	}
	slog.Info("demo data reset")
}
