package ban

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StrikeStore counts failed logins and holds active bans. Keys are usernames.
type StrikeStore interface {
	// AddStrike records a failure and returns the strike count inside window.
	AddStrike(ctx context.Context, key string, window time.Duration) (int, error)
	ClearStrikes(ctx context.Context, key string) error
	Ban(ctx context.Context, key string, d time.Duration) error
	// BannedFor returns the remaining ban time, zero when not banned.
	BannedFor(ctx context.Context, key string) (time.Duration, error)
}

// Tracker locks a username for banDuration after maxStrikes failed logins.
type Tracker struct {
	store       StrikeStore
	maxStrikes  int
	banDuration time.Duration
}

func NewTracker(store StrikeStore, maxStrikes int, banDuration time.Duration) *Tracker {
	return &Tracker{store: store, maxStrikes: maxStrikes, banDuration: banDuration}
}

func (t *Tracker) BannedFor(ctx context.Context, username string) (time.Duration, error) {
	return t.store.BannedFor(ctx, username)
}

// Fail records a failed login and reports whether it triggered a ban.
func (t *Tracker) Fail(ctx context.Context, username, route string) (bool, error) {
	strikes, err := t.store.AddStrike(ctx, username, t.banDuration)
	if err != nil {
		return false, fmt.Errorf("failed to record strike: %w", err)
	}
	if strikes < t.maxStrikes {
		return false, nil
	}

	if err := t.store.Ban(ctx, username, t.banDuration); err != nil {
		return false, fmt.Errorf("failed to ban %s: %w", username, err)
	}
	if err := t.store.ClearStrikes(ctx, username); err != nil {
		return true, fmt.Errorf("failed to clear strikes: %w", err)
	}

	zap.L().Warn("login banned",
		zap.String("target", username),
		zap.String("route", route),
		zap.Int("strikes", strikes),
		zap.Duration("duration", t.banDuration),
	)
	return true, nil
}

func (t *Tracker) Succeed(ctx context.Context, username string) error {
	return t.store.ClearStrikes(ctx, username)
}
