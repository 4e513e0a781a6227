// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
)

// Job names.
const (
	JobSeatSweep  = "seat-sweep"
	JobLoginSweep = "login-sweep"
	JobTokenSweep = "token-sweep"
)

// LoginSweepSchedule runs the login lockout cleanup.
const LoginSweepSchedule = "@every 5m"

// TokenSweepSchedule runs the expired account token cleanup.
const TokenSweepSchedule = "@hourly"

// OrphanSweeper removes seat assignments pointing at missing rows.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context) (int64, error)
}

// TokenSweeper removes expired emailed account tokens.
type TokenSweeper interface {
	SweepExpiredTokens(ctx context.Context) (int64, error)
}

// LoginSweeper drops expired login lockout entries.
type LoginSweeper interface {
	Sweep()
}

// RegisterMaintenance registers the seat sweep on schedule and, when lp is
// non-nil, the login lockout cleanup.
func RegisterMaintenance(s *Scheduler, seats OrphanSweeper, schedule string, lp LoginSweeper) error {
	err := s.Register(JobSeatSweep, "Remove seat assignments whose guest or table is gone", schedule,
		func(ctx context.Context) error {
			_, err := seats.SweepOrphans(ctx)
			return err
		})
	if err != nil {
		return err
	}
	if lp == nil {
		return nil
	}
	return s.Register(JobLoginSweep, "Drop expired login lockouts", LoginSweepSchedule,
		func(context.Context) error {
			lp.Sweep()
			return nil
		})
}

// RegisterTokenSweep registers the expired account token cleanup.
func RegisterTokenSweep(s *Scheduler, tokens TokenSweeper) error {
	return s.Register(JobTokenSweep, "Remove expired password reset and verification tokens", TokenSweepSchedule,
		func(ctx context.Context) error {
			_, err := tokens.SweepExpiredTokens(ctx)
			return err
		})
}
