// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSweeper struct {
	calls int
	err   error
}

func (f *fakeSweeper) SweepOrphans(context.Context) (int64, error) {
	f.calls++
	return 3, f.err
}

type fakeLogin struct{ calls int }

func (f *fakeLogin) Sweep() { f.calls++ }

func TestRegister(t *testing.T) {
	s := New(testLogger())

	require.NoError(t, s.Register("a", "first", "@hourly", func(context.Context) error { return nil }))
	assert.Error(t, s.Register("a", "dup", "@hourly", func(context.Context) error { return nil }))
	assert.Error(t, s.Register("b", "bad", "not a schedule", func(context.Context) error { return nil }))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, "@hourly", jobs[0].Schedule)
}

func TestRegisterMaintenance(t *testing.T) {
	s := New(testLogger())
	seats := &fakeSweeper{}
	login := &fakeLogin{}

	require.NoError(t, RegisterMaintenance(s, seats, "@hourly", login))

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, JobLoginSweep, jobs[0].Name)
	assert.Equal(t, JobSeatSweep, jobs[1].Name)

	require.NoError(t, s.Trigger(context.Background(), JobSeatSweep))
	require.NoError(t, s.Trigger(context.Background(), JobLoginSweep))
	assert.Equal(t, 1, seats.calls)
	assert.Equal(t, 1, login.calls)
}

func TestRegisterMaintenanceWithoutLogin(t *testing.T) {
	s := New(testLogger())
	require.NoError(t, RegisterMaintenance(s, &fakeSweeper{}, "@daily", nil))
	assert.Len(t, s.Jobs(), 1)
}

type fakeTokenSweeper struct{ calls int }

func (f *fakeTokenSweeper) SweepExpiredTokens(context.Context) (int64, error) {
	f.calls++
	return 0, nil
}

func TestRegisterTokenSweep(t *testing.T) {
	s := New(testLogger())
	tokens := &fakeTokenSweeper{}
	require.NoError(t, RegisterTokenSweep(s, tokens))
	assert.Error(t, RegisterTokenSweep(s, tokens), "names are unique")

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, JobTokenSweep, jobs[0].Name)
	assert.Equal(t, TokenSweepSchedule, jobs[0].Schedule)

	require.NoError(t, s.Trigger(context.Background(), JobTokenSweep))
	assert.Equal(t, 1, tokens.calls)
}

func TestTrigger(t *testing.T) {
	s := New(testLogger())
	seats := &fakeSweeper{err: errors.New("locked")}
	require.NoError(t, RegisterMaintenance(s, seats, "@hourly", nil))

	err := s.Trigger(context.Background(), JobSeatSweep)
	assert.EqualError(t, err, "locked")

	err = s.Trigger(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestStartStop(t *testing.T) {
	s := New(testLogger())
	require.NoError(t, RegisterMaintenance(s, &fakeSweeper{}, "@hourly", nil))

	s.Start()
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].NextRun.IsZero())
	s.Stop()

	assert.Error(t, s.ctx.Err(), "job context should be cancelled after Stop")
}
