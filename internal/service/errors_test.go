// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wedly-admin/wedly-be/internal/model"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("creating seat: %w", conflict("Guest already seated"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "creating seat: Guest already seated", err.Error())
	assert.Equal(t, Kind(0), KindOf(errors.New("boom")))
}

func TestInvalid(t *testing.T) {
	assert.NoError(t, invalid(nil))

	var issues model.Issues
	issues.Add("capacity", "must be at least %d", 1)
	err := invalid(issues)

	var se *Error
	if assert.ErrorAs(t, err, &se) {
		assert.Equal(t, KindBadRequest, se.Kind)
		assert.Equal(t, []model.FieldIssue{{Field: "capacity", Message: "must be at least 1"}}, se.Issues)
	}
	assert.ErrorIs(t, err, ErrBadRequest)
}
