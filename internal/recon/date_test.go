// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-01-31 ")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.January, 31), d)

	d, err = ParseDate("2025-03-02T23:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.March, 2), d)

	_, err = ParseDate("31/01/2025")
	assert.Error(t, err)
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, time.December, 31)
	b := NewDate(2025, time.January, 1)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.Equal(t, NewDate(2025, time.March, 1), NewDate(2025, time.February, 29), "components are normalised")
}

func TestDateTextEncoding(t *testing.T) {
	line := PlanLine{Date: NewDate(2025, time.January, 1), Channel: "TVN"}

	raw, err := json.Marshal(line)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"date":"2025-01-01"`)

	var back PlanLine
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, line.Date, back.Date)

	var fromYAML AiredUnit
	require.NoError(t, yaml.Unmarshal([]byte("date: 2025-02-03\nchannel: TVN\nquantity: 1\n"), &fromYAML))
	assert.Equal(t, NewDate(2025, time.February, 3), fromYAML.Date)
}

func TestMonthScope(t *testing.T) {
	s := MonthScope(2024, time.February)
	assert.Equal(t, NewDate(2024, time.February, 1), s.From)
	assert.Equal(t, NewDate(2024, time.February, 29), s.To)
	assert.True(t, s.Includes(NewDate(2024, time.February, 29)))
	assert.False(t, s.Includes(NewDate(2024, time.March, 1)))
	assert.True(t, Scope{}.Includes(NewDate(1999, time.July, 4)))
}
