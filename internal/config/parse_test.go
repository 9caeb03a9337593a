// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"10,35", []int{10, 35}, false},
		{" 35 , 10 ,35", []int{35, 10}, false},
		{"10s,20s", []int{10, 20}, false},
		{"10,,20", []int{10, 20}, false},
		{"0", nil, true},
		{"ten", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDurationList(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"static", "http"}, ParseList(" Static, ,HTTP "))
	assert.Nil(t, ParseList(""))
}

func TestParseBool(t *testing.T) {
	t.Setenv("SPOTRECON_TEST_BOOL", "No")
	assert.False(t, ParseBool("SPOTRECON_TEST_BOOL", true))
	t.Setenv("SPOTRECON_TEST_BOOL", "maybe")
	assert.True(t, ParseBool("SPOTRECON_TEST_BOOL", true))
}
