package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 3, ParseInt(" 3 ", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("three", 1))
	assert.Equal(t, -2, ParseInt("-2", 1))
}

func TestParsePrices(t *testing.T) {
	tests := []struct {
		in      string
		wantMin float64
		wantMax float64
	}{
		{"", 0, math.Inf(1)},
		{"abc", 0, math.Inf(1)},
		{"0", 0, math.Inf(1)},
		{"NaN", 0, math.Inf(1)},
		{"25", 25, 25},
		{" 12.5 ", 12.5, 12.5},
		{"-4", -4, -4},
		{"1e400", math.Inf(1), math.Inf(1)},
		{"-1e400", math.Inf(-1), math.Inf(-1)},
		{"1e-400", 0, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.wantMin, ParseMinPrice(tt.in))
			assert.Equal(t, tt.wantMax, ParseMaxPrice(tt.in))
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short...", Excerpt("short", 100))
	assert.Equal(t, "abc...", Excerpt("abcdef", 3))
	assert.Equal(t, "héé...", Excerpt("hééllo", 3))
	assert.Equal(t, "...", Excerpt("", 100))
}
