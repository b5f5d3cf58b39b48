package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultVal
	}
	return val
}

// ParseFloat parses a price input. Blank, unparsable, NaN and zero inputs
// all yield defaultVal. Out of range values keep their ±Inf or 0 result.
func ParseFloat(s string, defaultVal float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return defaultVal
	}
	if math.IsNaN(val) || val == 0 {
		return defaultVal
	}
	return val
}

// ParseMinPrice reads the lower price bound; anything unusable means 0.
func ParseMinPrice(s string) float64 {
	return ParseFloat(s, 0)
}

// ParseMaxPrice reads the upper price bound; anything unusable means no
// upper bound.
func ParseMaxPrice(s string) float64 {
	return ParseFloat(s, math.Inf(1))
}

// Excerpt returns the first n characters of s followed by "...".
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) > n {
		s = string([]rune(s)[:n])
	}
	return s + "..."
}
