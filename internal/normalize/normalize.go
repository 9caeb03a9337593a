// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

func isEdge(r rune) bool {
	return unicode.IsSpace(r) ||
		r == '\u200B' || // Zero Width Space
		r == '\u200C' || // Zero Width Non-Joiner
		r == '\u200D' || // Zero Width Joiner
		r == '\uFEFF' // Zero Width Non-Breaking Space (BOM)
}

// Token normalizes a string token for matching:
// - trims Unicode whitespace + invisible edge characters
// - composes to NFC so "Ó" typed two ways compares equal
// - applies Unicode case folding for case-insensitive comparisons
func Token(s string) string {
	s = strings.TrimFunc(s, isEdge)
	if s == "" {
		return ""
	}
	return folder.String(norm.NFC.String(s))
}

// Equal reports whether two channel or label strings are the same after Token normalisation.
func Equal(a, b string) bool {
	return Token(a) == Token(b)
}
