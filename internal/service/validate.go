package service

import (
	"strings"
	"unicode/utf8"
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// charLen counts Unicode code points, not bytes.
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}
