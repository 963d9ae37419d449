// Package testhelper holds helpers shared by the package tests.
package testhelper

import (
	"regexp"
	"strings"
	"testing"
)

var leadingWhitespace = regexp.MustCompile(`^[ \t]*`)

// TrimIndent removes the indentation of the first non-empty line from every
// line of src and drops the leading newline and the trailing indentation, so
// expected multi-line text can be written inline in a raw string.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(strings.TrimPrefix(src, "\n"), "\n")

	var indent string

	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			indent = leadingWhitespace.FindString(line)
			break
		}
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}

	if last := len(lines) - 1; last >= 0 && strings.TrimSpace(lines[last]) == "" {
		lines[last] = ""
	}

	return strings.Join(lines, "\n")
}
