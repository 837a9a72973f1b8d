package team

import (
	"regexp"
	"strings"
)

var (
	nonIdentifier = regexp.MustCompile(`[^\w\x{4e00}-\x{9fff}]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// Normalize converts an agent name into a valid wire identifier: spaces
// become underscores, characters other than word characters and CJK
// characters are replaced, consecutive underscores collapse, leading and
// trailing underscores are trimmed and the result is lowercased.
// Normalize is idempotent.
func Normalize(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = nonIdentifier.ReplaceAllString(name, "_")
	name = underscoreRun.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	return strings.ToLower(name)
}
