// Package pipeline edits the release tag line of a CI pipeline descriptor.
//
// Pipeline descriptors are templated and not valid YAML in general, so they are handled as
// plain text: only the line that writes the release version into the ".tags" marker file is
// rewritten, every other byte is left alone.
package pipeline

import (
	"fmt"
	"regexp"
)

// TagsFileName is the marker file the CI reads the release tag from.
const TagsFileName = ".tags"

var tagLinePattern = regexp.MustCompile(`(?i)-\s+echo\s-n\s.+\s>\s\.tags`)

// TagLine returns the canonical list item that writes version into the tags file.
func TagLine(version string) string {
	return fmt.Sprintf(`- echo -n "%s" > %s`, version, TagsFileName)
}

// Match reports whether text contains a tag line.
func Match(text string) bool {
	return tagLinePattern.MatchString(text)
}

// Patch replaces the first tag line in text with TagLine(version).
// If there is no tag line, text is returned unchanged and the second value is false.
func Patch(text, version string) (string, bool) {
	loc := tagLinePattern.FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	return text[:loc[0]] + TagLine(version) + text[loc[1]:], true
}
