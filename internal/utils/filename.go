package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace runs collapse to a single underscore
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// SanitizeFilename sanitizes an uploaded filename so it is safe to use as an
// on-disk name under a storage root. Any path components are stripped, so a
// traversal attempt like "../../etc/passwd" reduces to "passwd".
func SanitizeFilename(filename string) string {
	// Normalize Windows-style separators before taking the base name
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)

	// Remove invalid filename characters
	filename = invalidFilenameChars.ReplaceAllString(filename, "")

	// Collapse whitespace to underscores
	filename = strings.TrimSpace(filename)
	filename = whitespaceRuns.ReplaceAllString(filename, "_")

	// A leading dot would hide the file or leave a ".." remnant
	filename = strings.TrimLeft(filename, ".")

	// Limit length (most filesystems support 255, leave room for a suffix)
	if len(filename) > 200 {
		filename = filename[:200]
	}

	if filename == "" {
		filename = "unnamed"
	}

	return filename
}
