package utils

import (
	"os"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

var invalidFilenameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", ",", "_", " ", "_",
)

// SanitizeFilename replaces characters that are invalid or awkward in
// filenames, such as the separators in "shirt, blouse", with underscores.
func SanitizeFilename(filename string) string {
	result := invalidFilenameChars.Replace(strings.TrimSpace(filename))

	// Remove leading/trailing underscores and dots
	return strings.Trim(result, "_.")
}
