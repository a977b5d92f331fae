package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateInputFile checks that an analysis, transcript or job description
// path names a regular file the process can open
func ValidateInputFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	info, err := os.Stat(filename)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("input file does not exist: %s", filename)
	case err != nil:
		return fmt.Errorf("cannot access input %s: %w", filename, err)
	case info.IsDir():
		return fmt.Errorf("input %s is a directory, not a file", filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open input %s: %w", filename, err)
	}
	return f.Close()
}

// ValidateOutputFile prepares the parent directory of a report or
// formatted output. An empty path means stdout.
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}
	if info, err := os.Stat(filename); err == nil && info.IsDir() {
		return fmt.Errorf("output %s is a directory; name a file inside it", filename)
	}

	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", dir, err)
	}
	return nil
}

// GetFileExtension returns the lowercased extension, which selects the
// input decoder and the upload policy entry
func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// FormatFileSize renders byte counts for upload limit messages
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
