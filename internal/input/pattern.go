package input

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyPattern is returned by LoadPattern when the file holds no pattern.
var ErrEmptyPattern = errors.New("pattern is empty")

// NormalizePattern prepares raw pattern text for compiling. A leading byte
// order mark and surrounding whitespace are removed, and the text is put in
// Unicode normalization form C so that a character typed as a letter plus a
// combining mark is one symbol.
func NormalizePattern(raw string) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	raw = strings.TrimSpace(raw)
	return norm.NFC.String(raw)
}

// LoadPattern reads the pattern stored in the file at path. The contents go
// through NormalizePattern. A file with no pattern in it gives an error
// matching ErrEmptyPattern.
func LoadPattern(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pattern file: %w", err)
	}

	pattern := NormalizePattern(string(data))
	if pattern == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyPattern)
	}

	return pattern, nil
}
