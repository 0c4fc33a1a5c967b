package textbook

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrNotFound = errors.New("textbook: file not found")
	ErrNotUTF8  = errors.New("textbook: file is not valid UTF-8")
	ErrEmpty    = errors.New("textbook: file is empty")
)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Load reads a plain-text textbook and normalizes its whitespace: runs of
// three or more newlines collapse to exactly two, keeping paragraph
// boundaries intact, and surrounding whitespace is trimmed.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("textbook: reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotUTF8, path)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

// Hash returns the hex SHA-256 digest of normalized textbook text. Together
// with the embedding model name it is the cache validity key.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
