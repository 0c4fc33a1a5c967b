package textbook_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/hip/pkg/textbook"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadNotFound(t *testing.T) {
	_, err := textbook.Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, textbook.ErrNotFound)
}

func TestLoadEmptyFile(t *testing.T) {
	for _, content := range [][]byte{nil, []byte("   \n\t  ")} {
		path := writeFile(t, "textbook.txt", content)
		_, err := textbook.Load(path)
		assert.ErrorIs(t, err, textbook.ErrEmpty)
	}
}

func TestLoadInvalidUTF8(t *testing.T) {
	path := writeFile(t, "textbook.txt", []byte{0xff, 0xfe, 0xfd})
	_, err := textbook.Load(path)
	assert.ErrorIs(t, err, textbook.ErrNotUTF8)
}

func TestLoadNormalizesWhitespace(t *testing.T) {
	path := writeFile(t, "textbook.txt", []byte("\n\nFirst paragraph.\n\n\n\n\nSecond paragraph.\n\n"))

	text, err := textbook.Load(path)
	require.NoError(t, err)
	// Runs of 3+ newlines collapse to exactly 2, and the edges are trimmed.
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", text)
}

func TestHash(t *testing.T) {
	a := textbook.Hash("the cell membrane")
	b := textbook.Hash("the cell membrane")
	c := textbook.Hash("the cell wall")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
