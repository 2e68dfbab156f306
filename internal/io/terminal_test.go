package io

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminal(t *testing.T) {
	t.Run("buffer is not a terminal", func(t *testing.T) {
		assert.False(t, IsTerminal(&bytes.Buffer{}))
	})

	t.Run("nil writer is not a terminal", func(t *testing.T) {
		assert.False(t, IsTerminal(nil))
	})

	t.Run("redirected file is not a terminal", func(t *testing.T) {
		f, err := os.Create(filepath.Join(t.TempDir(), "err.log"))
		require.NoError(t, err)
		defer f.Close()

		assert.False(t, IsTerminal(f))
	})

	t.Run("pipe is not a terminal", func(t *testing.T) {
		r, w, err := os.Pipe()
		require.NoError(t, err)
		defer r.Close()
		defer w.Close()

		assert.False(t, IsTerminal(w))
	})
}
