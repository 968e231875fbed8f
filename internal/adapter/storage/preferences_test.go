package storage_test

import (
	"context"
	"testing"

	"github.com/niksmo/medsupply/internal/adapter/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceStorage(t *testing.T) {
	s, err := storage.NewMemPreferenceStorage()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	t.Run("NotFound", func(t *testing.T) {
		_, found, err := s.DarkMode(t.Context(), "unknown")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, s.SetDarkMode(t.Context(), "c1", true))

		v, found, err := s.DarkMode(t.Context(), "c1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, v)

		require.NoError(t, s.SetDarkMode(t.Context(), "c1", false))
		v, found, err = s.DarkMode(t.Context(), "c1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.False(t, v)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := s.SetDarkMode(ctx, "c1", true)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFilePreferenceStorage(t *testing.T) {
	path := t.TempDir()

	s, err := storage.NewPreferenceStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.SetDarkMode(t.Context(), "c1", true))
	s.Close()

	s, err = storage.NewPreferenceStorage(path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.DarkMode(t.Context(), "c1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, v)
}
