package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticTokenStore(t *testing.T) {
	t.Parallel()

	t.Run("serves the configured token", func(t *testing.T) {
		t.Parallel()

		store, err := NewStaticTokenStore("refresh-abc")
		require.NoError(t, err)

		token, err := store.RefreshToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "refresh-abc", token)
	})

	t.Run("requires a token", func(t *testing.T) {
		t.Parallel()

		store, err := NewStaticTokenStore("")
		require.Error(t, err)
		require.Nil(t, store)
	})

	t.Run("save is a no-op", func(t *testing.T) {
		t.Parallel()

		store, err := NewStaticTokenStore("refresh-abc")
		require.NoError(t, err)

		require.NoError(t, store.SaveRefreshToken(context.Background(), "rotated"))

		token, err := store.RefreshToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "refresh-abc", token)
	})
}
