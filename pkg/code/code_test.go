package code

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreVerify(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	require.NoError(t, store.Save(ctx, "user@example.com", "123456"))
	require.ErrorIs(t, store.Verify(ctx, "user@example.com", "000000"), ErrNotMatch)
	require.NoError(t, store.Verify(ctx, "user@example.com", "123456"))

	// A code is single use.
	require.ErrorIs(t, store.Verify(ctx, "user@example.com", "123456"), ErrNotMatch)
}

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(-time.Second)

	require.NoError(t, store.Save(ctx, "user@example.com", "123456"))
	require.ErrorIs(t, store.Verify(ctx, "user@example.com", "123456"), ErrNotMatch)
}
