package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStateStoreBindsUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	state, err := store.Issue(ctx, "42")
	require.NoError(t, err)
	require.NotEmpty(t, state)

	userID, ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "42", userID)
}

func TestMemoryStateStoreIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	state, err := store.Issue(ctx, "42")
	require.NoError(t, err)

	_, ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	require.True(t, ok)

	userID, ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, userID)
}

func TestMemoryStateStoreUnknownState(t *testing.T) {
	store := NewMemoryStateStore()
	userID, ok, err := store.Consume(context.Background(), "never-issued")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, userID)
}

func TestMemoryStateStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	state, err := store.Issue(ctx, "42")
	require.NoError(t, err)
	store.mu.Lock()
	e := store.states[state]
	e.exp = time.Now().Add(-time.Second)
	store.states[state] = e
	store.mu.Unlock()

	userID, ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, userID)
}
