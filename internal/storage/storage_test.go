package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "token", "abc"))
	got, err := m.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, m.Remove(ctx, "token"))
	require.NoError(t, m.Remove(ctx, "token"))
	_, err = m.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)
}
