package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCallbackDeduper(t *testing.T) {
	ctx := context.Background()
	d := newMemoryCallbackDeduper(time.Minute)

	dup, err := d.Seen(ctx, "A000123")
	require.NoError(t, err)
	assert.False(t, dup, "first sighting is not a duplicate")

	dup, err = d.Seen(ctx, "A000123")
	require.NoError(t, err)
	assert.True(t, dup, "second sighting is a duplicate")

	dup, err = d.Seen(ctx, "A000456")
	require.NoError(t, err)
	assert.False(t, dup, "tokens are independent")
}

func TestMemoryCallbackDeduper_ExpiredTokenSeenAgain(t *testing.T) {
	ctx := context.Background()
	d := newMemoryCallbackDeduper(10 * time.Millisecond)

	_, err := d.Seen(ctx, "A1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	dup, err := d.Seen(ctx, "A1")
	require.NoError(t, err)
	assert.False(t, dup, "expired tokens are forgotten")
}

func TestNewCallbackDeduper_NoAddrFallsBackToMemory(t *testing.T) {
	d, err := NewCallbackDeduper("", "", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, d)

	dup, err := d.Seen(context.Background(), "X")
	require.NoError(t, err)
	assert.False(t, dup)
}
