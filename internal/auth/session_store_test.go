package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockresearch/internal/cache"
	"stockresearch/internal/model"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	mem := cache.NewMemoryWithClock(func() time.Time { return now })
	s := NewSessionStore(mem)

	require.NoError(t, s.Create(ctx, &model.Session{ID: "sid", Email: "a@b.c"}, time.Hour))

	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@b.c", got.Email)

	require.NoError(t, s.Delete(ctx, "sid"))
	require.NoError(t, s.Delete(ctx, "sid"))

	got, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	mem := cache.NewMemoryWithClock(func() time.Time { return now })
	s := NewSessionStore(mem)

	require.NoError(t, s.Create(ctx, &model.Session{ID: "sid", Email: "a@b.c"}, SessionTokenExpiry))

	now = now.Add(SessionTokenExpiry)
	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_RejectsCorruptData(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory()
	require.NoError(t, mem.Set(ctx, sessionKeyPrefix+"bad", []byte("{"), 0))
	require.NoError(t, mem.Set(ctx, sessionKeyPrefix+"blank", []byte(`{"id":"blank"}`), 0))

	s := NewSessionStore(mem)
	_, err := s.Get(ctx, "bad")
	assert.Error(t, err)
	_, err = s.Get(ctx, "blank")
	assert.Error(t, err)
}
