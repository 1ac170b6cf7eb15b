package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

func session(token string, expiresAt time.Time) domain.Session {
	return domain.Session{
		Token:     token,
		Cashier:   domain.Cashier{ID: "c1", Email: "amara@safiri.example", Role: domain.RoleManager},
		CreatedAt: expiresAt.Add(-10 * time.Hour),
		ExpiresAt: expiresAt,
	}
}

func TestMemoryStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()

	s.Put(ctx, session("tok-1", now.Add(time.Hour)))

	got, ok := s.Get(ctx, "tok-1")
	require.True(t, ok)
	require.Equal(t, "c1", got.Cashier.ID)

	_, ok = s.Get(ctx, "tok-2")
	require.False(t, ok)

	s.Delete(ctx, "tok-1")
	_, ok = s.Get(ctx, "tok-1")
	require.False(t, ok)
}

func TestMemoryStoreIgnoresEmptyToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Put(ctx, domain.Session{})
	require.Zero(t, s.Len(ctx))
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()

	s.Put(ctx, session("live", now.Add(time.Hour)))
	s.Put(ctx, session("dead-1", now.Add(-time.Minute)))
	s.Put(ctx, session("dead-2", now))

	removed := s.Sweep(ctx, now)
	require.Equal(t, 2, removed)
	require.Equal(t, 1, s.Len(ctx))

	_, ok := s.Get(ctx, "live")
	require.True(t, ok)
}
