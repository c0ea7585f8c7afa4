package session

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhartig/shopfront/internal/api"
	"github.com/mhartig/shopfront/internal/credstore"
	"github.com/mhartig/shopfront/internal/domain"
)

func TestRefresher_RefreshesWhileAuthenticated(t *testing.T) {
	m, server, client, _ := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.True(t, m.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "secret123"}).Success)

	clock := clockwork.NewFakeClock()
	refresher := NewRefresher(m, clock, time.Minute)
	go refresher.Run(ctx)

	clock.BlockUntil(1)
	clock.Advance(time.Minute)

	require.Eventually(t, func() bool {
		return client.AccessToken() == "tok2"
	}, time.Second, 5*time.Millisecond)

	assert.True(t, m.Snapshot().IsAuthenticated)
	assert.GreaterOrEqual(t, server.refreshCalls, 1)
}

func TestRefresher_NoOpWhileAnonymous(t *testing.T) {
	m, server, _, _ := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	refresher := NewRefresher(m, clock, time.Minute)
	go refresher.Run(ctx)

	clock.BlockUntil(1)
	clock.Advance(time.Minute)
	clock.BlockUntil(1)
	clock.Advance(time.Minute)

	// Give the loop a moment to run its ticks.
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, server.refreshCalls)
	assert.False(t, m.Snapshot().IsAuthenticated)
}

func TestRefresher_RejectedRefreshEndsSession(t *testing.T) {
	m, server, client, store := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.True(t, m.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "secret123"}).Success)
	server.failRefresh = true

	clock := clockwork.NewFakeClock()
	refresher := NewRefresher(m, clock, time.Minute)
	go refresher.Run(ctx)

	clock.BlockUntil(1)
	clock.Advance(time.Minute)

	require.Eventually(t, func() bool {
		return !m.Snapshot().IsAuthenticated
	}, time.Second, 5*time.Millisecond)

	assert.Empty(t, client.AccessToken())
	requireStoredKeys(t, store, false)
}

func TestRefresher_StopsOnContextCancel(t *testing.T) {
	server := newFakeAuthServer(t)
	client := api.New(server.URL, api.Options{})
	m := NewManager(client, credstore.NewMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewFakeClock()
	refresher := NewRefresher(m, clock, time.Minute)

	done := make(chan struct{})
	go func() {
		refresher.Run(ctx)
		close(done)
	}()

	clock.BlockUntil(1)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop on context cancellation")
	}
}
