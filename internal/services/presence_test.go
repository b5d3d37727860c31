package services

import (
	"fmt"
	"sync"
	"testing"

	"perfect-match-backend/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPresenceRegistry_RegisterUnregister(t *testing.T) {
	r := NewPresenceRegistry(nil)

	r.Register("u", newFakeConn("c1"))
	r.Register("u", newFakeConn("c2"))
	require.Equal(t, []string{"c1", "c2"}, r.ConnectionsFor("u"))

	r.Unregister("c1")
	require.Equal(t, []string{"c2"}, r.ConnectionsFor("u"))
	require.True(t, r.IsOnline("u"))

	r.Unregister("c2")
	require.Empty(t, r.ConnectionsFor("u"))
	require.False(t, r.IsOnline("u"))

	r.mu.RLock()
	_, present := r.users["u"]
	r.mu.RUnlock()
	require.False(t, present, "user key must be removed once its last connection leaves")
}

func TestPresenceRegistry_RegisterIsIdempotent(t *testing.T) {
	r := NewPresenceRegistry(nil)
	conn := newFakeConn("c1")

	r.Register("u", conn)
	r.Register("u", conn)

	require.Equal(t, []string{"c1"}, r.ConnectionsFor("u"))
	users, conns := r.Stats()
	require.Equal(t, 1, users)
	require.Equal(t, 1, conns)
}

func TestPresenceRegistry_EmptyUserIgnored(t *testing.T) {
	r := NewPresenceRegistry(nil)

	r.Register("", newFakeConn("c1"))

	users, conns := r.Stats()
	require.Zero(t, users)
	require.Zero(t, conns)
}

func TestPresenceRegistry_UnknownUserIsOffline(t *testing.T) {
	r := NewPresenceRegistry(nil)

	require.Empty(t, r.ConnectionsFor("ghost"))
	require.NotPanics(t, func() { r.Unregister("never-registered") })
}

func TestPresenceRegistry_ConnectionInTwoRooms(t *testing.T) {
	r := NewPresenceRegistry(nil)
	conn := newFakeConn("shared")

	r.Register("a", conn)
	r.Register("b", conn)
	r.Register("b", newFakeConn("other"))

	users, conns := r.Stats()
	require.Equal(t, 2, users)
	require.Equal(t, 2, conns)

	r.Unregister("shared")
	require.False(t, r.IsOnline("a"))
	require.Equal(t, []string{"other"}, r.ConnectionsFor("b"))
}

func TestPresenceRegistry_Concurrent(t *testing.T) {
	r := NewPresenceRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i%5)
			connID := fmt.Sprintf("conn-%d", i)
			r.Register(user, newFakeConn(connID))
			_ = r.ConnectionsFor(user)
			if i%2 == 0 {
				r.Unregister(connID)
			}
		}(i)
	}
	wg.Wait()

	_, conns := r.Stats()
	require.Equal(t, 25, conns)
}

func TestPresenceRegistry_CloseAll(t *testing.T) {
	r := NewPresenceRegistry(nil)
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")
	r.Register("a", c1)
	r.Register("b", c2)

	r.CloseAll()

	require.True(t, c1.isClosed())
	require.True(t, c2.isClosed())
	require.False(t, r.IsOnline("a"))
}

func TestPresenceRegistry_Metrics(t *testing.T) {
	m := metrics.New()
	r := NewPresenceRegistry(m)

	r.Register("a", newFakeConn("c1"))
	r.Register("a", newFakeConn("c2"))
	r.Register("b", newFakeConn("c3"))

	require.Equal(t, 2.0, testutil.ToFloat64(m.OnlineUsers))
	require.Equal(t, 3.0, testutil.ToFloat64(m.ActiveConnections))

	r.Unregister("c3")
	require.Equal(t, 1.0, testutil.ToFloat64(m.OnlineUsers))
	require.Equal(t, 2.0, testutil.ToFloat64(m.ActiveConnections))
}
