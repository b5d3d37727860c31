package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.SetPresence(1, 2)
		m.Delivered()
		m.Dropped("validation")
		m.Pushed(true)
		m.Rated()
		m.ObserveRequest("/ratings", "POST", 200, time.Millisecond)
	})
}

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.SetPresence(3, 5)
	m.Delivered()
	m.Delivered()
	m.Dropped("validation")
	m.Pushed(false)
	m.Rated()

	require.Equal(t, 3.0, testutil.ToFloat64(m.OnlineUsers))
	require.Equal(t, 5.0, testutil.ToFloat64(m.ActiveConnections))
	require.Equal(t, 2.0, testutil.ToFloat64(m.MessagesDelivered))
	require.Equal(t, 1.0, testutil.ToFloat64(m.MessagesDropped.WithLabelValues("validation")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Pushes.WithLabelValues("failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RatingsSubmitted))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Delivered()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "perfect_match_delivery_messages_total 1")
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("/matches/{userId}", "GET", 200, 20*time.Millisecond)
	m.ObserveRequest("/matches/{userId}", "GET", 404, time.Millisecond)
	m.ObserveRequest("/matches/{userId}", "GET", 200, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/matches/{userId}", "GET", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/matches/{userId}", "GET", "404")))
	require.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
}
