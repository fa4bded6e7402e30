package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	m := New()
	m.ConnectedPlayers.Set(4)
	m.Events.WithLabelValues("PuckTouch").Inc()
	m.Goals.WithLabelValues("Red").Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "hqmgo_connected_players 4")
	assert.Contains(t, body, `hqmgo_sim_events_total{kind="PuckTouch"} 1`)
	assert.Contains(t, body, `hqmgo_goals_total{team="Red"} 1`)
}
