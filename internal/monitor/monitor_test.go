package monitor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/csvmap/internal/cache"
	"github.com/OCAP2/csvmap/internal/influx"
	"github.com/OCAP2/csvmap/pkg/core"
)

type pointLog struct {
	mu     sync.Mutex
	points []*influxdb2_write.Point
	err    error
}

func (p *pointLog) WritePoint(point *influxdb2_write.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.points = append(p.points, point)
	return p.err
}

func (p *pointLog) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.points)
}

func loadedStates() *cache.StateCache {
	states := cache.NewStateCache()
	state := core.NewMapState("cities.csv")
	for i, g := range []string{"A", "B", "A"} {
		m := core.MarkerDescriptor{Index: i, Name: g, Latitude: 1, Longitude: 2, Group: g}
		state.Accepted = append(state.Accepted, m)
		state.Groups.Add(m)
		state.Bounds = append(state.Bounds, m.LatLng())
	}
	state.AcceptedCount = 3
	state.TotalCount = 5
	states.Replace(state)
	return states
}

func TestGetStatus_Empty(t *testing.T) {
	s := NewService(Dependencies{States: cache.NewStateCache()})
	st := s.GetStatus()
	assert.Empty(t, st.Source)
	assert.Zero(t, st.Accepted)
	assert.Zero(t, st.Clients)
}

func TestGetStatus_Loaded(t *testing.T) {
	s := NewService(Dependencies{States: loadedStates(), Clients: func() int { return 4 }})
	st := s.GetStatus()
	assert.Equal(t, "cities.csv", st.Source)
	assert.Equal(t, 3, st.Accepted)
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 2, st.Rejected)
	assert.Equal(t, 2, st.Groups)
	assert.Equal(t, 4, st.Clients)
	assert.Equal(t, 1, st.Imports)
}

func TestTick_WritesPointAndStatusFile(t *testing.T) {
	points := &pointLog{}
	path := filepath.Join(t.TempDir(), "status.json")
	s := NewService(Dependencies{States: loadedStates(), Points: points, StatusFile: path})

	s.Tick()

	require.Equal(t, 1, points.len())
	assert.Equal(t, influx.MeasurementStatus, points.points[0].Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.Unmarshal(data, &st))
	assert.Equal(t, 3, st.Accepted)
}

func TestTick_PointErrorIsLogged(t *testing.T) {
	points := &pointLog{err: errors.New("influx down")}
	s := NewService(Dependencies{States: loadedStates(), Points: points})
	assert.NotPanics(t, func() { s.Tick() })
}

func TestStartStop(t *testing.T) {
	points := &pointLog{}
	s := NewService(Dependencies{States: loadedStates(), Points: points, Interval: 10 * time.Millisecond})

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool { return points.len() >= 2 }, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}
