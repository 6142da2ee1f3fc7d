package monitor

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/OCAP2/csvmap/internal/cache"
	"github.com/OCAP2/csvmap/internal/influx"
)

// PointWriter receives the periodic status point.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	States     *cache.StateCache
	Clients    func() int // connected websocket clients, nil when there is no hub
	Points     PointWriter
	Logger     *slog.Logger
	Interval   time.Duration
	StatusFile string // rewritten on every tick when set
}

// Status is one snapshot of the running process.
type Status struct {
	Time     time.Time `json:"time"`
	Source   string    `json:"source,omitempty"`
	Accepted int       `json:"accepted"`
	Total    int       `json:"total"`
	Rejected int       `json:"rejected"`
	Groups   int       `json:"groups"`
	Clients  int       `json:"clients"`
	Imports  int       `json:"imports"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = time.Minute
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current program status
func (s *Service) GetStatus() Status {
	st := Status{Time: time.Now().UTC(), Imports: s.deps.States.Imports()}
	if state := s.deps.States.Get(); state != nil {
		st.Source = state.Source
		st.Accepted = state.AcceptedCount
		st.Total = state.TotalCount
		st.Rejected = state.RejectedCount()
		st.Groups = state.Groups.Len()
	}
	if s.deps.Clients != nil {
		st.Clients = s.deps.Clients()
	}
	return st
}

// Tick logs one status snapshot and writes it to the point writer and the
// status file.
func (s *Service) Tick() Status {
	st := s.GetStatus()

	s.deps.Logger.Info("Status",
		"source", st.Source,
		"accepted", st.Accepted,
		"total", st.Total,
		"groups", st.Groups,
		"clients", st.Clients,
		"imports", st.Imports)

	if s.deps.Points != nil {
		point := influx.StatusPoint(st.Accepted, st.Total, st.Groups, st.Clients, st.Imports, st.Time)
		if err := s.deps.Points.WritePoint(point); err != nil {
			s.deps.Logger.Error("Error writing status point", "error", err)
		}
	}

	if s.deps.StatusFile != "" {
		if err := writeStatusFile(s.deps.StatusFile, st); err != nil {
			s.deps.Logger.Error("Error writing status file", "error", err)
		}
	}
	return st
}

func writeStatusFile(path string, st Status) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("Starting status monitor goroutine", "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for its goroutine to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
