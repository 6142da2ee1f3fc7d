// Package importer runs the file import pipeline: parse, normalize, swap
// the shared map state, then archive and record metrics.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/OCAP2/csvmap/internal/cache"
	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/ingest"
	"github.com/OCAP2/csvmap/internal/normalize"
	"github.com/OCAP2/csvmap/internal/render"
	"github.com/OCAP2/csvmap/pkg/core"
)

// Indicator is notified around every import so a loading indicator can be
// painted before the work starts and removed once its result is known.
type Indicator interface {
	BeginLoading(ctx context.Context, b Begin)
	EndLoading(ctx context.Context, o *Outcome)
}

// Archive persists successful imports.
type Archive interface {
	SaveImport(rec *core.ImportRecord) error
}

// Recorder receives every finished import for metrics.
type Recorder interface {
	RecordImport(ctx context.Context, o *Outcome)
}

// Begin describes an import that is about to start.
type Begin struct {
	ID        string
	Source    string
	StartedAt time.Time
}

// Outcome is the result of one import. State is set once normalization
// ran, including when it accepted nothing.
type Outcome struct {
	ID       string
	Source   string
	State    *core.MapState
	View     render.View
	Err      error
	Kind     render.ErrorKind
	Duration time.Duration
	// RowErrors holds every parser error of a ParseFailure.
	RowErrors []ingest.RowError
	// Columns maps logical field names to the headers recognized for them.
	Columns map[string][]string
}

// OK reports whether the import installed a new state.
func (o *Outcome) OK() bool {
	return o.Err == nil
}

// Service owns the import pipeline. Imports are serialized so a state is
// always replaced by exactly one successor.
type Service struct {
	mu sync.Mutex

	states     *cache.StateCache
	normalizer *normalize.Normalizer
	mapCfg     config.MapConfig
	indicators []Indicator
	recorders  []Recorder
	archive    Archive
	log        *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIndicator adds a loading indicator.
func WithIndicator(i Indicator) Option {
	return func(s *Service) { s.indicators = append(s.indicators, i) }
}

// WithRecorder adds a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorders = append(s.recorders, r) }
}

// WithArchive sets where successful imports are persisted.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates an import service writing into states.
func NewService(states *cache.StateCache, mapCfg config.MapConfig, opts ...Option) *Service {
	s := &Service{
		states:     states,
		normalizer: normalize.New(normalize.PaletteByName(mapCfg.Palette)),
		mapCfg:     mapCfg,
		log:        slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View returns the view of the current state, or the welcome view.
func (s *Service) View() render.View {
	return render.BuildView(s.states.Get(), s.mapCfg)
}

// Current returns the current state, nil when none.
func (s *Service) Current() *core.MapState {
	return s.states.Get()
}

// ImportFile imports the file at path.
func (s *Service) ImportFile(ctx context.Context, path string) (*Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return s.Import(ctx, filepath.Base(path), f)
}

// Import parses r as the file called name and, on success, replaces the
// current state. The returned error equals Outcome.Err.
//
// Parse failures and header-only files leave the current state untouched.
// Once parsing succeeded the current state is cleared before
// normalization, so a file without any valid coordinate leaves the map
// empty.
func (s *Service) Import(ctx context.Context, name string, r io.Reader) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	begin := Begin{ID: uuid.NewString(), Source: name, StartedAt: s.now()}
	log := s.log.With("import", begin.ID, "source", name)
	log.InfoContext(ctx, "Import started")
	for _, ind := range s.indicators {
		ind.BeginLoading(ctx, begin)
	}

	out := s.run(ctx, begin, r)
	out.Duration = s.now().Sub(begin.StartedAt)

	if out.Err != nil {
		out.Kind = render.Classify(out.Err)
		out.View = render.BuildView(s.states.Get(), s.mapCfg).WithStatus(render.ErrorStatus(out.Err))
		log.WarnContext(ctx, "Import failed", "kind", out.Kind, "error", out.Err)
	} else {
		out.View = render.BuildView(out.State, s.mapCfg)
		log.InfoContext(ctx, "Import finished",
			"accepted", out.State.AcceptedCount,
			"total", out.State.TotalCount,
			"groups", out.State.Groups.Len(),
			"duration", out.Duration)
	}

	for _, rec := range s.recorders {
		rec.RecordImport(ctx, out)
	}
	for _, ind := range s.indicators {
		ind.EndLoading(ctx, out)
	}
	return out, out.Err
}

func (s *Service) run(ctx context.Context, begin Begin, r io.Reader) *Outcome {
	out := &Outcome{ID: begin.ID, Source: begin.Source}
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	res, err := ingest.Parse(begin.Source, r)
	if err != nil {
		out.Err = err
		return out
	}
	out.Columns = normalize.Matches(res.Headers)
	if err := res.Err(); err != nil {
		var pe *ingest.ParseError
		if errors.As(err, &pe) {
			out.RowErrors = pe.Errors
		}
		out.Err = err
		return out
	}

	s.states.Reset()

	state, err := s.normalizer.Normalize(begin.Source, res.Records)
	state.ImportedAt = begin.StartedAt.UTC()
	out.State = state
	if err != nil {
		out.Err = err
		return out
	}
	s.states.Replace(state)

	if s.archive != nil {
		if err := s.archive.SaveImport(RecordOf(state)); err != nil {
			s.log.ErrorContext(ctx, "Failed to archive import", "import", begin.ID, "error", err)
		}
	}
	return out
}
