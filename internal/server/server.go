// Package server exposes the map page, the import endpoint and the JSON
// API over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OCAP2/csvmap/internal/cache"
	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/geocode"
	"github.com/OCAP2/csvmap/internal/hub"
	"github.com/OCAP2/csvmap/internal/importer"
	"github.com/OCAP2/csvmap/internal/render"
	"github.com/OCAP2/csvmap/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Dependencies holds everything the HTTP handlers need. Archive, Hub and
// Geocoder are optional.
type Dependencies struct {
	Importer *importer.Service
	States   *cache.StateCache
	Archive  storage.Backend
	Hub      *hub.Hub
	Geocoder *geocode.Client
	Server   config.ServerConfig
	Map      config.MapConfig
	Page     render.PageOptions
	Logger   *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	deps   Dependencies
	engine *gin.Engine
	http   *http.Server
	log    *slog.Logger
}

// New builds the router.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Page.ImportPath == "" {
		deps.Page = render.DefaultPageOptions()
	}
	deps.Page.Geocoder = deps.Geocoder != nil && deps.Geocoder.Enabled()
	if deps.Hub == nil {
		deps.Page.SocketPath = ""
	}

	switch deps.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(deps.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{deps: deps, log: deps.Logger}
	s.engine = s.routes()
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.log))

	r.GET("/", s.handlePage)
	r.GET("/healthcheck", s.handleHealthcheck)
	if s.deps.Hub != nil {
		r.GET("/ws", gin.WrapH(s.deps.Hub))
	}

	api := r.Group("/api")
	{
		api.POST("/import", s.handleImport)
		api.GET("/state", s.handleState)
		api.GET("/search", s.handleSearch)
		api.GET("/markers.geojson", s.handleGeoJSON)
		api.GET("/imports", s.handleListImports)
		api.GET("/imports/:id", s.handleGetImport)
		api.GET("/geocode", s.handleGeocode)
		api.GET("/geocode/search", s.handleGeocode)
	}

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.deps.Server.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "address", s.deps.Server.Address)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info("Shutting down HTTP server")
	if s.deps.Hub != nil {
		_ = s.deps.Hub.Close()
	}
	return s.http.Shutdown(shutdownCtx)
}
