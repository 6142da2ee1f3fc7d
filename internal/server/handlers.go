package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OCAP2/csvmap/internal/geo"
	"github.com/OCAP2/csvmap/internal/geocode"
	"github.com/OCAP2/csvmap/internal/render"
	"github.com/OCAP2/csvmap/internal/search"
	"github.com/OCAP2/csvmap/internal/storage"
)

type errorResponse struct {
	Error  string         `json:"error"`
	Kind   string         `json:"kind,omitempty"`
	Status *render.Status `json:"status,omitempty"`
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, errorResponse{Error: msg})
}

func (s *Server) handlePage(c *gin.Context) {
	var buf bytes.Buffer
	if err := render.Page(&buf, s.deps.Importer.View(), s.deps.Page); err != nil {
		s.log.ErrorContext(c.Request.Context(), "Failed to render page", "error", err)
		abort(c, http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleHealthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"imports": s.deps.States.Imports(),
	})
}

func (s *Server) handleImport(c *gin.Context) {
	if limit := s.deps.Server.MaxUploadBytes; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			abort(c, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		abort(c, http.StatusBadRequest, "missing multipart field \"file\"")
		return
	}
	defer file.Close()

	out, err := s.deps.Importer.Import(c.Request.Context(), header.Filename, file)
	if err != nil {
		status := out.View.Status
		c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:  status.Message,
			Kind:   string(out.Kind),
			Status: &status,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"view": out.View})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Importer.View())
}

func (s *Server) handleSearch(c *gin.Context) {
	markers := s.deps.States.Markers()
	if c.Query("reset") != "" {
		c.JSON(http.StatusOK, search.Reset(markers))
		return
	}

	zoom := s.deps.Map.FocusZoom
	if z := c.Query("zoom"); z != "" {
		n, err := strconv.Atoi(z)
		if err != nil {
			abort(c, http.StatusBadRequest, "invalid zoom")
			return
		}
		zoom = n
	}
	c.JSON(http.StatusOK, search.Filter(markers, c.Query("q"), zoom))
}

func (s *Server) handleGeoJSON(c *gin.Context) {
	fc, err := geo.FeatureCollection(s.deps.Importer.Current())
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "Failed to build GeoJSON", "error", err)
		abort(c, http.StatusInternalServerError, "failed to build GeoJSON")
		return
	}
	data, err := json.Marshal(fc)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "Failed to encode GeoJSON", "error", err)
		abort(c, http.StatusInternalServerError, "failed to encode GeoJSON")
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

func (s *Server) handleListImports(c *gin.Context) {
	if s.deps.Archive == nil {
		abort(c, http.StatusNotFound, "import archive disabled")
		return
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			abort(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	list, err := s.deps.Archive.ListImports(limit)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "Failed to list imports", "error", err)
		abort(c, http.StatusInternalServerError, "failed to list imports")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetImport(c *gin.Context) {
	if s.deps.Archive == nil {
		abort(c, http.StatusNotFound, "import archive disabled")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abort(c, http.StatusBadRequest, "invalid import id")
		return
	}

	rec, err := s.deps.Archive.GetImport(uint(id))
	if errors.Is(err, storage.ErrNotFound) {
		abort(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "Failed to load import", "id", id, "error", err)
		abort(c, http.StatusInternalServerError, "failed to load import")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleGeocode(c *gin.Context) {
	if s.deps.Geocoder == nil || !s.deps.Geocoder.Enabled() {
		abort(c, http.StatusNotFound, geocode.ErrDisabled.Error())
		return
	}

	results, err := s.deps.Geocoder.Search(c.Request.Context(), c.Query("q"))
	switch {
	case errors.Is(err, geocode.ErrEmptyQuery):
		abort(c, http.StatusBadRequest, err.Error())
	case err != nil:
		s.log.WarnContext(c.Request.Context(), "Geocoder lookup failed", "error", err)
		abort(c, http.StatusBadGateway, "geocoder unavailable")
	default:
		c.JSON(http.StatusOK, results)
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
