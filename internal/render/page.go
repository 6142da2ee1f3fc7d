package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

//go:embed templates/map.html
var templates embed.FS

var pageTemplate = template.Must(template.New("map.html").ParseFS(templates, "templates/map.html"))

// PageOptions controls the interactive parts of the page.
type PageOptions struct {
	Title string
	// Interactive enables the upload form and the live update socket.
	// Standalone pages written by `csvmap render` leave it off.
	Interactive bool
	Geocoder    bool
	ImportPath  string
	SocketPath  string
}

// DefaultPageOptions are the options used by the server.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Title:       "CSV Map Viewer",
		Interactive: true,
		Geocoder:    true,
		ImportPath:  "/api/import",
		SocketPath:  "/ws",
	}
}

type pageData struct {
	PageOptions
	ViewJSON template.JS
}

// marshalTemplateJS encodes value as JSON tagged safe for a script block.
func marshalTemplateJS(value any) (template.JS, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return template.JS(""), err
	}
	return template.JS(payload), nil
}

// Page writes the map page for view to w. The page is rendered into a
// buffer first so a template error never leaves a half-written response.
func Page(w io.Writer, view View, opts PageOptions) error {
	viewJSON, err := marshalTemplateJS(view)
	if err != nil {
		return err
	}
	if opts.Title == "" {
		opts.Title = "CSV Map Viewer"
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{PageOptions: opts, ViewJSON: viewJSON}); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// WriteFile renders a standalone page to path, creating parent
// directories as needed.
func WriteFile(path string, view View, opts PageOptions) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Page(f, view, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
