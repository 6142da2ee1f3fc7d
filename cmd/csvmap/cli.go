package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/importer"
	"github.com/OCAP2/csvmap/internal/normalize"
	"github.com/OCAP2/csvmap/internal/render"
)

const usage = `Usage:
  csvmap [serve] [-config dir]          start the map server
  csvmap render <file> [-o out.html]    write a standalone HTML map
  csvmap check <file>                   print what an import would load
`

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = strings.ToLower(args[0]), args[1:]
	}

	switch cmd {
	case "serve":
		return runServe(args, stderr)
	case "render":
		return runRender(args, stdout, stderr)
	case "check":
		return runCheck(args, stdout, stderr)
	case "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("config", ".", "directory containing "+config.ConfigFileName)
	return fs, configDir
}

// parseWithFile parses flags that may come before or after the single
// positional file argument.
func parseWithFile(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return "", fmt.Errorf("missing input file")
	}
	file := rest[0]
	if err := fs.Parse(rest[1:]); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return file, nil
}

func runServe(args []string, stderr io.Writer) int {
	fs, configDir := newFlagSet("serve", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	a := newApp(*configDir, true)
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := a.serve(ctx); err != nil {
		a.logger.Error("Server stopped", "error", err)
		fmt.Fprintln(stderr, err)
		return 1
	}
	a.logger.Info("Server stopped")
	return 0
}

// importOnce runs the import pipeline on path without archive or hub.
func importOnce(a *app, path string) *importer.Outcome {
	svc := importer.NewService(a.states, config.GetMapConfig(), importer.WithLogger(a.logger))
	out, err := svc.ImportFile(context.Background(), path)
	if out == nil {
		out = &importer.Outcome{Source: filepath.Base(path), Err: err, Kind: render.KindRead}
		out.View = svc.View().WithStatus(render.ErrorStatus(err))
	}
	return out
}

func runRender(args []string, stdout, stderr io.Writer) int {
	fs, configDir := newFlagSet("render", stderr)
	output := fs.String("o", "", "output HTML file (default <file>.html)")
	title := fs.String("title", "", "page title")
	file, err := parseWithFile(fs, args)
	if err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 2
	}

	a := newApp(*configDir, true)
	defer a.close()

	out := importOnce(a, file)
	fmt.Fprintln(stdout, out.View.Status.Message)
	if !out.OK() {
		return 1
	}

	path := *output
	if path == "" {
		path = strings.TrimSuffix(file, filepath.Ext(file)) + ".html"
	}
	opts := render.PageOptions{Title: *title}
	if err := render.WriteFile(path, out.View, opts); err != nil {
		a.logger.Error("Failed to write page", "path", path, "error", err)
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	a.logger.Info("Wrote map page", "path", path)
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return 0
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs, configDir := newFlagSet("check", stderr)
	file, err := parseWithFile(fs, args)
	if err != nil {
		fmt.Fprintf(stderr, "check: %v\n", err)
		return 2
	}

	a := newApp(*configDir, true)
	defer a.close()

	out := importOnce(a, file)
	fmt.Fprintln(stdout, out.View.Status.Message)
	for _, re := range out.RowErrors {
		fmt.Fprintf(stdout, "  row %d: %s\n", re.Row, re.Message)
	}
	printColumns(stdout, out.Columns)
	if !out.OK() {
		return 1
	}

	for _, g := range out.View.Layers {
		fmt.Fprintf(stdout, "  %s: %d (%s)\n", g.Name, g.Count, g.Color)
	}
	if b := out.View.Bounds; b != nil {
		fmt.Fprintf(stdout, "Extent: %.1f km\n", b.ExtentKm)
	}
	fmt.Fprintf(stdout, "Rejected: %d of %d records\n", out.State.RejectedCount(), out.State.TotalCount)
	return 0
}

// printColumns lists the recognized headers per logical field.
func printColumns(w io.Writer, columns map[string][]string) {
	if len(columns) == 0 {
		return
	}
	fmt.Fprintln(w, "Columns:")
	for _, f := range normalize.Fields {
		if headers, ok := columns[f.Name]; ok {
			fmt.Fprintf(w, "  %s: %s\n", f.Name, strings.Join(headers, ", "))
		}
	}
}
