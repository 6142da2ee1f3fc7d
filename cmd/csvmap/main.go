package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/OCAP2/csvmap/internal/cache"
	"github.com/OCAP2/csvmap/internal/config"
	"github.com/OCAP2/csvmap/internal/geocode"
	"github.com/OCAP2/csvmap/internal/hub"
	"github.com/OCAP2/csvmap/internal/importer"
	"github.com/OCAP2/csvmap/internal/influx"
	"github.com/OCAP2/csvmap/internal/logging"
	"github.com/OCAP2/csvmap/internal/monitor"
	intOtel "github.com/OCAP2/csvmap/internal/otel"
	"github.com/OCAP2/csvmap/internal/render"
	"github.com/OCAP2/csvmap/internal/server"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "csvmap"
)

// app holds the process-wide services shared by the subcommands.
type app struct {
	configDir   string
	start       time.Time
	slogManager *logging.SlogManager
	logger      *slog.Logger
	logFile     *os.File
	states      *cache.StateCache
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// newApp loads the configuration from configDir and sets up logging. With
// toFile false records go to the console, as the one-shot commands want.
func newApp(configDir string, toFile bool) *app {
	a := &app{
		configDir:   configDir,
		start:       time.Now(),
		slogManager: logging.NewSlogManager(),
		states:      cache.NewStateCache(),
	}

	configErr := config.Load(configDir)

	var sink io.Writer
	if toFile {
		f, err := logging.OpenLogFile(viper.GetString("logsDir"), AppName, a.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file, logging to console: %v\n", err)
		} else {
			a.logFile = f
			sink = f
		}
	}

	var extra []slog.Handler
	if viper.GetBool("graylog.enabled") {
		h, err := a.slogManager.EnableGraylog(viper.GetString("graylog.address"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Graylog: %v\n", err)
		} else {
			extra = append(extra, h)
		}
	}

	a.slogManager.Setup(sink, viper.GetString("logLevel"), extra...)
	a.slogManager.WithContext(func() []slog.Attr {
		if s := a.states.Get(); s != nil {
			return []slog.Attr{slog.String("source", s.Source)}
		}
		return nil
	})
	a.logger = a.slogManager.Logger()

	if configErr != nil {
		a.logger.Warn("Failed to load config, using defaults!", "error", configErr)
	} else {
		a.logger.Info("Loaded config", "dir", configDir)
	}
	return a
}

// logWriter is where the zerolog managers and the metric exporter write.
// nil means console.
func (a *app) logWriter() io.Writer {
	if a.logFile == nil {
		return nil
	}
	return a.logFile
}

func (a *app) zerolog(component string) zerolog.Logger {
	return logging.NewZerolog(a.logWriter(), viper.GetString("logLevel"), component)
}

func (a *app) close() {
	_ = a.slogManager.Close(context.Background())
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// serve wires every service and runs the HTTP server until ctx ends.
func (a *app) serve(ctx context.Context) error {
	log := a.logger
	log.Info("Starting up...", "version", CurrentVersion, "build", BuildDate)

	backend, err := createStorageBackend(config.GetStorageConfig(), log, a.zerolog)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer backend.Close()

	otelCfg := config.GetOTelConfig()
	var metricWriter io.Writer = os.Stdout
	if w := a.logWriter(); w != nil {
		metricWriter = w
	}
	provider, err := intOtel.New(intOtel.Config{
		Enabled:        otelCfg.Enabled,
		ServiceName:    otelCfg.ServiceName,
		ExportInterval: otelCfg.ExportInterval,
		MetricWriter:   metricWriter,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OTel provider: %w", err)
	}
	defer provider.Shutdown(context.Background())

	metrics, err := importer.NewMetrics(provider.Meter(AppName))
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	h := hub.New(log)
	opts := []importer.Option{
		importer.WithLogger(log),
		importer.WithArchive(backend),
		importer.WithIndicator(h),
		importer.WithRecorder(metrics),
	}

	var points monitor.PointWriter
	influxManager := influx.NewManager(
		config.GetInfluxConfig(),
		a.zerolog("influx"),
		filepath.Join(viper.GetString("logsDir"), fmt.Sprintf("%s_%s.influx.gz", AppName, a.start.Format("20060102_150405"))),
	)
	switch err := influxManager.Connect(ctx); {
	case errors.Is(err, influx.ErrDisabled):
	case err != nil:
		log.Error("Failed to set up InfluxDB", "error", err)
	default:
		defer influxManager.Close()
		opts = append(opts, importer.WithRecorder(influxManager))
		points = influxManager
	}

	mapCfg := config.GetMapConfig()
	svc := importer.NewService(a.states, mapCfg, opts...)

	mon := monitor.NewService(monitor.Dependencies{
		States:   a.states,
		Clients:  h.Clients,
		Points:   points,
		Logger:   log,
		Interval: config.GetDuration("monitor.interval"),
	})
	if err := mon.Start(); err != nil {
		return err
	}
	defer mon.Stop()

	srv := server.New(server.Dependencies{
		Importer: svc,
		States:   a.states,
		Archive:  backend,
		Hub:      h,
		Geocoder: geocode.New(config.GetGeocoderConfig()),
		Server:   config.GetServerConfig(),
		Map:      mapCfg,
		Page:     render.DefaultPageOptions(),
		Logger:   log,
	})
	return srv.Run(ctx)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
