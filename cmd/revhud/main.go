package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/revhud/overlay/internal/config"
	"github.com/revhud/overlay/internal/feed"
	"github.com/revhud/overlay/internal/influx"
	"github.com/revhud/overlay/internal/logging"
	"github.com/revhud/overlay/internal/overlay"
	"github.com/revhud/overlay/internal/replay"
	"github.com/revhud/overlay/internal/stats"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "revhud"
)

var (
	// LogManager handles all slog-based logging
	LogManager *logging.Manager

	SessionStartTime time.Time = time.Now()
)

func usage() {
	fmt.Fprintf(os.Stderr, `%s %s (built %s)

Usage:
  %s run    [-config DIR] [-dump FILE]       start the overlay daemon
  %s replay [-config DIR] -in FILE [-out FILE]  replay a recorded feed log
`, AppName, CurrentVersion, BuildDate, AppName, AppName)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(os.Args[2:])
	case "replay":
		err = replayCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// setup loads config and wires the logging stack: stdout, the session log
// file, and Graylog when enabled. Returns the log file for closing.
func setup(configDir string) (*os.File, error) {
	LogManager = logging.NewManager()
	LogManager.Setup(nil, viper.GetString("logLevel"), nil)

	if err := config.Load(configDir); err != nil {
		LogManager.Logger().Warn("Failed to load config, using defaults!", "error", err)
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs dir: %w", err)
		}
	}

	logPath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	var gelfWriter io.Writer
	if viper.GetBool("graylog.enabled") {
		gelfWriter, err = logging.NewGelfWriter(viper.GetString("graylog.address"))
		if err != nil {
			LogManager.Logger().Warn("Failed to connect to Graylog, continuing without it", "error", err)
			gelfWriter = nil
		}
	}

	LogManager.Setup(logFile, viper.GetString("logLevel"), gelfWriter)
	LogManager.Logger().Info("Session started",
		"version", CurrentVersion,
		"buildDate", BuildDate,
		"logFile", logPath,
	)
	return logFile, nil
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configDir := fs.String("config", ".", "directory containing revhud.cfg.json")
	dumpPath := fs.String("dump", "", "append each render model as a JSON line to this file (debugging)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logFile, err := setup(*configDir)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := LogManager.Logger()

	oc := config.GetOverlayConfig()
	if !oc.Enabled {
		logger.Info("Overlay disabled in config, nothing to do")
		return nil
	}

	zlog := zerolog.New(os.Stdout).With().Timestamp().Str("app", AppName).Logger()

	sc := config.GetStorageConfig()
	store, err := stats.NewStore(sc, zlog)
	if err != nil {
		return fmt.Errorf("failed to open stats store: %w", err)
	}
	defer func() { _ = store.Close() }()

	refresher := stats.NewRefresher(store, sc.StatsKey, oc.StatsRefreshTicks)
	ctrl, err := overlay.NewController(config.GetVehicleConfig(), oc, refresher)
	if err != nil {
		return fmt.Errorf("failed to build overlay controller: %w", err)
	}

	fc := config.GetFeedConfig()
	source, err := feed.Dial(fc.URL, fc.Secret, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to vehicle-state stream: %w", err)
	}
	defer func() { _ = source.Close() }()

	pub := influx.NewPublisher(zlog)
	if viper.GetBool("influx.enabled") {
		if err := pub.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, stats publishing disabled", "error", err)
		}
		defer pub.Close()
	}
	publishEvery := viper.GetInt("influx.flushSeconds") * oc.TickRate

	var dump io.WriteCloser
	if *dumpPath != "" {
		dump, err = os.OpenFile(*dumpPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open dump file: %w", err)
		}
		defer func() { _ = dump.Close() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Overlay running",
		"tickRate", oc.TickRate,
		"feed", fc.URL,
		"store", sc.Type,
	)

	sink := newModelSink(dump, logger)
	ticker := time.NewTicker(time.Second / time.Duration(oc.TickRate))
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down", "ticks", ticks)
			return nil
		case <-ticker.C:
			ticks++
			model, ok := tick(ctrl, source)
			if ok {
				sink.Emit(model)
			}
			if pub.IsValid && publishEvery > 0 && ticks%publishEvery == 0 {
				pub.PublishStats(sc.StatsKey, refresher.Current())
			}
		}
	}
}

func replayCmd(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	configDir := fs.String("config", ".", "directory containing revhud.cfg.json")
	inPath := fs.String("in", "", "recorded feed log (JSON lines, .gz accepted)")
	outPath := fs.String("out", "", "write render models here as JSON lines (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return fmt.Errorf("replay: -in is required")
	}

	logFile, err := setup(*configDir)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := LogManager.Logger()

	oc := config.GetOverlayConfig()
	sc := config.GetStorageConfig()
	store, err := stats.NewStore(sc, zerolog.Nop())
	if err != nil {
		return fmt.Errorf("failed to open stats store: %w", err)
	}
	defer func() { _ = store.Close() }()

	refresher := stats.NewRefresher(store, sc.StatsKey, oc.StatsRefreshTicks)
	ctrl, err := overlay.NewController(config.GetVehicleConfig(), oc, refresher)
	if err != nil {
		return fmt.Errorf("failed to build overlay controller: %w", err)
	}

	in, err := replay.Open(*inPath)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	runner := replay.NewRunner(ctrl, logger)
	n, err := runner.Run(in, out)
	if err != nil {
		return fmt.Errorf("replay of %s failed: %w", filepath.Base(*inPath), err)
	}
	logger.Info("Replay finished", "file", *inPath, "ticks", n)
	return nil
}
