// Command pluginfield4 runs the event forwarder outside the host: it reads
// host notifications as JSON lines or over HTTP and forwards them to the
// collector API.
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
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aledsz/pluginfield4/internal/api"
	"github.com/aledsz/pluginfield4/internal/config"
	"github.com/aledsz/pluginfield4/internal/feed"
	"github.com/aledsz/pluginfield4/internal/logging"
	intOtel "github.com/aledsz/pluginfield4/internal/otel"
	"github.com/aledsz/pluginfield4/internal/plugin"
	"github.com/aledsz/pluginfield4/internal/server"
	"github.com/aledsz/pluginfield4/pkg/procon"
)

// BuildDate can be set at build time via ldflags.
var BuildDate = "unknown"

const ExtensionName = "pluginfield4"

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		printVersion(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, stdin io.Reader) error {
	if err := config.Load(opts.ConfigDir); err != nil {
		return err
	}
	applyOverrides(opts)

	sessionStart := time.Now()
	sessionID := uuid.NewString()

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}
	logFile, err := os.OpenFile(logging.LogFilePath(logsDir, ExtensionName, sessionStart), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	provider, otelFile, err := setupOTel(ctx, logsDir, sessionStart)
	if err != nil {
		return err
	}
	if otelFile != nil {
		defer otelFile.Close()
	}

	logLevel := config.GetString("logLevel")

	var extra []slog.Handler
	var graylogErr error
	if gc := config.GetGraylogConfig(); gc.Enabled {
		h, closer, err := logging.NewGraylogHandler(gc.Address, logLevel)
		if err != nil {
			graylogErr = err
		} else {
			defer closer.Close()
			extra = append(extra, h)
		}
	}

	logs := logging.NewSlogManager()
	logs.Setup(logFile, logLevel, provider.LoggerProvider(), extra...)
	logs.AddContext(func() []slog.Attr {
		return []slog.Attr{
			slog.String("session", sessionID),
			slog.Duration("uptime", time.Since(sessionStart).Round(time.Second)),
		}
	})
	if graylogErr != nil {
		logs.Logger().Warn("Graylog disabled", "error", graylogErr)
	}
	if used := config.ConfigFileUsed(); used != "" {
		logs.Logger().Info("Config loaded", "file", used)
	}

	logger := logging.NewDispatcherLogger(logs.Logger())

	apiCfg := config.GetAPIConfig()
	client := api.New(apiCfg.ServerURL, api.WithTimeout(apiCfg.Timeout))

	dopts, err := dispatchOptions(config.GetDispatchConfig(), strings.EqualFold(logLevel, "debug"))
	if err != nil {
		return err
	}

	host := procon.NewLocalHost(logger.With("component", "host"))
	p := plugin.New(host, client, logger, plugin.WithDispatcherOptions(dopts...))

	hostname, _ := os.Hostname()
	p.SetPluginVariable(plugin.APIKeyVariable, apiCfg.APIKey)
	p.OnPluginLoaded(hostname, "", ExtensionName+"/"+plugin.Version)

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := client.Healthcheck(checkCtx); err != nil {
		logger.Error("Collector not reachable", "url", client.BaseURL(), "error", err)
	} else {
		logger.Info("Collector reachable", "url", client.BaseURL())
	}
	cancel()

	if err := p.OnPluginEnable(); err != nil {
		return err
	}

	handle := func(n procon.Notification) error {
		if _, ok := plugin.Lookup(n.Event); !ok {
			return fmt.Errorf("%w: %s", procon.ErrUnknownEvent, n.Event)
		}
		if !host.Registered(n.Event) {
			return fmt.Errorf("%w: %s", procon.ErrNotRegistered, n.Event)
		}
		return p.Handle(n)
	}

	runErr := serve(ctx, handle, p, logger, stdin)

	if err := p.OnPluginDisable(); err != nil {
		logger.Error("Disable incomplete", "error", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := logs.Flush(shutdownCtx); err != nil {
		logger.Error("Log flush failed", "error", err)
	}
	if err := provider.Shutdown(shutdownCtx); err != nil {
		logger.Error("OTel shutdown failed", "error", err)
	}

	return runErr
}

func setupOTel(ctx context.Context, logsDir string, sessionStart time.Time) (*intOtel.Provider, *os.File, error) {
	oc := config.GetOTelConfig()
	cfg := intOtel.Config{
		Enabled:      oc.Enabled,
		ServiceName:  oc.ServiceName,
		Version:      plugin.Version,
		BatchTimeout: oc.BatchTimeout,
		Endpoint:     oc.Endpoint,
		Insecure:     oc.Insecure,
	}

	var file *os.File
	if oc.Enabled {
		path := filepath.Join(logsDir, fmt.Sprintf("%s.%s.otel.jsonl", ExtensionName, sessionStart.Format("20060102_150405")))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open OTel log file: %w", err)
		}
		file = f
		cfg.LogWriter = f
	}

	provider, err := intOtel.New(ctx, cfg)
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, nil, err
	}
	return provider, file, nil
}

// serve runs the configured inputs until they finish or ctx is done.
// Stdin is read in its own goroutine since a blocked read cannot be
// cancelled.
func serve(ctx context.Context, handle func(procon.Notification) error, p *plugin.Plugin, logger *logging.DispatcherLogger, stdin io.Reader) error {
	g, gctx := errgroup.WithContext(ctx)

	if hc := config.GetHTTPConfig(); hc.Enabled {
		srv := server.New(handle, logger.With("component", "server"), server.WithStatus(p.Enabled))
		g.Go(func() error {
			return srv.ListenAndServe(gctx, hc.Address)
		})
	}

	bc := config.GetBridgeConfig()
	f := feed.New(handle, logger.With("component", "feed"))

	switch bc.Input {
	case "":
	case "-":
		done := make(chan error, 1)
		go func() { done <- f.Read(gctx, stdin) }()
		g.Go(func() error {
			select {
			case err := <-done:
				return err
			case <-gctx.Done():
				return nil
			}
		})
	default:
		g.Go(func() error {
			if bc.Follow {
				return f.Follow(gctx, bc.Input)
			}
			file, err := os.Open(bc.Input)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer file.Close()
			return f.Read(gctx, file)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
