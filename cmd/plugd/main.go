package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"plugd/internal/config"
	"plugd/internal/httpapi"
	"plugd/internal/watcher"
	"plugd/pkg/acplug"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("PLUGD_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultSocket := acplug.DefaultSocket
	if v := os.Getenv("PLUGD_SOCKET"); v != "" {
		defaultSocket = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	socket := flag.String("socket", defaultSocket, "Path of acpid's event socket")
	batPrimary := flag.String("bat-primary", acplug.DefaultPrimaryStatus, "Primary sysfs battery status attribute")
	batSecondary := flag.String("bat-secondary", acplug.DefaultSecondaryStatus, "Fallback sysfs battery status attribute")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	corsEnabled := flag.Bool("cors-enabled", false, "Enable CORS on the HTTP API")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins")
	cfgPath := flag.String("config", "", "Optional config file (.yaml/.json/.toml); explicit flags win")
	flag.Parse()

	// Config file fills in whatever was not set on the command line.
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			errLogger := zerolog.New(os.Stderr)
			errLogger.Fatal().Err(err).Str("path", *cfgPath).Msg("failed to load config")
		}
		set := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["addr"] && cfg.Addr != "" {
			*addr = cfg.Addr
		}
		if !set["socket"] && cfg.Socket != "" {
			*socket = cfg.Socket
		}
		if !set["bat-primary"] && cfg.BatPrimary != "" {
			*batPrimary = cfg.BatPrimary
		}
		if !set["bat-secondary"] && cfg.BatSecondary != "" {
			*batSecondary = cfg.BatSecondary
		}
		if !set["log-level"] && cfg.LogLevel != "" {
			*logLevel = cfg.LogLevel
		}
		if !set["cors-enabled"] && cfg.CORSEnabled {
			*corsEnabled = true
		}
		if !set["cors-origins"] && len(cfg.CORSOrigins) > 0 {
			*corsOrigins = strings.Join(cfg.CORSOrigins, ",")
		}
	}

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger)
	var origins []string
	if *corsOrigins != "" {
		origins = strings.Split(*corsOrigins, ",")
	}
	httpapi.SetCORSOptions(*corsEnabled, origins)

	w := watcher.New(watcher.Config{
		Dial: func(ctx context.Context) (watcher.Source, error) {
			s, err := acplug.ConnectConfig(ctx, acplug.DialConfig{
				Socket:          *socket,
				PrimaryStatus:   *batPrimary,
				SecondaryStatus: *batSecondary,
			})
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Logger: &logger,
	})
	go func() {
		if err := w.Run(baseCtx); err != nil && baseCtx.Err() == nil {
			logger.Fatal().Err(err).Msg("watcher stopped")
		}
	}()

	srv := &http.Server{Addr: *addr, Handler: httpapi.NewMux(w)}
	go func() {
		logger.Info().Str("addr", *addr).Str("socket", *socket).Msg("plugd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel() // ends the watcher and any attached event feeds
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
