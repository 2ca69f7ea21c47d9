package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/dskvich/doc-reviewer/pkg/api"
	"github.com/dskvich/doc-reviewer/pkg/auth"
	"github.com/dskvich/doc-reviewer/pkg/logger"
	"github.com/dskvich/doc-reviewer/pkg/metrics"
	"github.com/dskvich/doc-reviewer/pkg/workers"
)

type Config struct {
	BackendURL         string        `env:"BACKEND_URL,required,notEmpty"`
	BackendFunctionKey string        `env:"BACKEND_FUNCTION_KEY"`
	Host               string        `env:"HOST"`
	Port               int           `env:"PORT" envDefault:"8080"`
	StaticDir          string        `env:"STATIC_DIR" envDefault:"dist"`
	AuthorizedUserIDs  []string      `env:"AUTHORIZED_USER_IDS" envSeparator:" "`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
}

func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	opts := *logger.DefaultOptions
	opts.Level = logger.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))

	workerGroup, err := setupWorkers(cfg)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers(cfg Config) (workers.Group, error) {
	backendURL, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	router, err := api.NewRouter(api.Config{
		BackendURL:    backendURL,
		FunctionKey:   cfg.BackendFunctionKey,
		StaticDir:     cfg.StaticDir,
		Authenticator: auth.NewAuthenticator(cfg.AuthorizedUserIDs),
		Metrics:       m,
		Gatherer:      reg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	slog.Info("gateway configured",
		"backend", backendURL.Host,
		"static_dir", cfg.StaticDir,
		"function_key", cfg.BackendFunctionKey != "",
	)

	var workerGroup workers.Group

	if worker, err := workers.NewHTTPServer(cfg.ListenAddr(), router, cfg.ShutdownTimeout); err == nil {
		workerGroup = append(workerGroup, worker)
	} else {
		return nil, err
	}

	return workerGroup, nil
}
