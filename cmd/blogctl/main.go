package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/cli"
	"github.com/bekizod/Blog-Post/internal/config"
	"github.com/bekizod/Blog-Post/internal/consul"
	"github.com/bekizod/Blog-Post/internal/kafka"
	"github.com/bekizod/Blog-Post/internal/logger"
	"github.com/bekizod/Blog-Post/internal/notify"
	"github.com/bekizod/Blog-Post/internal/session"
	"github.com/bekizod/Blog-Post/internal/store"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("blogctl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	configPath := flags.StringP("config", "c", "", "path to blogctl.yml")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	// Logs go to stderr so they never mix with rendered output
	log := logger.Build(os.Stderr, cfg.LogLevel, cfg.LogFormat, logger.FormatText)
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	defer cleanup()

	app := cli.New(s, os.Stdout, os.Stdin, log)
	if err := app.Run(ctx, flags.Args()); err != nil {
		var verr *cli.ValidationError
		switch {
		case errors.As(err, &verr):
			fmt.Fprintln(os.Stderr, "Please fix the following:")
			for _, field := range slices.Sorted(maps.Keys(verr.Fields)) {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, verr.Fields[field])
			}
		case errors.Is(err, cli.ErrUsage):
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 2
		default:
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// buildStore wires the API client, session backend and notification sinks
func buildStore(ctx context.Context, cfg *config.Client, log *slog.Logger) (*store.Store, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	baseURL, err := resolveBaseURL(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}
	client, err := api.New(baseURL, api.WithTimeout(cfg.HTTPTimeout), api.WithLogger(log))
	if err != nil {
		return nil, cleanup, err
	}
	log.Debug("API client ready", "base_url", client.BaseURL())

	if cfg.PushgatewayURL != "" {
		closers = append(closers, func() { pushMetrics(cfg, log) })
	}

	var backend session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		backend = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		backend = session.NewFileStore(cfg.SessionFile)
	}

	notifiers := []notify.Notifier{cli.Toasts(os.Stdout), notify.NewLogNotifier(log)}
	if cfg.KafkaBrokers != "" {
		kcfg, err := kafka.NewConfig(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic)
		if err != nil {
			return nil, cleanup, err
		}
		producer, err := kafka.NewProducer(kcfg, log)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() {
			if remaining := producer.Flush(5000); remaining > 0 {
				log.Warn("Notifications not delivered before exit", "count", remaining)
			}
			producer.Close()
		})
		notifiers = append(notifiers, notify.NewKafkaNotifier(producer, producer.Topic()))
	}

	opts := []store.Option{
		store.WithNotifier(notify.Multi(notifiers...)),
		store.WithLogger(log),
		store.WithPageSize(cfg.PageSize),
	}
	if cfg.StaleResponseGuard {
		opts = append(opts, store.WithStaleResponseGuard())
	}

	return store.New(client, session.NewManager(backend), opts...), cleanup, nil
}

// pushMetrics ships this run's API client metrics before the process exits
func pushMetrics(cfg *config.Client, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	host, _ := os.Hostname()
	if err := api.PushMetrics(ctx, cfg.PushgatewayURL, "blogctl", host); err != nil {
		log.Warn("Failed to push metrics", "error", err)
	}
}

// resolveBaseURL prefers a Consul-discovered instance when a service name is set
func resolveBaseURL(ctx context.Context, cfg *config.Client) (string, error) {
	if cfg.APIServiceName == "" {
		return cfg.APIBaseURL, nil
	}

	client, err := consul.NewClientWithToken(cfg.ConsulAddr, cfg.ConsulToken)
	if err != nil {
		return "", err
	}
	url, err := consul.ResolveBaseURL(ctx, client, cfg.APIServiceName)
	if err != nil {
		if cfg.APIBaseURL == "" {
			return "", err
		}
		slog.Warn("Service discovery failed, using API_BASE_URL",
			"service", cfg.APIServiceName,
			"error", err,
		)
		return cfg.APIBaseURL, nil
	}
	slog.Debug("Resolved API via Consul", "service", cfg.APIServiceName, "url", url)
	return url, nil
}
