package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bekizod/Blog-Post/internal/config"
	"github.com/bekizod/Blog-Post/internal/consul"
	"github.com/bekizod/Blog-Post/internal/devapi"
	"github.com/bekizod/Blog-Post/internal/logger"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to devapi.yml")
	pflag.Parse()

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.Build(os.Stdout, cfg.LogLevel, cfg.LogFormat, logger.FormatJSON)
	logger.SetDefault(log)

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.Info("Starting development API",
		"addr", cfg.Addr(),
		"env", cfg.Env,
		"consul_register", cfg.ConsulRegister,
	)

	svc := devapi.NewService(devapi.NewRepository(), devapi.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), log)
	if cfg.SeedDemoData {
		if err := devapi.Seed(context.Background(), svc); err != nil {
			slog.Error("Failed to seed demo data", "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded demo data", "email", devapi.DemoEmail)
	}

	router := devapi.SetupRouter(svc, cfg.Origins(), log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var deregister func()
	if cfg.ConsulRegister {
		deregister, err = registerWithConsul(cfg)
		if err != nil {
			slog.Error("Failed to register with Consul", "error", err)
			os.Exit(1)
		}
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Development API listening", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down development API")

	if deregister != nil {
		deregister()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Development API stopped")
}

// registerWithConsul announces the API so blogctl can discover it by name
func registerWithConsul(cfg *config.Server) (func(), error) {
	client, err := consul.NewClientWithToken(cfg.ConsulAddr, cfg.ConsulToken)
	if err != nil {
		return nil, err
	}

	host := cfg.Host
	if host == "" || host == "0.0.0.0" {
		host, err = os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve hostname: %w", err)
		}
	}

	reg := consul.Registration{
		Name:       cfg.ServiceName,
		Host:       host,
		Port:       cfg.Port,
		Tags:       []string{"blog", "devapi"},
		HealthPath: "/health",
	}
	deregister, err := client.Register(reg)
	if err != nil {
		return nil, err
	}
	slog.Info("Registered with Consul", "service_id", reg.ID(), "service", reg.Name)

	return func() {
		if err := deregister(); err != nil {
			slog.Warn("Failed to deregister from Consul", "service_id", reg.ID(), "error", err)
			return
		}
		slog.Info("Deregistered from Consul", "service_id", reg.ID())
	}, nil
}
