// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/absmach/goca"
	"github.com/absmach/goca/api"
	httpapi "github.com/absmach/goca/api/http"
	jaegerClient "github.com/absmach/goca/internal/jaeger"
	"github.com/absmach/goca/internal/keys"
	"github.com/absmach/goca/internal/prometheus"
	"github.com/absmach/goca/internal/server"
	httpserver "github.com/absmach/goca/internal/server/http"
	"github.com/absmach/goca/internal/uuid"
	"github.com/absmach/goca/tracing"
)

const (
	svcName        = "goca"
	envPrefixHTTP  = "GOCA_HTTP_"
	defSvcHTTPPort = "9010"

	defCommonName   = "GoCA Root Certificate Authority"
	defOrganization = "Abstract Machines"
)

type config struct {
	LogLevel   string  `env:"GOCA_LOG_LEVEL"      envDefault:"info"`
	JaegerURL  url.URL `env:"GOCA_JAEGER_URL"     envDefault:"http://jaeger:4318"`
	InstanceID string  `env:"GOCA_INSTANCE_ID"    envDefault:""`
	TraceRatio float64 `env:"GOCA_TRACE_RATIO"    envDefault:"1.0"`

	// CA identity settings. When cert and key files are unset, a self-signed
	// root is generated from the subject config file or built-in defaults.
	CACertFile   string `env:"GOCA_CA_CERT_FILE"   envDefault:""`
	CAKeyFile    string `env:"GOCA_CA_KEY_FILE"    envDefault:""`
	CAConfigFile string `env:"GOCA_CA_CONFIG_FILE" envDefault:""`
	VerifyCSR    bool   `env:"GOCA_VERIFY_CSR"     envDefault:"false"`
	RandomSerial bool   `env:"GOCA_RANDOM_SERIAL"  envDefault:"false"`

	// Credential store persistence at startup, skipped when the path is empty.
	StorePath     string `env:"GOCA_STORE_PATH"           envDefault:""`
	StorePassword string `env:"GOCA_STORE_PASSWORD"       envDefault:""`
	KeyPassword   string `env:"GOCA_STORE_KEY_PASSWORD"   envDefault:""`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf(err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID, err = uuid.New().ID()
		if err != nil {
			log.Fatalf(fmt.Sprintf("failed to generate instance ID: %s", err))
		}
	}

	tp, err := jaegerClient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to init Jaeger: %s", err))
	}
	defer func() {
		if tp == nil {
			return
		}
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("Error shutting down tracer provider: %v", err))
		}
	}()

	svc, err := newService(cfg, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create %s service: %s", svcName, err))
		return
	}

	if cfg.StorePath != "" {
		if err := svc.SaveStoreFile(ctx, cfg.StorePath, cfg.StorePassword, cfg.KeyPassword); err != nil {
			logger.Error(fmt.Sprintf("failed to persist credential store: %s", err))
			return
		}
		logger.Info(fmt.Sprintf("credential store persisted to %s", cfg.StorePath))
	}

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		return
	}
	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, httpapi.MakeHandler(chi.NewRouter(), svc, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(cfg config, logger *slog.Logger) (ca.Service, error) {
	certPEM, key, err := loadIdentity(cfg)
	if err != nil {
		return nil, err
	}

	var opts []ca.Option
	if cfg.VerifyCSR {
		opts = append(opts, ca.WithCSRVerification())
	}
	if cfg.RandomSerial {
		opts = append(opts, ca.WithSerialNumbers(ca.RandomSerialNumber))
	}

	svc, err := ca.NewService(certPEM, key, opts...)
	if err != nil {
		return nil, err
	}

	svc = tracing.New(svc, otel.Tracer(svcName))
	svc = api.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = api.MetricsMiddleware(svc, counter, latency)

	return svc, nil
}

func loadIdentity(cfg config) ([]byte, interface{}, error) {
	if cfg.CACertFile != "" && cfg.CAKeyFile != "" {
		certPEM, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, nil, err
		}
		keyPEM, err := os.ReadFile(cfg.CAKeyFile)
		if err != nil {
			return nil, nil, err
		}
		key, err := keys.ParsePrivateKey(keyPEM)
		if err != nil {
			return nil, nil, err
		}
		return certPEM, key, nil
	}

	subject := &ca.Config{
		CommonName:   defCommonName,
		Organization: []string{defOrganization},
	}
	if cfg.CAConfigFile != "" {
		subject, err := ca.LoadConfig(cfg.CAConfigFile)
		if err != nil {
			return nil, nil, err
		}
		return newRoot(subject)
	}
	return newRoot(subject)
}

func newRoot(subject *ca.Config) ([]byte, interface{}, error) {
	certPEM, key, err := ca.NewRootCA(subject)
	if err != nil {
		return nil, nil, err
	}
	return certPEM, key, nil
}

func initLogger(levelText string) (*slog.Logger, error) {
	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(logHandler), nil
}
