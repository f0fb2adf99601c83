// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/absmach/goca"
)

var _ ca.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     ca.Service
}

// MetricsMiddleware instruments core service by tracking request count and latency.
func MetricsMiddleware(svc ca.Service, counter metrics.Counter, latency metrics.Histogram) ca.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) GenerateCSR(ctx context.Context, opts ca.SubjectOptions) (ca.CSR, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "generate_csr").Add(1)
		mm.latency.With("method", "generate_csr").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.GenerateCSR(ctx, opts)
}

func (mm *metricsMiddleware) SignCSR(ctx context.Context, csr ca.CSR) (ca.Certificate, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "sign_csr").Add(1)
		mm.latency.With("method", "sign_csr").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.SignCSR(ctx, csr)
}

func (mm *metricsMiddleware) RetrieveCACert(ctx context.Context) ([]byte, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get_ca_cert").Add(1)
		mm.latency.With("method", "get_ca_cert").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.RetrieveCACert(ctx)
}

func (mm *metricsMiddleware) RetrieveCAToken(ctx context.Context) (string, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get_ca_token").Add(1)
		mm.latency.With("method", "get_ca_token").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.RetrieveCAToken(ctx)
}

func (mm *metricsMiddleware) ExportStore(ctx context.Context, token, storePassword, keyPassword string) ([]byte, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "export_store").Add(1)
		mm.latency.With("method", "export_store").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.ExportStore(ctx, token, storePassword, keyPassword)
}

func (mm *metricsMiddleware) SaveStoreFile(ctx context.Context, path, storePassword, keyPassword string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "save_store_file").Add(1)
		mm.latency.With("method", "save_store_file").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.SaveStoreFile(ctx, path, storePassword, keyPassword)
}
