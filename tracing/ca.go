// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/absmach/goca"
)

var _ ca.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    ca.Service
}

// New returns a new CA service with tracing capabilities.
func New(svc ca.Service, tracer trace.Tracer) ca.Service {
	return &tracingMiddleware{tracer, svc}
}

func (tm *tracingMiddleware) GenerateCSR(ctx context.Context, opts ca.SubjectOptions) (ca.CSR, error) {
	ctx, span := tm.tracer.Start(ctx, "generate_csr")
	defer span.End()
	return tm.svc.GenerateCSR(ctx, opts)
}

func (tm *tracingMiddleware) SignCSR(ctx context.Context, csr ca.CSR) (ca.Certificate, error) {
	ctx, span := tm.tracer.Start(ctx, "sign_csr")
	defer span.End()
	return tm.svc.SignCSR(ctx, csr)
}

func (tm *tracingMiddleware) RetrieveCACert(ctx context.Context) ([]byte, error) {
	ctx, span := tm.tracer.Start(ctx, "get_ca_cert")
	defer span.End()
	return tm.svc.RetrieveCACert(ctx)
}

func (tm *tracingMiddleware) RetrieveCAToken(ctx context.Context) (string, error) {
	ctx, span := tm.tracer.Start(ctx, "get_ca_token")
	defer span.End()
	return tm.svc.RetrieveCAToken(ctx)
}

func (tm *tracingMiddleware) ExportStore(ctx context.Context, token, storePassword, keyPassword string) ([]byte, error) {
	ctx, span := tm.tracer.Start(ctx, "export_store")
	defer span.End()
	return tm.svc.ExportStore(ctx, token, storePassword, keyPassword)
}

func (tm *tracingMiddleware) SaveStoreFile(ctx context.Context, path, storePassword, keyPassword string) error {
	ctx, span := tm.tracer.Start(ctx, "save_store_file")
	defer span.End()
	return tm.svc.SaveStoreFile(ctx, path, storePassword, keyPassword)
}
