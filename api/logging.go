// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/goca"
)

var _ ca.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    ca.Service
}

// LoggingMiddleware adds logging facilities to the core service.
func LoggingMiddleware(svc ca.Service, logger *slog.Logger) ca.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) GenerateCSR(ctx context.Context, opts ca.SubjectOptions) (csr ca.CSR, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method generate_csr for subject %s took %s to complete", opts.CommonName, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.GenerateCSR(ctx, opts)
}

func (lm *loggingMiddleware) SignCSR(ctx context.Context, csr ca.CSR) (cert ca.Certificate, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method sign_csr took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.SignCSR(ctx, csr)
}

func (lm *loggingMiddleware) RetrieveCACert(ctx context.Context) (cert []byte, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method get_ca_cert took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.RetrieveCACert(ctx)
}

func (lm *loggingMiddleware) RetrieveCAToken(ctx context.Context) (tokenString string, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method get_ca_token took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.RetrieveCAToken(ctx)
}

func (lm *loggingMiddleware) ExportStore(ctx context.Context, token, storePassword, keyPassword string) (store []byte, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method export_store took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.ExportStore(ctx, token, storePassword, keyPassword)
}

func (lm *loggingMiddleware) SaveStoreFile(ctx context.Context, path, storePassword, keyPassword string) (err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method save_store_file for path %s took %s to complete", path, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.SaveStoreFile(ctx, path, storePassword, keyPassword)
}
