// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"

	"github.com/go-kit/kit/endpoint"

	"github.com/absmach/goca"
)

func generateCSREndpoint(svc ca.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(generateCSRReq)
		if err := req.validate(); err != nil {
			return generateCSRRes{}, err
		}

		csr, err := svc.GenerateCSR(ctx, req.Options)
		if err != nil {
			return generateCSRRes{}, err
		}

		return generateCSRRes{
			CSR:        string(csr.CSR),
			PrivateKey: string(csr.PrivateKey),
			created:    true,
		}, nil
	}
}

func signCSREndpoint(svc ca.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(signCSRReq)
		if err := req.validate(); err != nil {
			return signCSRRes{}, err
		}

		cert, err := svc.SignCSR(ctx, ca.CSR{CSR: []byte(req.CSR)})
		if err != nil {
			return signCSRRes{}, err
		}

		return signCSRRes{
			SerialNumber: cert.SerialNumber,
			Certificate:  string(cert.Certificate),
			NotBefore:    cert.NotBefore,
			ExpiryTime:   cert.ExpiryTime,
			issued:       true,
		}, nil
	}
}

func viewCACertEndpoint(svc ca.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(viewCAReq)
		if err := req.validate(); err != nil {
			return viewCARes{}, err
		}

		cert, err := svc.RetrieveCACert(ctx)
		if err != nil {
			return viewCARes{}, err
		}

		return viewCARes{Certificate: string(cert)}, nil
	}
}

func caTokenEndpoint(svc ca.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(viewCAReq)
		if err := req.validate(); err != nil {
			return tokenRes{}, err
		}

		token, err := svc.RetrieveCAToken(ctx)
		if err != nil {
			return tokenRes{}, err
		}

		return tokenRes{Token: token}, nil
	}
}

func exportStoreEndpoint(svc ca.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(exportStoreReq)
		if err := req.validate(); err != nil {
			return storeDownloadRes{}, err
		}

		store, err := svc.ExportStore(ctx, req.token, req.StorePassword, req.KeyPassword)
		if err != nil {
			return storeDownloadRes{}, err
		}

		return storeDownloadRes{
			Store:       store,
			Filename:    "ca.p12",
			ContentType: "application/x-pkcs12",
		}, nil
	}
}
