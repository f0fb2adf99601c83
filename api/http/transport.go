// Copyright (c) Ultraviolet
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/absmach/goca"
	"github.com/absmach/goca/internal/api"
	"github.com/absmach/goca/pkg/apiutil"
	"github.com/absmach/goca/pkg/errors"
)

const tokenKey = "token"

// MakeHandler returns a HTTP handler for API endpoints.
func MakeHandler(r *chi.Mux, svc ca.Service, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(api.EncodeError),
	}

	r.Route("/certs", func(r chi.Router) {
		r.Post("/csr", kithttp.NewServer(
			generateCSREndpoint(svc),
			decodeGenerateCSR,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Post("/sign", kithttp.NewServer(
			signCSREndpoint(svc),
			decodeSignCSR,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Get("/ca", kithttp.NewServer(
			viewCACertEndpoint(svc),
			decodeView,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Get("/ca/token", kithttp.NewServer(
			caTokenEndpoint(svc),
			decodeView,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Post("/ca/store", kithttp.NewServer(
			exportStoreEndpoint(svc),
			decodeExportStore,
			encodeStoreDownloadResponse,
			opts...,
		).ServeHTTP)
	})

	r.Get("/health", health("goca", instanceID))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func decodeGenerateCSR(_ context.Context, r *http.Request) (interface{}, error) {
	var req generateCSRReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	return req, nil
}

func decodeSignCSR(_ context.Context, r *http.Request) (interface{}, error) {
	var req signCSRReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	return req, nil
}

func decodeView(_ context.Context, r *http.Request) (interface{}, error) {
	return viewCAReq{}, nil
}

func decodeExportStore(_ context.Context, r *http.Request) (interface{}, error) {
	var req exportStoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	req.token = r.URL.Query().Get(tokenKey)
	return req, nil
}

func encodeStoreDownloadResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	res := response.(storeDownloadRes)

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", res.Filename))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(res.Store)
	return err
}

func health(service, instanceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", api.ContentType)
		w.WriteHeader(http.StatusOK)
		res := map[string]string{
			"status":      "pass",
			"service":     service,
			"instance_id": instanceID,
		}
		if err := json.NewEncoder(w).Encode(res); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
