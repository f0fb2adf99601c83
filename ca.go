// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package ca implements a small X.509 certificate authority. It builds and
// signs certificate signing requests and persists the CA's key and
// certificate into a password-protected credential store.
package ca

import (
	"context"
	"time"
)

// SubjectOptions carries the distinguished-name components of a certificate
// subject. Zero-value fields are omitted from the built name.
type SubjectOptions struct {
	CommonName         string   `json:"common_name"`
	Organization       []string `json:"organization,omitempty"`
	OrganizationalUnit []string `json:"organizational_unit,omitempty"`
	Country            []string `json:"country,omitempty"`
	Province           []string `json:"province,omitempty"`
	Locality           []string `json:"locality,omitempty"`
	StreetAddress      []string `json:"street_address,omitempty"`
	PostalCode         []string `json:"postal_code,omitempty"`
	DNSNames           []string `json:"dns_names,omitempty"`
}

// CSR is a PEM-encoded PKCS#10 certificate signing request. PrivateKey is
// set only when the key pair was generated alongside the request.
type CSR struct {
	CSR        []byte `json:"csr"`
	PrivateKey []byte `json:"private_key,omitempty"`
}

// Certificate is an issued end-entity certificate. The Certificate field
// holds the PEM encoding; the value is immutable once returned.
type Certificate struct {
	SerialNumber string    `json:"serial_number"`
	Certificate  []byte    `json:"certificate"`
	NotBefore    time.Time `json:"not_before"`
	ExpiryTime   time.Time `json:"expiry_time"`
}

// Service is the certificate authority. Implementations are immutable after
// construction and safe for concurrent use.
type Service interface {
	// GenerateCSR creates a key pair and a signing request for the given subject.
	GenerateCSR(ctx context.Context, opts SubjectOptions) (CSR, error)

	// SignCSR validates and signs a certificate signing request into an
	// end-entity certificate issued by this CA.
	SignCSR(ctx context.Context, csr CSR) (Certificate, error)

	// RetrieveCACert returns the PEM-encoded CA certificate.
	RetrieveCACert(ctx context.Context) ([]byte, error)

	// RetrieveCAToken returns a short-lived token authorizing a credential
	// store download.
	RetrieveCAToken(ctx context.Context) (string, error)

	// ExportStore serializes the CA key and certificate into a
	// password-protected credential store and returns its bytes.
	ExportStore(ctx context.Context, token, storePassword, keyPassword string) ([]byte, error)

	// SaveStoreFile writes the credential store to the given file path.
	SaveStoreFile(ctx context.Context, path, storePassword, keyPassword string) error
}
