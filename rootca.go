// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"time"

	"github.com/absmach/goca/internal/keys"
	"github.com/absmach/goca/pkg/errors"
)

// NewRootCA generates a self-signed root CA certificate and its RSA private
// key from the given subject configuration. The returned certificate is
// PEM-encoded and suitable for NewService.
func NewRootCA(cfg *Config) ([]byte, *rsa.PrivateKey, error) {
	privateKey, err := keys.Generate()
	if err != nil {
		return nil, nil, errors.Wrap(ErrSigning, err)
	}

	serialNumber, err := RandomSerialNumber()
	if err != nil {
		return nil, nil, errors.Wrap(ErrSigning, err)
	}

	notBefore := time.Now().UTC().Truncate(24 * time.Hour)
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName:         cfg.CommonName,
			Organization:       cfg.Organization,
			OrganizationalUnit: cfg.OrganizationalUnit,
			Country:            cfg.Country,
			Province:           cfg.Province,
			Locality:           cfg.Locality,
			StreetAddress:      cfg.StreetAddress,
			PostalCode:         cfg.PostalCode,
			SerialNumber:       serialNumber.String(),
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.AddDate(certValidityYears, 0, 0),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              cfg.DNSNames,
		IPAddresses:           cfg.IPAddresses,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		return nil, nil, errors.Wrap(ErrSigning, err)
	}

	return keys.EncodeCertificate(certDER), privateKey, nil
}
