// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"

	"github.com/absmach/goca/internal/keys"
	"github.com/absmach/goca/pkg/errors"
)

// NewCSR builds a certificate signing request for the given subject, signed
// with the requester's private key. The result is a pure value; the signature
// binds the subject and public key and verifies against the embedded key.
func NewCSR(opts SubjectOptions, key crypto.Signer) (CSR, error) {
	if _, ok := key.(*rsa.PrivateKey); !ok {
		return CSR{}, errors.Wrap(ErrSigning, ErrUnsupportedKeyType)
	}

	template := x509.CertificateRequest{
		Subject:            subjectName(opts),
		DNSNames:           opts.DNSNames,
		SignatureAlgorithm: signatureAlgorithm,
	}
	der, err := x509.CreateCertificateRequest(rand.Reader, &template, key)
	if err != nil {
		return CSR{}, errors.Wrap(ErrSigning, err)
	}

	return CSR{CSR: keys.EncodeCSR(der)}, nil
}

func subjectName(opts SubjectOptions) pkix.Name {
	return pkix.Name{
		CommonName:         opts.CommonName,
		Organization:       opts.Organization,
		OrganizationalUnit: opts.OrganizationalUnit,
		Country:            opts.Country,
		Province:           opts.Province,
		Locality:           opts.Locality,
		StreetAddress:      opts.StreetAddress,
		PostalCode:         opts.PostalCode,
	}
}
