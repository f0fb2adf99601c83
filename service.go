// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/absmach/goca/internal/keys"
	"github.com/absmach/goca/pkg/errors"
)

const (
	// CertificateAlias is the credential store alias of the CA certificate.
	CertificateAlias = "ca"
	// PrivateKeyAlias is the credential store alias of the CA private key.
	PrivateKeyAlias = "key"

	certValidityYears = 10
	tokenValidity     = time.Minute * 5
	tokenSubject      = "credential-store"
)

// signatureAlgorithm is fixed for both requests and issued certificates.
const signatureAlgorithm = x509.SHA256WithRSA

var (
	serialNumberLimit = new(big.Int).Lsh(big.NewInt(1), 128)

	// ErrMalformedCA indicates that the supplied CA certificate could not be
	// parsed into its structured form.
	ErrMalformedCA = errors.New("failed to parse CA certificate")

	// ErrUnsupportedKeyType indicates a private key the signer cannot use.
	ErrUnsupportedKeyType = errors.New("private key is not an RSA key")

	// ErrSigning indicates failure to produce a signature.
	ErrSigning = errors.New("failed to sign")

	// ErrMalformedCSR indicates an unparsable certificate signing request.
	ErrMalformedCSR = errors.New("failed to parse certificate signing request")

	// ErrCSRVerification indicates a request whose self-signature does not
	// verify against its embedded public key.
	ErrCSRVerification = errors.New("certificate request signature verification failed")

	// ErrCertValidity indicates an issued certificate that is not currently
	// within its own validity window.
	ErrCertValidity = errors.New("issued certificate is not valid")

	// ErrSignatureVerification indicates an issued certificate whose signature
	// does not verify against the CA public key.
	ErrSignatureVerification = errors.New("issued certificate signature verification failed")

	// ErrStoreAssembly indicates failure to assemble the credential store.
	ErrStoreAssembly = errors.New("failed to assemble credential store")

	// ErrPersistence indicates failure to serialize or write the credential store.
	ErrPersistence = errors.New("failed to persist credential store")

	// ErrInvalidToken indicates a missing or invalid download token.
	ErrInvalidToken = errors.New("invalid download token")
)

type service struct {
	caCert    *x509.Certificate
	caKey     *rsa.PrivateKey
	serial    func() (*big.Int, error)
	verifyCSR bool
}

var _ Service = (*service)(nil)

// Option configures the service at construction time.
type Option func(*service)

// WithSerialNumbers replaces the serial number strategy. The default issues
// the constant serial 1 for every certificate, which is not unique and not
// compliant with CA best practice; production deployments should supply a
// random strategy such as RandomSerialNumber.
func WithSerialNumbers(gen func() (*big.Int, error)) Option {
	return func(s *service) {
		s.serial = gen
	}
}

// WithCSRVerification makes SignCSR verify the request's self-signature
// before trusting its public key. The default accepts the request without
// proof-of-possession verification.
func WithCSRVerification() Option {
	return func(s *service) {
		s.verifyCSR = true
	}
}

// RandomSerialNumber returns a 128-bit random serial, suitable for
// WithSerialNumbers.
func RandomSerialNumber() (*big.Int, error) {
	return rand.Int(rand.Reader, serialNumberLimit)
}

// NewService creates a certificate authority from a PEM-encoded CA
// certificate and its private key. The key is trusted to match the
// certificate; the pairing is not verified here.
func NewService(caCertPEM []byte, caKey crypto.PrivateKey, opts ...Option) (Service, error) {
	cert, err := keys.ParseCertificate(caCertPEM)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedCA, err)
	}
	key, ok := caKey.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.Wrap(ErrSigning, ErrUnsupportedKeyType)
	}

	svc := &service{
		caCert: cert,
		caKey:  key,
		serial: func() (*big.Int, error) { return big.NewInt(1), nil },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *service) GenerateCSR(ctx context.Context, opts SubjectOptions) (CSR, error) {
	key, err := keys.Generate()
	if err != nil {
		return CSR{}, errors.Wrap(ErrSigning, err)
	}
	csr, err := NewCSR(opts, key)
	if err != nil {
		return CSR{}, err
	}
	csr.PrivateKey = keys.EncodePrivateKey(key)
	return csr, nil
}

// SignCSR issues an end-entity certificate over the request's subject and
// public key. The validity window starts at the beginning of the current day
// (UTC) and ends exactly 10 calendar years later. Before returning, the new
// certificate is checked to be currently valid and to verify against the CA
// public key.
func (s *service) SignCSR(ctx context.Context, req CSR) (Certificate, error) {
	csr, err := keys.ParseCSR(req.CSR)
	if err != nil {
		return Certificate{}, errors.Wrap(ErrMalformedCSR, err)
	}
	if s.verifyCSR {
		if err := csr.CheckSignature(); err != nil {
			return Certificate{}, errors.Wrap(ErrCSRVerification, err)
		}
	}

	serial, err := s.serial()
	if err != nil {
		return Certificate{}, errors.Wrap(ErrSigning, err)
	}

	notBefore := time.Now().UTC().Truncate(24 * time.Hour)
	notAfter := notBefore.AddDate(certValidityYears, 0, 0)

	template := x509.Certificate{
		SerialNumber:       serial,
		Subject:            csr.Subject,
		NotBefore:          notBefore,
		NotAfter:           notAfter,
		SignatureAlgorithm: signatureAlgorithm,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, s.caCert, csr.PublicKey, s.caKey)
	if err != nil {
		return Certificate{}, errors.Wrap(ErrSigning, err)
	}
	issued, err := x509.ParseCertificate(der)
	if err != nil {
		return Certificate{}, errors.Wrap(ErrSigning, err)
	}

	now := time.Now()
	if now.Before(issued.NotBefore) || now.After(issued.NotAfter) {
		return Certificate{}, ErrCertValidity
	}
	if err := s.caCert.CheckSignature(issued.SignatureAlgorithm, issued.RawTBSCertificate, issued.Signature); err != nil {
		return Certificate{}, errors.Wrap(ErrSignatureVerification, err)
	}

	return Certificate{
		SerialNumber: issued.SerialNumber.String(),
		Certificate:  keys.EncodeCertificate(der),
		NotBefore:    issued.NotBefore,
		ExpiryTime:   issued.NotAfter,
	}, nil
}

func (s *service) RetrieveCACert(ctx context.Context) ([]byte, error) {
	return keys.EncodeCertificate(s.caCert.Raw), nil
}

func (s *service) RetrieveCAToken(ctx context.Context) (string, error) {
	claims := jwt.StandardClaims{
		ExpiresAt: time.Now().Add(tokenValidity).Unix(),
		Issuer:    s.caCert.Subject.CommonName,
		Subject:   tokenSubject,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.caCert.SerialNumber.String()))
}

func (s *service) verifyToken(token string) error {
	_, err := jwt.ParseWithClaims(token, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.caCert.SerialNumber.String()), nil
	})
	if err != nil {
		return errors.Wrap(ErrInvalidToken, err)
	}
	return nil
}
