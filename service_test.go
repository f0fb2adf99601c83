// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ca_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absmach/goca"
	"github.com/absmach/goca/internal/keys"
	"github.com/absmach/goca/pkg/errors"
)

func newTestCA(t *testing.T) ([]byte, *rsa.PrivateKey) {
	t.Helper()
	certPEM, key, err := ca.NewRootCA(&ca.Config{
		CommonName:   "Test Root Certificate Authority",
		Organization: []string{"Abstract Machines"},
	})
	require.NoError(t, err)
	return certPEM, key
}

func newTestCSR(t *testing.T, cn string) (ca.CSR, *rsa.PrivateKey) {
	t.Helper()
	key, err := keys.Generate()
	require.NoError(t, err)
	csr, err := ca.NewCSR(ca.SubjectOptions{CommonName: cn}, key)
	require.NoError(t, err)
	return csr, key
}

func TestNewService(t *testing.T) {
	certPEM, key := newTestCA(t)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	testCases := []struct {
		desc string
		cert []byte
		key  interface{}
		err  error
	}{
		{
			desc: "valid CA identity",
			cert: certPEM,
			key:  key,
			err:  nil,
		},
		{
			desc: "malformed CA certificate",
			cert: []byte("not a certificate"),
			key:  key,
			err:  ca.ErrMalformedCA,
		},
		{
			desc: "unsupported key type",
			cert: certPEM,
			key:  ecKey,
			err:  ca.ErrUnsupportedKeyType,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, err := ca.NewService(tc.cert, tc.key)
			if tc.err != nil {
				require.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
		})
	}
}

func TestSignCSR(t *testing.T) {
	certPEM, key := newTestCA(t)
	svc, err := ca.NewService(certPEM, key)
	require.NoError(t, err)
	caCert, err := keys.ParseCertificate(certPEM)
	require.NoError(t, err)

	csr, requestKey := newTestCSR(t, "test")
	request, err := keys.ParseCSR(csr.CSR)
	require.NoError(t, err)

	cert, err := svc.SignCSR(context.Background(), csr)
	require.NoError(t, err)

	issued, err := keys.ParseCertificate(cert.Certificate)
	require.NoError(t, err)

	assert.Equal(t, "1", cert.SerialNumber)
	assert.Equal(t, "test", issued.Subject.CommonName)
	assert.Equal(t, request.Subject.String(), issued.Subject.String(), "issued subject must equal the request subject")
	assert.Equal(t, caCert.Subject.CommonName, issued.Issuer.CommonName)
	assert.True(t, requestKey.PublicKey.Equal(issued.PublicKey), "issued certificate must carry the request public key")

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	assert.True(t, issued.NotBefore.Equal(midnight), "notBefore must be the start of the current day, got %s", issued.NotBefore)
	assert.True(t, issued.NotAfter.Equal(midnight.AddDate(10, 0, 0)), "notAfter must be exactly 10 calendar years later, got %s", issued.NotAfter)
	assert.Equal(t, 0, issued.NotBefore.Hour()+issued.NotBefore.Minute()+issued.NotBefore.Second())

	err = caCert.CheckSignature(issued.SignatureAlgorithm, issued.RawTBSCertificate, issued.Signature)
	assert.NoError(t, err, "issued certificate must verify against the CA public key")

	otherPEM, _ := newTestCA(t)
	otherCert, err := keys.ParseCertificate(otherPEM)
	require.NoError(t, err)
	err = otherCert.CheckSignature(issued.SignatureAlgorithm, issued.RawTBSCertificate, issued.Signature)
	assert.Error(t, err, "issued certificate must not verify against an unrelated public key")
}

func TestSignCSRMalformed(t *testing.T) {
	certPEM, key := newTestCA(t)
	svc, err := ca.NewService(certPEM, key)
	require.NoError(t, err)

	testCases := []struct {
		desc string
		csr  ca.CSR
		err  error
	}{
		{
			desc: "empty request",
			csr:  ca.CSR{},
			err:  ca.ErrMalformedCSR,
		},
		{
			desc: "garbage request",
			csr:  ca.CSR{CSR: []byte("garbage")},
			err:  ca.ErrMalformedCSR,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := svc.SignCSR(context.Background(), tc.csr)
			require.True(t, errors.Contains(err, tc.err), "expected error %v, got %v", tc.err, err)
		})
	}
}

func TestSignCSRSameRequestTwice(t *testing.T) {
	certPEM, key := newTestCA(t)
	svc, err := ca.NewService(certPEM, key)
	require.NoError(t, err)

	csr, _ := newTestCSR(t, "test")

	first, err := svc.SignCSR(context.Background(), csr)
	require.NoError(t, err)
	second, err := svc.SignCSR(context.Background(), csr)
	require.NoError(t, err)

	// Both issued certificates carry the fixed serial 1, so they are equal in
	// every field. This is the documented non-unique default serial policy.
	assert.Equal(t, first, second)
	assert.Equal(t, "1", first.SerialNumber)
	assert.Equal(t, "1", second.SerialNumber)
}

func TestSignCSRRandomSerials(t *testing.T) {
	certPEM, key := newTestCA(t)
	svc, err := ca.NewService(certPEM, key, ca.WithSerialNumbers(ca.RandomSerialNumber))
	require.NoError(t, err)

	csr, _ := newTestCSR(t, "test")

	first, err := svc.SignCSR(context.Background(), csr)
	require.NoError(t, err)
	second, err := svc.SignCSR(context.Background(), csr)
	require.NoError(t, err)

	assert.NotEqual(t, first.SerialNumber, second.SerialNumber)
}

func TestSignCSRVerification(t *testing.T) {
	certPEM, key := newTestCA(t)

	csr, _ := newTestCSR(t, "test")
	tampered := ca.CSR{CSR: append([]byte{}, csr.CSR...)}
	// Corrupt a byte inside the base64 body to break the self-signature.
	tampered.CSR[80] ^= 0x01

	permissive, err := ca.NewService(certPEM, key)
	require.NoError(t, err)
	strict, err := ca.NewService(certPEM, key, ca.WithCSRVerification())
	require.NoError(t, err)

	_, err = strict.SignCSR(context.Background(), csr)
	assert.NoError(t, err, "strict mode must accept a well-formed request")

	_, err = permissive.SignCSR(context.Background(), csr)
	assert.NoError(t, err)

	_, err = strict.SignCSR(context.Background(), tampered)
	assert.Error(t, err, "strict mode must reject a tampered request")
}

func TestGenerateCSR(t *testing.T) {
	certPEM, key := newTestCA(t)
	svc, err := ca.NewService(certPEM, key)
	require.NoError(t, err)

	csr, err := svc.GenerateCSR(context.Background(), ca.SubjectOptions{CommonName: "device-02"})
	require.NoError(t, err)

	parsed, err := keys.ParseCSR(csr.CSR)
	require.NoError(t, err)
	assert.Equal(t, "device-02", parsed.Subject.CommonName)

	generated, err := keys.ParsePrivateKey(csr.PrivateKey)
	require.NoError(t, err)
	assert.True(t, generated.PublicKey.Equal(parsed.PublicKey), "request must carry the generated public key")

	cert, err := svc.SignCSR(context.Background(), csr)
	require.NoError(t, err)
	issued, err := keys.ParseCertificate(cert.Certificate)
	require.NoError(t, err)
	assert.Equal(t, "device-02", issued.Subject.CommonName)
}

func TestRetrieveCACert(t *testing.T) {
	certPEM, key := newTestCA(t)
	svc, err := ca.NewService(certPEM, key)
	require.NoError(t, err)

	cert, err := svc.RetrieveCACert(context.Background())
	require.NoError(t, err)

	parsed, err := keys.ParseCertificate(cert)
	require.NoError(t, err)
	assert.Equal(t, "Test Root Certificate Authority", parsed.Subject.CommonName)
}

func TestRetrieveCAToken(t *testing.T) {
	certPEM, key := newTestCA(t)
	svc, err := ca.NewService(certPEM, key)
	require.NoError(t, err)
	caCert, err := keys.ParseCertificate(certPEM)
	require.NoError(t, err)

	token, err := svc.RetrieveCAToken(context.Background())
	require.NoError(t, err)

	claims := jwt.StandardClaims{}
	_, err = jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(caCert.SerialNumber.String()), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "credential-store", claims.Subject)
	assert.True(t, time.Unix(claims.ExpiresAt, 0).After(time.Now()))
}
