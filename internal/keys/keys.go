// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package keys generates RSA key pairs and converts keys, certificates, and
// certificate requests between their DER structures and PEM encodings.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
)

// PrivateKeyBytes is the modulus size of generated RSA keys.
const PrivateKeyBytes = 2048

const (
	certPEMBlock = "CERTIFICATE"
	csrPEMBlock  = "CERTIFICATE REQUEST"
	keyPEMBlock  = "RSA PRIVATE KEY"
)

var (
	// ErrPEMDecode indicates that the input held no PEM block of the expected type.
	ErrPEMDecode = errors.New("failed to decode PEM block")

	// ErrPrivateKeyType indicates a private key of an unsupported type.
	ErrPrivateKeyType = errors.New("private key is not an RSA key")
)

// Generate creates a new RSA key pair.
func Generate() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, PrivateKeyBytes)
}

// EncodePrivateKey returns the PKCS#1 PEM encoding of key.
func EncodePrivateKey(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: keyPEMBlock, Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

// ParsePrivateKey decodes a PKCS#1 PEM-encoded RSA private key.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != keyPEMBlock {
		return nil, ErrPEMDecode
	}
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

// EncodeCertificate returns the PEM encoding of DER certificate bytes.
func EncodeCertificate(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: certPEMBlock, Bytes: der})
}

// ParseCertificate decodes a PEM-encoded X.509 certificate.
func ParseCertificate(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != certPEMBlock {
		return nil, ErrPEMDecode
	}
	return x509.ParseCertificate(block.Bytes)
}

// EncodeCSR returns the PEM encoding of DER certificate request bytes.
func EncodeCSR(der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: csrPEMBlock, Bytes: der})
}

// ParseCSR decodes a PEM-encoded PKCS#10 certificate request.
func ParseCSR(data []byte) (*x509.CertificateRequest, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != csrPEMBlock {
		return nil, ErrPEMDecode
	}
	return x509.ParseCertificateRequest(block.Bytes)
}
