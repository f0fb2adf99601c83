// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ca_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absmach/goca"
	"github.com/absmach/goca/internal/keys"
	"github.com/absmach/goca/pkg/errors"
)

func TestNewCSR(t *testing.T) {
	key, err := keys.Generate()
	require.NoError(t, err)

	opts := ca.SubjectOptions{
		CommonName:         "device-01",
		Organization:       []string{"Abstract Machines"},
		OrganizationalUnit: []string{"Engineering"},
		Country:            []string{"FR"},
		DNSNames:           []string{"device-01.example.com"},
	}

	csr, err := ca.NewCSR(opts, key)
	require.NoError(t, err)
	assert.NotEmpty(t, csr.CSR)

	parsed, err := keys.ParseCSR(csr.CSR)
	require.NoError(t, err)

	assert.NoError(t, parsed.CheckSignature(), "request must carry a valid self-signature")
	assert.Equal(t, "device-01", parsed.Subject.CommonName)
	assert.Equal(t, []string{"Abstract Machines"}, parsed.Subject.Organization)
	assert.Equal(t, []string{"device-01.example.com"}, parsed.DNSNames)
	assert.True(t, key.PublicKey.Equal(parsed.PublicKey))
}

func TestNewCSRUnsupportedKey(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	_, err = ca.NewCSR(ca.SubjectOptions{CommonName: "device-01"}, ecKey)
	require.True(t, errors.Contains(err, ca.ErrUnsupportedKeyType), "expected %v, got %v", ca.ErrUnsupportedKeyType, err)
}
