// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package keystore_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absmach/goca/internal/keystore"
)

func selfSigned(t *testing.T, cn string) (*x509.Certificate, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert, key
}

func TestSetCertificate(t *testing.T) {
	cert, _ := selfSigned(t, "test")

	testCases := []struct {
		desc  string
		alias string
		cert  *x509.Certificate
		err   error
	}{
		{
			desc:  "valid entry",
			alias: "ca",
			cert:  cert,
			err:   nil,
		},
		{
			desc:  "empty alias",
			alias: "",
			cert:  cert,
			err:   keystore.ErrEmptyAlias,
		},
		{
			desc:  "nil certificate",
			alias: "ca",
			cert:  nil,
			err:   keystore.ErrNilEntry,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			store := keystore.New()
			err := store.SetCertificate(tc.alias, tc.cert)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSetKeyEntry(t *testing.T) {
	cert, key := selfSigned(t, "test")
	chain := []*x509.Certificate{cert}

	testCases := []struct {
		desc     string
		alias    string
		key      interface{}
		chain    []*x509.Certificate
		password string
		err      error
	}{
		{
			desc:     "valid entry",
			alias:    "key",
			key:      key,
			chain:    chain,
			password: "secret",
			err:      nil,
		},
		{
			desc:     "empty alias",
			alias:    "",
			key:      key,
			chain:    chain,
			password: "secret",
			err:      keystore.ErrEmptyAlias,
		},
		{
			desc:     "nil key",
			alias:    "key",
			key:      nil,
			chain:    chain,
			password: "secret",
			err:      keystore.ErrNilEntry,
		},
		{
			desc:     "empty chain",
			alias:    "key",
			key:      key,
			chain:    nil,
			password: "secret",
			err:      keystore.ErrNilEntry,
		},
		{
			desc:     "empty password",
			alias:    "key",
			key:      key,
			chain:    chain,
			password: "",
			err:      keystore.ErrEmptyPassword,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			store := keystore.New()
			err := store.SetKeyEntry(tc.alias, tc.key, tc.chain, tc.password)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSetKeyEntrySecondAlias(t *testing.T) {
	cert, key := selfSigned(t, "test")
	chain := []*x509.Certificate{cert}

	store := keystore.New()
	require.NoError(t, store.SetKeyEntry("key", key, chain, "secret"))

	// Replacing under the same alias is allowed.
	assert.NoError(t, store.SetKeyEntry("key", key, chain, "changed"))
	// A second key entry under a different alias is not.
	assert.ErrorIs(t, store.SetKeyEntry("other", key, chain, "secret"), keystore.ErrKeyEntryExists)
}

func TestWriteTo(t *testing.T) {
	cert, key := selfSigned(t, "test")

	t.Run("no key entry", func(t *testing.T) {
		store := keystore.New()
		require.NoError(t, store.SetCertificate("ca", cert))
		var buf bytes.Buffer
		assert.ErrorIs(t, store.WriteTo(&buf, "secret"), keystore.ErrNoKeyEntry)
	})

	t.Run("empty container password", func(t *testing.T) {
		store := keystore.New()
		require.NoError(t, store.SetKeyEntry("key", key, []*x509.Certificate{cert}, "secret"))
		var buf bytes.Buffer
		assert.ErrorIs(t, store.WriteTo(&buf, ""), keystore.ErrEmptyPassword)
	})

	t.Run("round trip", func(t *testing.T) {
		store := keystore.New()
		require.NoError(t, store.SetCertificate("ca", cert))
		require.NoError(t, store.SetKeyEntry("key", key, []*x509.Certificate{cert}, "secret"))

		var buf bytes.Buffer
		require.NoError(t, store.WriteTo(&buf, "container-secret"))

		restoredKey, leaf, trusted, err := keystore.Decode(buf.Bytes(), "container-secret")
		require.NoError(t, err)
		assert.True(t, cert.Equal(leaf))
		require.Len(t, trusted, 1)
		assert.True(t, cert.Equal(trusted[0]))
		assert.True(t, key.Equal(restoredKey.(*rsa.PrivateKey)))
	})
}
