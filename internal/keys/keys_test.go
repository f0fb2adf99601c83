// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package keys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absmach/goca/internal/keys"
)

func TestPrivateKeyRoundTrip(t *testing.T) {
	key, err := keys.Generate()
	require.NoError(t, err)
	assert.Equal(t, keys.PrivateKeyBytes, key.N.BitLen())

	encoded := keys.EncodePrivateKey(key)
	assert.Contains(t, string(encoded), "RSA PRIVATE KEY")

	restored, err := keys.ParsePrivateKey(encoded)
	require.NoError(t, err)
	assert.True(t, key.Equal(restored))
}

func TestParsePrivateKeyErrors(t *testing.T) {
	testCases := []struct {
		desc string
		data []byte
		err  error
	}{
		{
			desc: "not PEM",
			data: []byte("not pem"),
			err:  keys.ErrPEMDecode,
		},
		{
			desc: "wrong block type",
			data: []byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"),
			err:  keys.ErrPEMDecode,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := keys.ParsePrivateKey(tc.data)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestParseCertificateErrors(t *testing.T) {
	_, err := keys.ParseCertificate([]byte("not pem"))
	assert.ErrorIs(t, err, keys.ErrPEMDecode)

	_, err = keys.ParseCertificate(keys.EncodeCSR([]byte{0x01}))
	assert.ErrorIs(t, err, keys.ErrPEMDecode)
}

func TestParseCSRErrors(t *testing.T) {
	_, err := keys.ParseCSR([]byte("not pem"))
	assert.ErrorIs(t, err, keys.ErrPEMDecode)

	_, err = keys.ParseCSR(keys.EncodeCertificate([]byte{0x01}))
	assert.ErrorIs(t, err, keys.ErrPEMDecode)
}
