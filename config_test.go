// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ca_test

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absmach/goca"
)

func TestLoadConfig(t *testing.T) {
	content := `common_name: Test Root Certificate Authority
organization:
  - Abstract Machines
organizational_unit:
  - Engineering
country:
  - FR
locality:
  - Paris
dns_names:
  - ca.example.com
ip_addresses:
  - 10.0.0.1
  - not-an-ip
`
	path := filepath.Join(t.TempDir(), "ca.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := ca.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Test Root Certificate Authority", cfg.CommonName)
	assert.Equal(t, []string{"Abstract Machines"}, cfg.Organization)
	assert.Equal(t, []string{"Engineering"}, cfg.OrganizationalUnit)
	assert.Equal(t, []string{"FR"}, cfg.Country)
	assert.Equal(t, []string{"Paris"}, cfg.Locality)
	assert.Equal(t, []string{"ca.example.com"}, cfg.DNSNames)
	// Unparsable addresses are skipped.
	require.Len(t, cfg.IPAddresses, 1)
	assert.True(t, cfg.IPAddresses[0].Equal(net.ParseIP("10.0.0.1")))
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := []struct {
		desc string
		path string
	}{
		{
			desc: "missing file",
			path: filepath.Join(t.TempDir(), "missing.yaml"),
		},
		{
			desc: "malformed yaml",
			path: writeTemp(t, "common_name: [unterminated"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ca.LoadConfig(tc.path)
			assert.Error(t, err)
		})
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
