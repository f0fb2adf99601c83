// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package ca

import (
	"bytes"
	"context"
	"crypto/x509"
	"os"

	"github.com/absmach/goca/internal/keystore"
	"github.com/absmach/goca/pkg/errors"
)

// saveInStore assembles a credential store holding the CA certificate under
// CertificateAlias and the CA private key, with its one-certificate chain,
// under PrivateKeyAlias protected by keyPassword.
func (s *service) saveInStore(keyPassword string) (*keystore.Store, error) {
	store := keystore.New()
	if err := store.SetCertificate(CertificateAlias, s.caCert); err != nil {
		return nil, errors.Wrap(ErrStoreAssembly, err)
	}
	chain := []*x509.Certificate{s.caCert}
	if err := store.SetKeyEntry(PrivateKeyAlias, s.caKey, chain, keyPassword); err != nil {
		return nil, errors.Wrap(ErrStoreAssembly, err)
	}
	return store, nil
}

func (s *service) ExportStore(ctx context.Context, token, storePassword, keyPassword string) ([]byte, error) {
	if err := s.verifyToken(token); err != nil {
		return nil, err
	}
	store, err := s.saveInStore(keyPassword)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := store.WriteTo(&buf, storePassword); err != nil {
		return nil, errors.Wrap(ErrPersistence, err)
	}
	return buf.Bytes(), nil
}

// SaveStoreFile writes the credential store to path. The file is closed on
// every exit path; on failure a partially written file may remain.
func (s *service) SaveStoreFile(ctx context.Context, path, storePassword, keyPassword string) error {
	store, err := s.saveInStore(keyPassword)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(ErrPersistence, err)
	}
	if err := store.WriteTo(f, storePassword); err != nil {
		f.Close()
		return errors.Wrap(ErrPersistence, err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(ErrPersistence, err)
	}
	return nil
}
