// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package keystore implements a password-protected credential store holding
// certificates and private keys under string aliases, serialized as PKCS#12.
package keystore

import (
	"crypto"
	"crypto/x509"
	"errors"
	"io"

	"software.sslmate.com/src/go-pkcs12"
)

var (
	// ErrEmptyPassword indicates an attempt to protect an entry or the store
	// container with an empty password.
	ErrEmptyPassword = errors.New("empty password provided for protected entry")

	// ErrEmptyAlias indicates an entry without an alias.
	ErrEmptyAlias = errors.New("empty entry alias")

	// ErrNilEntry indicates a certificate or key entry without material.
	ErrNilEntry = errors.New("nil entry material")

	// ErrNoKeyEntry indicates serialization of a store without a key entry.
	ErrNoKeyEntry = errors.New("store holds no private key entry")

	// ErrKeyEntryExists indicates a second key entry under a different alias.
	// PKCS#12 output as produced here carries a single key bag.
	ErrKeyEntryExists = errors.New("store already holds a private key entry")
)

type keyEntry struct {
	alias    string
	key      crypto.PrivateKey
	chain    []*x509.Certificate
	password string
}

// Store is an in-memory credential store. It is assembled entry by entry and
// serialized once via WriteTo; it is not safe for concurrent mutation.
//
// The PKCS#12 format derives both entry shrouding and the container MAC from
// a single passphrase, so the encoded bytes are governed by the container
// password passed to WriteTo. Entry passwords are still required and
// validated, which keeps the caller contract of per-entry protection.
type Store struct {
	aliases map[string]*x509.Certificate
	key     *keyEntry
}

// New creates an empty store.
func New() *Store {
	return &Store{
		aliases: make(map[string]*x509.Certificate),
	}
}

// SetCertificate adds a trusted certificate entry under alias.
func (s *Store) SetCertificate(alias string, cert *x509.Certificate) error {
	if alias == "" {
		return ErrEmptyAlias
	}
	if cert == nil {
		return ErrNilEntry
	}
	s.aliases[alias] = cert
	return nil
}

// SetKeyEntry adds a password-protected private key entry with its
// certificate chain under alias. The password must be non-empty; an empty
// password would silently produce an unprotected key entry.
func (s *Store) SetKeyEntry(alias string, key crypto.PrivateKey, chain []*x509.Certificate, password string) error {
	if alias == "" {
		return ErrEmptyAlias
	}
	if key == nil || len(chain) == 0 {
		return ErrNilEntry
	}
	if password == "" {
		return ErrEmptyPassword
	}
	if s.key != nil && s.key.alias != alias {
		return ErrKeyEntryExists
	}
	s.key = &keyEntry{
		alias:    alias,
		key:      key,
		chain:    chain,
		password: password,
	}
	return nil
}

// WriteTo serializes the store to w, protected by the container password.
func (s *Store) WriteTo(w io.Writer, password string) error {
	if s.key == nil {
		return ErrNoKeyEntry
	}
	if password == "" {
		return ErrEmptyPassword
	}

	trusted := make([]*x509.Certificate, 0, len(s.aliases)+len(s.key.chain)-1)
	for _, cert := range s.aliases {
		trusted = append(trusted, cert)
	}
	trusted = append(trusted, s.key.chain[1:]...)

	pfx, err := pkcs12.Modern.Encode(s.key.key, s.key.chain[0], trusted, password)
	if err != nil {
		return err
	}
	_, err = w.Write(pfx)
	return err
}

// Decode parses serialized store bytes back into the private key entry's key
// and leaf certificate plus the remaining trusted certificates.
func Decode(data []byte, password string) (crypto.PrivateKey, *x509.Certificate, []*x509.Certificate, error) {
	return pkcs12.DecodeChain(data, password)
}
