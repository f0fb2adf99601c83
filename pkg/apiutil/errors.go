// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "errors"

var (
	// ErrBearerToken indicates missing or invalid bearer user token.
	ErrBearerToken = errors.New("missing or invalid bearer user token")

	// ErrMissingCSR indicates that the certificate signing request is missing.
	ErrMissingCSR = errors.New("missing certificate signing request")

	// ErrMissingCN indicates that the common name is missing.
	ErrMissingCN = errors.New("missing common name")

	// ErrMissingStorePassword indicates that the credential store password is missing.
	ErrMissingStorePassword = errors.New("missing credential store password")

	// ErrMissingKeyPassword indicates that the private key password is missing.
	ErrMissingKeyPassword = errors.New("missing private key password")

	// ErrUnsupportedContentType indicates unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrInvalidRequest indicates that the request is invalid.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidQueryParams indicates invalid query parameters.
	ErrInvalidQueryParams = errors.New("invalid query parameters")
)
