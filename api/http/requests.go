// Copyright (c) Ultraviolet
package http

import (
	"github.com/absmach/goca"
	"github.com/absmach/goca/pkg/apiutil"
	"github.com/absmach/goca/pkg/errors"
)

type generateCSRReq struct {
	Options ca.SubjectOptions `json:"options"`
}

func (req generateCSRReq) validate() error {
	if req.Options.CommonName == "" {
		return errors.Wrap(apiutil.ErrValidation, apiutil.ErrMissingCN)
	}
	return nil
}

type signCSRReq struct {
	CSR string `json:"csr"`
}

func (req signCSRReq) validate() error {
	if req.CSR == "" {
		return errors.Wrap(apiutil.ErrValidation, apiutil.ErrMissingCSR)
	}
	return nil
}

type viewCAReq struct{}

func (req viewCAReq) validate() error {
	return nil
}

type exportStoreReq struct {
	token         string
	StorePassword string `json:"store_password"`
	KeyPassword   string `json:"key_password"`
}

func (req exportStoreReq) validate() error {
	if req.token == "" {
		return errors.Wrap(apiutil.ErrValidation, apiutil.ErrBearerToken)
	}
	if req.StorePassword == "" {
		return errors.Wrap(apiutil.ErrValidation, apiutil.ErrMissingStorePassword)
	}
	if req.KeyPassword == "" {
		return errors.Wrap(apiutil.ErrValidation, apiutil.ErrMissingKeyPassword)
	}
	return nil
}
