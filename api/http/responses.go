// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"
	"time"

	"github.com/absmach/goca/internal/api"
)

var (
	_ api.Response = (*generateCSRRes)(nil)
	_ api.Response = (*signCSRRes)(nil)
	_ api.Response = (*viewCARes)(nil)
	_ api.Response = (*tokenRes)(nil)
)

type generateCSRRes struct {
	CSR        string `json:"csr"`
	PrivateKey string `json:"private_key"`
	created    bool
}

func (res generateCSRRes) Code() int {
	if res.created {
		return http.StatusCreated
	}

	return http.StatusBadRequest
}

func (res generateCSRRes) Headers() map[string]string {
	return map[string]string{}
}

func (res generateCSRRes) Empty() bool {
	return false
}

type signCSRRes struct {
	SerialNumber string    `json:"serial_number"`
	Certificate  string    `json:"certificate"`
	NotBefore    time.Time `json:"not_before"`
	ExpiryTime   time.Time `json:"expiry_time"`
	issued       bool
}

func (res signCSRRes) Code() int {
	if res.issued {
		return http.StatusCreated
	}

	return http.StatusBadRequest
}

func (res signCSRRes) Headers() map[string]string {
	return map[string]string{}
}

func (res signCSRRes) Empty() bool {
	return false
}

type viewCARes struct {
	Certificate string `json:"certificate"`
}

func (res viewCARes) Code() int {
	return http.StatusOK
}

func (res viewCARes) Headers() map[string]string {
	return map[string]string{}
}

func (res viewCARes) Empty() bool {
	return false
}

type tokenRes struct {
	Token string `json:"token"`
}

func (res tokenRes) Code() int {
	return http.StatusOK
}

func (res tokenRes) Headers() map[string]string {
	return map[string]string{}
}

func (res tokenRes) Empty() bool {
	return false
}

type storeDownloadRes struct {
	Store       []byte
	Filename    string
	ContentType string
}
