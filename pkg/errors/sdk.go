// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"encoding/json"
	"io"
	"net/http"
)

// SDKError is an error returned by the goca SDK. It carries the HTTP status
// code of the failed request alongside the decoded service error.
type SDKError interface {
	Error
	StatusCode() int
}

var _ SDKError = (*sdkError)(nil)

type sdkError struct {
	*customError
	statusCode int
}

func (ce *sdkError) StatusCode() int {
	return ce.statusCode
}

// NewSDKError wraps a plain error into an SDKError with no status code.
func NewSDKError(err error) SDKError {
	if err == nil {
		return nil
	}
	return &sdkError{
		customError: &customError{
			msg: err.Error(),
			err: nil,
		},
		statusCode: 0,
	}
}

// NewSDKErrorWithStatus wraps err with an HTTP status code.
func NewSDKErrorWithStatus(err error, statusCode int) SDKError {
	if err == nil {
		return nil
	}
	return &sdkError{
		statusCode: statusCode,
		customError: &customError{
			msg: err.Error(),
			err: nil,
		},
	}
}

// CheckError inspects an HTTP response and returns nil if its status code is
// one of the expected ones, or an SDKError decoded from the response body.
func CheckError(resp *http.Response, expectedStatusCodes ...int) SDKError {
	if resp == nil {
		return nil
	}
	for _, expected := range expectedStatusCodes {
		if resp.StatusCode == expected {
			return nil
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewSDKErrorWithStatus(err, resp.StatusCode)
	}

	var content struct {
		Err string `json:"error"`
		Msg string `json:"message"`
	}
	if err := json.Unmarshal(body, &content); err != nil {
		return NewSDKErrorWithStatus(New(string(body)), resp.StatusCode)
	}
	if content.Err == "" {
		return NewSDKErrorWithStatus(New(content.Msg), resp.StatusCode)
	}

	return &sdkError{
		statusCode: resp.StatusCode,
		customError: &customError{
			msg: content.Msg,
			err: cast(New(content.Err)),
		},
	}
}
