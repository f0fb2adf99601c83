// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"moul.io/http2curl"

	"github.com/absmach/goca"
	"github.com/absmach/goca/pkg/errors"
)

const (
	csrEndpoint   = "certs/csr"
	signEndpoint  = "certs/sign"
	caEndpoint    = "certs/ca"
	tokenEndpoint = "certs/ca/token"
	storeEndpoint = "certs/ca/store"
)

// ContentType represents all possible content types.
type ContentType string

// CTJSON represents JSON content type.
const CTJSON ContentType = "application/json"

// Token is a credential store download token.
type Token struct {
	Token string `json:"token"`
}

// CSR is a certificate signing request with its generated private key.
type CSR struct {
	CSR        string `json:"csr"`
	PrivateKey string `json:"private_key"`
}

// Certificate is an issued certificate as returned by the service.
type Certificate struct {
	SerialNumber string    `json:"serial_number"`
	Certificate  string    `json:"certificate"`
	NotBefore    time.Time `json:"not_before"`
	ExpiryTime   time.Time `json:"expiry_time"`
}

// Config holds the SDK connection settings.
type Config struct {
	CertsURL string

	MsgContentType  ContentType
	TLSVerification bool
	CurlFlag        bool
}

// SDK is the goca HTTP client.
type SDK interface {
	// GenerateCSR requests a server-generated key pair and signing request.
	//
	// example:
	//  csr, _ := sdk.GenerateCSR(ca.SubjectOptions{CommonName: "test"})
	//  fmt.Println(csr.CSR)
	GenerateCSR(opts ca.SubjectOptions) (CSR, errors.SDKError)

	// SignCSR submits a PEM-encoded signing request for issuance.
	//
	// example:
	//  cert, _ := sdk.SignCSR(csrPEM)
	//  fmt.Println(cert.SerialNumber)
	SignCSR(csr []byte) (Certificate, errors.SDKError)

	// RetrieveCACert returns the PEM-encoded CA certificate.
	//
	// example:
	//  cert, _ := sdk.RetrieveCACert()
	//  fmt.Println(string(cert))
	RetrieveCACert() ([]byte, errors.SDKError)

	// RetrieveCAToken returns a credential store download token.
	//
	// example:
	//  token, _ := sdk.RetrieveCAToken()
	//  fmt.Println(token.Token)
	RetrieveCAToken() (Token, errors.SDKError)

	// DownloadStore downloads the serialized credential store.
	//
	// example:
	//  store, _ := sdk.DownloadStore(token, "store-secret", "key-secret")
	//  os.WriteFile("ca.p12", store, 0o600)
	DownloadStore(token, storePassword, keyPassword string) ([]byte, errors.SDKError)
}

type caSDK struct {
	certsURL string

	msgContentType ContentType
	client         *http.Client
	curlFlag       bool
}

// NewSDK creates a goca SDK instance.
func NewSDK(conf Config) SDK {
	return &caSDK{
		certsURL: conf.CertsURL,

		msgContentType: conf.MsgContentType,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !conf.TLSVerification,
				},
			},
		},
		curlFlag: conf.CurlFlag,
	}
}

func (sdk caSDK) GenerateCSR(opts ca.SubjectOptions) (CSR, errors.SDKError) {
	r := struct {
		Options ca.SubjectOptions `json:"options"`
	}{Options: opts}
	d, err := json.Marshal(r)
	if err != nil {
		return CSR{}, errors.NewSDKError(err)
	}

	url := fmt.Sprintf("%s/%s", sdk.certsURL, csrEndpoint)
	_, body, sdkerr := sdk.processRequest(http.MethodPost, url, d, nil, http.StatusCreated)
	if sdkerr != nil {
		return CSR{}, sdkerr
	}

	var csr CSR
	if err := json.Unmarshal(body, &csr); err != nil {
		return CSR{}, errors.NewSDKError(err)
	}
	return csr, nil
}

func (sdk caSDK) SignCSR(csr []byte) (Certificate, errors.SDKError) {
	r := struct {
		CSR string `json:"csr"`
	}{CSR: string(csr)}
	d, err := json.Marshal(r)
	if err != nil {
		return Certificate{}, errors.NewSDKError(err)
	}

	url := fmt.Sprintf("%s/%s", sdk.certsURL, signEndpoint)
	_, body, sdkerr := sdk.processRequest(http.MethodPost, url, d, nil, http.StatusCreated)
	if sdkerr != nil {
		return Certificate{}, sdkerr
	}

	var cert Certificate
	if err := json.Unmarshal(body, &cert); err != nil {
		return Certificate{}, errors.NewSDKError(err)
	}
	return cert, nil
}

func (sdk caSDK) RetrieveCACert() ([]byte, errors.SDKError) {
	url := fmt.Sprintf("%s/%s", sdk.certsURL, caEndpoint)
	_, body, sdkerr := sdk.processRequest(http.MethodGet, url, nil, nil, http.StatusOK)
	if sdkerr != nil {
		return nil, sdkerr
	}

	var res struct {
		Certificate string `json:"certificate"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errors.NewSDKError(err)
	}
	return []byte(res.Certificate), nil
}

func (sdk caSDK) RetrieveCAToken() (Token, errors.SDKError) {
	url := fmt.Sprintf("%s/%s", sdk.certsURL, tokenEndpoint)
	_, body, sdkerr := sdk.processRequest(http.MethodGet, url, nil, nil, http.StatusOK)
	if sdkerr != nil {
		return Token{}, sdkerr
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return Token{}, errors.NewSDKError(err)
	}
	return token, nil
}

func (sdk caSDK) DownloadStore(token, storePassword, keyPassword string) ([]byte, errors.SDKError) {
	r := struct {
		StorePassword string `json:"store_password"`
		KeyPassword   string `json:"key_password"`
	}{
		StorePassword: storePassword,
		KeyPassword:   keyPassword,
	}
	d, err := json.Marshal(r)
	if err != nil {
		return nil, errors.NewSDKError(err)
	}

	q := url.Values{}
	q.Add("token", token)
	url := fmt.Sprintf("%s/%s?%s", sdk.certsURL, storeEndpoint, q.Encode())
	_, body, sdkerr := sdk.processRequest(http.MethodPost, url, d, nil, http.StatusOK)
	if sdkerr != nil {
		return nil, sdkerr
	}
	return body, nil
}

// processRequest creates and sends a new HTTP request, and checks for errors
// in the HTTP response. It returns the response headers, the response body,
// and the associated error(s) (if any).
func (sdk caSDK) processRequest(method, reqUrl string, data []byte, headers map[string]string, expectedRespCodes ...int) (http.Header, []byte, errors.SDKError) {
	req, err := http.NewRequest(method, reqUrl, bytes.NewReader(data))
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}

	// Sets a default value for the Content-Type.
	// Overridden if Content-Type is passed in the headers arguments.
	req.Header.Add("Content-Type", string(CTJSON))

	for key, value := range headers {
		req.Header.Add(key, value)
	}

	if sdk.curlFlag {
		curlCommand, err := http2curl.GetCurlCommand(req)
		if err != nil {
			return nil, nil, errors.NewSDKError(err)
		}
		log.Println(curlCommand.String())
	}

	resp, err := sdk.client.Do(req)
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}
	defer resp.Body.Close()
	sdkerr := errors.CheckError(resp, expectedRespCodes...)
	if sdkerr != nil {
		return make(http.Header), []byte{}, sdkerr
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}
	return resp.Header, body, nil
}
