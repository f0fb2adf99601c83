// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/cobra"

	"github.com/absmach/goca"
	"github.com/absmach/goca/internal/keys"
	gocasdk "github.com/absmach/goca/sdk"
)

// Keep SDK handle in global var.
var sdk gocasdk.SDK

// SetSDK sets the SDK instance used by the commands.
func SetSDK(s gocasdk.SDK) {
	sdk = s
}

var cmdCA = []cobra.Command{
	{
		Use:   "csr <common_name>",
		Short: "Generate CSR",
		Long:  `Generates a key pair and a certificate signing request locally.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			key, err := keys.Generate()
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			csr, err := ca.NewCSR(ca.SubjectOptions{CommonName: args[0]}, key)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logSaveFiles(*cmd, map[string][]byte{
				"file.csr": csr.CSR,
				"key.pem":  keys.EncodePrivateKey(key),
			})
		},
	},
	{
		Use:   "sign <csr_file>",
		Short: "Sign CSR",
		Long:  `Submits a certificate signing request file for issuance.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			csr, err := readFile(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			cert, sdkerr := sdk.SignCSR(csr)
			if sdkerr != nil {
				logErrorCmd(*cmd, sdkerr)
				return
			}
			logJSONCmd(*cmd, cert)
			logSaveFiles(*cmd, map[string][]byte{"cert.pem": []byte(cert.Certificate)})
		},
	},
	{
		Use:   "ca",
		Short: "Get CA certificate",
		Long:  `Downloads the CA certificate.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			cert, sdkerr := sdk.RetrieveCACert()
			if sdkerr != nil {
				logErrorCmd(*cmd, sdkerr)
				return
			}
			logSaveFiles(*cmd, map[string][]byte{"ca.pem": cert})
		},
	},
	{
		Use:   "token",
		Short: "Get store download token",
		Long:  `Gets a credential store download token.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			token, sdkerr := sdk.RetrieveCAToken()
			if sdkerr != nil {
				logErrorCmd(*cmd, sdkerr)
				return
			}
			logJSONCmd(*cmd, token)
		},
	},
	{
		Use:   "store <store_password> <key_password>",
		Short: "Download credential store",
		Long:  `Downloads the CA credential store protected by the given passwords.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			token, sdkerr := sdk.RetrieveCAToken()
			if sdkerr != nil {
				logErrorCmd(*cmd, sdkerr)
				return
			}
			store, sdkerr := sdk.DownloadStore(token.Token, args[0], args[1])
			if sdkerr != nil {
				logErrorCmd(*cmd, sdkerr)
				return
			}
			logSaveFiles(*cmd, map[string][]byte{"ca.p12": store})
			logOKCmd(*cmd)
		},
	},
}

// NewCACmd returns the certificate authority command.
func NewCACmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "certs [csr | sign | ca | token | store]",
		Short: "Certificate authority management",
		Long:  `Certificate authority management: generate CSR, sign CSR, download CA certificate and credential store.`,
	}

	for i := range cmdCA {
		cmd.AddCommand(&cmdCA[i])
	}

	return &cmd
}
