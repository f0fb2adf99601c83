// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/absmach/goca/cli"
	gocasdk "github.com/absmach/goca/sdk"
)

const defURL = "http://localhost:9010"

func main() {
	msgContentType := string(gocasdk.CTJSON)
	sdkConf := gocasdk.Config{
		CertsURL:        defURL,
		MsgContentType:  gocasdk.ContentType(msgContentType),
		TLSVerification: false,
	}

	rootCmd := &cobra.Command{
		Use:   "goca-cli",
		Short: "Certificate authority CLI",
		Long:  `CLI for the goca certificate authority service.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			s := gocasdk.NewSDK(sdkConf)
			cli.SetSDK(s)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&sdkConf.CertsURL, "certs-url", "u", sdkConf.CertsURL, "goca service URL")
	rootCmd.PersistentFlags().BoolVarP(&sdkConf.CurlFlag, "curl", "c", false, "print the curl command of each request")

	rootCmd.AddCommand(cli.NewCACmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
