// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Command docbrief serves the document summary API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Backends register themselves from init().
	_ "github.com/prototipo-projetos/docbrief/pkg/generation/gemini"
	_ "github.com/prototipo-projetos/docbrief/pkg/generation/mock"
	_ "github.com/prototipo-projetos/docbrief/pkg/generation/openai"
	_ "github.com/prototipo-projetos/docbrief/pkg/generation/vertexai"
	_ "github.com/prototipo-projetos/docbrief/pkg/journal/firestore"
	_ "github.com/prototipo-projetos/docbrief/pkg/journal/memory"
	_ "github.com/prototipo-projetos/docbrief/pkg/journal/sqlstore"
	_ "github.com/prototipo-projetos/docbrief/pkg/uploadstore/filesystem"
	_ "github.com/prototipo-projetos/docbrief/pkg/uploadstore/gcs"
	_ "github.com/prototipo-projetos/docbrief/pkg/uploadstore/memory"
	_ "github.com/prototipo-projetos/docbrief/pkg/uploadstore/s3"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "docbrief",
	Short: "Resumos executivos e dashboards a partir de documentos de projeto",
	Long: `docbrief recebe documentos Word, PDF e Excel, extrai o texto e pede ao
serviço de IA um comunicado em HTML e a descrição de um dashboard em JSON.

Sem subcomando, inicia o servidor HTTP (equivalente a "docbrief serve").`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	registerServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd, extractCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and registered backends",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "docbrief\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		for _, line := range backendSummary() {
			fmt.Fprintln(out, line)
		}
	},
}
