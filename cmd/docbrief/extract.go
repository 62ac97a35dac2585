// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prototipo-projetos/docbrief/pkg/extractor"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text extracted from one local document",
	Long: `Extracts a single .docx, .pdf, .xlsx or .xls file exactly as the upload
pipeline would and prints the text. Useful to check what the AI service
will receive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := extractor.ExtractFile(args[0])
		if err != nil {
			return err
		}

		stderr := cmd.ErrOrStderr()
		details := []string{"format=" + doc.Format}
		if doc.Pages > 0 {
			details = append(details, fmt.Sprintf("pages=%d", doc.Pages))
		}
		if len(doc.Sheets) > 0 {
			details = append(details, "sheets="+strings.Join(doc.Sheets, ","))
		}
		fmt.Fprintln(stderr, strings.Join(details, " "))
		if doc.Warning != "" {
			fmt.Fprintln(stderr, doc.Warning)
		}

		fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
		return nil
	},
}
