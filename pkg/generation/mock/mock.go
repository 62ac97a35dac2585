// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package mock is a generation backend that answers without calling any
// service. It lets the server run locally without an API key.
package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/prototipo-projetos/docbrief/pkg/generation"
	"github.com/prototipo-projetos/docbrief/pkg/prompt"
	"github.com/prototipo-projetos/docbrief/pkg/provider"
)

func init() {
	generation.Providers.Register("mock", func(_ context.Context, _ provider.Params) (generation.Generator, error) {
		return New(), nil
	})
}

// Client returns a fixed, well-formed answer that echoes the prompt size.
type Client struct{}

// New creates a mock client.
func New() *Client { return &Client{} }

// Model reports "mock".
func (c *Client) Model() string { return "mock" }

// Generate builds an answer containing both marker blocks.
func (c *Client) Generate(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(prompt.HTMLOpen)
	b.WriteString("\n<div class=\"comunicado\">\n<h2>Relatório de teste</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Resumo Executivo:</strong> Resposta simulada para um pedido de %d caracteres.</p>\n", len(p))
	b.WriteString("</div>\n")
	b.WriteString(prompt.HTMLClose)
	b.WriteString("\n\n")
	b.WriteString(prompt.JSONOpen)
	fmt.Fprintf(&b, "\n[{\"tipo_visualizacao_sugerida\": \"kpi\", \"titulo\": \"Tamanho do pedido\", \"valor\": \"%d\", \"descricao\": \"caracteres enviados\"}]\n", len(p))
	b.WriteString(prompt.JSONClose)
	b.WriteString("\n")
	return b.String(), nil
}
