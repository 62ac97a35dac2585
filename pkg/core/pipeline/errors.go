// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import "net/http"

// Kind classifies a pipeline failure.
type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindExtraction
	KindCredential
	KindGeneration
	KindTimeout
)

var kindNames = map[Kind]string{
	KindInternal:   "internal",
	KindInput:      "input",
	KindExtraction: "extraction",
	KindCredential: "credential",
	KindGeneration: "generation",
	KindTimeout:    "timeout",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// HTTPStatus maps the kind to the status code returned to callers.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInput:
		return http.StatusBadRequest
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is returned by Process. Message is safe to show to end users; Err
// holds the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// User-facing messages.
const (
	msgNoFiles        = "Nenhum arquivo enviado."
	msgNoFileSelected = "Nenhum arquivo selecionado."
	msgNoContent      = "Não foi possível extrair conteúdo do documento."
	msgNoneReadable   = "Nenhum dos arquivos enviados pôde ser lido."
	msgCredential     = "A API Key do serviço de IA não está configurada."
	msgGeneration     = "Ocorreu um erro ao comunicar com a IA. Detalhes: %v"
	msgTimeout        = "O serviço de IA não respondeu a tempo. Tente novamente."
	msgInternal       = "Um erro inesperado ocorreu no servidor."
)
