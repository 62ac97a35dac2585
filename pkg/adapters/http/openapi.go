// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

var openAPIJSON = sync.OnceValues(func() ([]byte, error) {
	var spec any
	if err := yaml.Unmarshal(openAPISpec, &spec); err != nil {
		return nil, err
	}
	return json.Marshal(spec)
})

// handleOpenAPI serves the embedded OpenAPI document as JSON.
func (h *Handler) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := openAPIJSON()
	if err != nil {
		h.logger.Error("openapi.load_failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, errUnexpected)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
