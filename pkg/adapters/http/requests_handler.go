// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"net/http"
	"strconv"

	"github.com/prototipo-projetos/docbrief/pkg/journal"
)

// requestsList is the body of GET /v1/requests.
type requestsList struct {
	Object string           `json:"object"`
	Data   []*journal.Entry `json:"data"`
	Limit  int              `json:"limit"`
}

// handleListRequests handles GET /v1/requests
func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, "O parâmetro limit deve ser um inteiro positivo.")
			return
		}
		limit = n
	}
	limit = journal.ClampLimit(limit)

	entries, err := h.journal.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("journal.list_failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, errUnexpected)
		return
	}
	if entries == nil {
		entries = []*journal.Entry{}
	}

	h.writeJSON(w, http.StatusOK, requestsList{Object: "list", Data: entries, Limit: limit})
}
