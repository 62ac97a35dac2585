// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/prototipo-projetos/docbrief/pkg/core/pipeline"
)

// Multipart field names. "files" is accepted as an alias of "file".
const (
	fieldFile  = "file"
	fieldFiles = "files"
	fieldFocus = "focus"
)

// Form parts beyond this stay in temporary files until read.
const multipartMemory = 8 << 20

const (
	errTooLarge   = "O envio excede o tamanho máximo permitido."
	errBadForm    = "Não foi possível ler o formulário enviado."
	errUnexpected = "Um erro inesperado ocorreu no servidor."
)

// uploadResponse is the success body of POST /upload.
type uploadResponse struct {
	HTML      string `json:"html"`
	Dashboard string `json:"dashboard"`
}

// handleUpload handles POST /upload
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := RequestID(r.Context())
	log := h.logger.ForRequest(id)

	req := &pipeline.Request{CorrelationID: id}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	err := r.ParseMultipartForm(multipartMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		defer r.MultipartForm.RemoveAll()
	case errors.As(err, &tooLarge):
		h.writeError(w, http.StatusRequestEntityTooLarge, errTooLarge)
		return
	case errors.Is(err, http.ErrNotMultipart):
		// Reported by the pipeline as a request without files.
	default:
		log.Warn("upload.bad_form", "error", err)
		h.writeError(w, http.StatusBadRequest, errBadForm)
		return
	}

	if form := r.MultipartForm; form != nil {
		req.Focus = strings.TrimSpace(r.FormValue(fieldFocus))

		headers := slices.Concat(form.File[fieldFile], form.File[fieldFiles])
		for _, fh := range headers {
			content, err := readPart(fh)
			if err != nil {
				log.Error("upload.read_failed", "file", fh.Filename, "error", err)
				h.writeError(w, http.StatusInternalServerError, errUnexpected)
				return
			}
			req.Files = append(req.Files, pipeline.Upload{Filename: fh.Filename, Content: content})
		}

		// A file input submitted without a selection arrives as a plain
		// value with an empty filename.
		if len(headers) == 0 && (form.Value[fieldFile] != nil || form.Value[fieldFiles] != nil) {
			req.Files = []pipeline.Upload{{}}
		}
	}

	res, err := h.processor.Process(r.Context(), req)
	if err != nil {
		var perr *pipeline.Error
		if errors.As(err, &perr) {
			h.writeError(w, perr.Kind.HTTPStatus(), perr.Message)
			return
		}
		log.Error("upload.process_failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, errUnexpected)
		return
	}

	h.writeJSON(w, http.StatusOK, uploadResponse{HTML: res.HTML, Dashboard: res.Dashboard})
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
