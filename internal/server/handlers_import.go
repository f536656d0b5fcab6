package server

import (
	"io"
	"net/http"

	"github.com/foliohq/folio/internal/models"
)

// maxImportDocumentBytes caps uploaded PDF size.
const maxImportDocumentBytes = 10 << 20 // 10MB

// handleImportText handles POST /api/import/text — parse pasted text into
// transactions. With commit=true the accepted records are appended to the
// user's transaction list; otherwise the parse result is returned for review.
func (s *Server) handleImportText(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.ImportService.ImportText(r.Context(), userID, req.Text)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.finishImport(w, r, userID, result)
}

// handleImportDocument handles POST /api/import/document — parse an uploaded
// PDF. The request body is the raw PDF.
func (s *Server) handleImportDocument(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImportDocumentBytes)
	pdfData, err := io.ReadAll(body)
	if err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}
	if len(pdfData) == 0 {
		WriteError(w, http.StatusBadRequest, "request body is required")
		return
	}

	result, err := s.app.ImportService.ImportDocument(r.Context(), userID, pdfData)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.finishImport(w, r, userID, result)
}

// finishImport optionally commits accepted transactions and writes the result.
func (s *Server) finishImport(w http.ResponseWriter, r *http.Request, userID string, result *models.ImportResult) {
	committed := false
	if r.URL.Query().Get("commit") == "true" && len(result.Transactions) > 0 {
		if err := s.app.Storage.TransactionStore().SaveBatch(r.Context(), userID, result.Transactions); err != nil {
			s.logger.Error().Err(err).Str("user", userID).Msg("Failed to commit imported transactions")
			WriteError(w, http.StatusInternalServerError, "failed to save imported transactions")
			return
		}
		committed = true
	}

	s.logger.Info().
		Str("user", userID).
		Str("source", result.Source).
		Int("accepted", len(result.Transactions)).
		Int("rejected", len(result.Rejected)).
		Bool("committed", committed).
		Msg("Import handled")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result":    result,
		"committed": committed,
	})
}
