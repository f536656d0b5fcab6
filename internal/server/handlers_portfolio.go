package server

import (
	"net/http"

	"github.com/foliohq/folio/internal/models"
)

// handleTransactions handles /api/transactions — GET lists, POST adds.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		txs, err := s.app.PortfolioService.ListTransactions(r.Context(), userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user", userID).Msg("Failed to list transactions")
			WriteError(w, http.StatusInternalServerError, "failed to list transactions")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"transactions": txs,
			"count":        len(txs),
		})

	case http.MethodPost:
		var tx models.Transaction
		if !DecodeJSON(w, r, &tx) {
			return
		}
		saved, err := s.app.PortfolioService.AddTransaction(r.Context(), userID, tx)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, saved)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTransactionByID handles DELETE /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	txID := PathParam(r, "/api/transactions/", "")
	if txID == "" {
		WriteError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	if err := s.app.PortfolioService.DeleteTransaction(r.Context(), userID, txID); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": txID})
}

// handlePrices handles /api/prices — GET returns the snapshot, PUT replaces it.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		prices, err := s.app.PortfolioService.GetPrices(r.Context(), userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user", userID).Msg("Failed to get prices")
			WriteError(w, http.StatusInternalServerError, "failed to get prices")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"prices": prices})

	case http.MethodPut:
		var req struct {
			Prices models.PriceMap `json:"prices"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		if err := s.app.PortfolioService.SetPrices(r.Context(), userID, req.Prices); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"count":  len(req.Prices),
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// handlePortfolio handles GET /api/portfolio — the aggregated view.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	view, err := s.app.PortfolioService.View(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user", userID).Msg("Failed to build portfolio view")
		WriteError(w, http.StatusInternalServerError, "failed to build portfolio view")
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// handlePortfolioChart handles GET /api/portfolio/chart — a rendered PNG.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	png, err := s.app.PortfolioService.RenderChart(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handlePortfolioSummary handles GET /api/portfolio/summary — AI summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	summary, err := s.app.PortfolioService.Summarize(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	if summary == "" {
		WriteError(w, http.StatusServiceUnavailable, "AI summaries are not configured")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
