package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"listing-credit-ledger/internal/domain"
	"listing-credit-ledger/internal/infra/metrics"
)

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCreditTypeNotFound),
		errors.Is(err, domain.ErrCreditNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrConcurrentConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCreditExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), map[string]string{"error": err.Error()})
}

// ===== Auth =====

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if s.password == "" || req.Password != s.password {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("failed admin login")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ===== Credit types =====

type creditTypeRequest struct {
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	DefaultQuantity float64 `json:"default_quantity"`
	IsMonthlyFree   bool    `json:"is_monthly_free"`
}

func (s *Server) handleTypeCreate(w http.ResponseWriter, r *http.Request) {
	var req creditTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	t, err := s.typeUC.Create(r.Context(), req.SKU, req.Name, req.DefaultQuantity, req.IsMonthlyFree)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleTypeUpdate(w http.ResponseWriter, r *http.Request) {
	var req creditTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// The SKU in the path wins; the body may omit it.
	t, err := s.typeUC.Create(r.Context(), chi.URLParam(r, "sku"), req.Name, req.DefaultQuantity, req.IsMonthlyFree)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTypeGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.typeUC.Lookup(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTypesList(w http.ResponseWriter, r *http.Request) {
	types, err := s.typeUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleTypeDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.typeUC.Delete(r.Context(), chi.URLParam(r, "sku")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Credits =====

type issueRequest struct {
	TypeSKU    string     `json:"type_sku"`
	UserID     string     `json:"user_id"`
	Expiration *time.Time `json:"expiration,omitempty"`
	PaymentID  *string    `json:"payment_id,omitempty"`
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	c, err := s.creditUC.Issue(r.Context(), req.TypeSKU, req.UserID, req.Expiration, req.PaymentID)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.IncCreditIssued(c.TypeSKU, c.IsPaid)
	writeJSON(w, http.StatusCreated, c)
}

type consumeRequest struct {
	ConsumerID string            `json:"consumer_id"`
	Quantity   float64           `json:"quantity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func consumeOutcome(err error) string {
	switch {
	case err == nil:
		return "recorded"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrCreditExpired):
		return "expired"
	case errors.Is(err, domain.ErrCreditNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConcurrentConflict):
		return "conflict"
	default:
		return "error"
	}
}

func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	rec, err := s.consumeUC.Consume(r.Context(), chi.URLParam(r, "id"), req.ConsumerID, req.Quantity, req.Metadata)
	metrics.IncConsumption(consumeOutcome(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.consumeUC.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ===== Availability =====

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	available, err := s.availUC.AvailableCredits(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, available)
}

func (s *Server) handleMonthlyFree(w http.ResponseWriter, r *http.Request) {
	c, err := s.availUC.FreeMonthlyCredit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ===== Stats =====

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	totals, err := s.statsUC.Totals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
