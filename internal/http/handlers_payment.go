package http

import (
	"log/slog"
	"net/http"

	"payviu/internal/auth"
	"payviu/internal/core"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.FromContext(r.Context())

	query := r.URL.Query().Get("q")
	sortBy := core.SortOption(r.URL.Query().Get("sort"))
	if sortBy == "" {
		sortBy = core.SortByDueDate
	}
	if !sortBy.Valid() {
		respondError(w, r, http.StatusBadRequest, "sort must be dueDate or priority")
		return
	}

	payments, err := s.service.List(r.Context(), user.ID, query, sortBy)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if payments == nil {
		payments = []core.Payment{}
	}
	respondJSON(w, r, http.StatusOK, payments)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.FromContext(r.Context())

	var req createPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	params, err := req.toParams()
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := s.service.Create(r.Context(), user.ID, params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Payment created via API",
		"payment_id", payment.ID,
		"title", payment.Title,
		"user_id", user.ID)

	respondJSON(w, r, http.StatusCreated, payment)
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.FromContext(r.Context())
	id := r.PathValue("id")

	var req updatePaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := s.service.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, payment)
}

func (s *Server) handleApplyPayment(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.FromContext(r.Context())
	id := r.PathValue("id")

	var req applyPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := s.service.ApplyPayment(r.Context(), user.ID, id, req.Amount)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Payment applied via API",
		"payment_id", payment.ID,
		"amount", req.Amount.String(),
		"status", payment.Status)

	respondJSON(w, r, http.StatusOK, payment)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.FromContext(r.Context())
	id := r.PathValue("id")

	if err := s.service.Delete(r.Context(), user.ID, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
