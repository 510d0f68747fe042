package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
)

func (h *Handler) getKeyCollection(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	collection, err := h.service.GetKeyCollection(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", collection)
}

func (h *Handler) confirmKeyCollection(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	collection, err := h.service.ConfirmKeyCollection(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", collection)
}

func (h *Handler) completeKeyCollection(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	collection, err := h.service.CompleteKeyCollection(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "keys collected", collection)
}

func (h *Handler) cancelKeyCollection(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	collection, err := h.service.CancelKeyCollection(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", collection)
}

func (h *Handler) rescheduleKeyCollection(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.RescheduleKeyCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	collection, err := h.service.RescheduleKeyCollection(r.Context(), actor, application.RescheduleKeyCollectionInput{
		CollectionID: chi.URLParam(r, "id"),
		ScheduledAt:  req.ScheduledAt,
		Location:     req.Location,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", collection)
}
