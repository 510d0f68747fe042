package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
)

func (h *Handler) attachChecklist(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.AttachChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	checklist, err := h.service.AttachChecklist(r.Context(), actor, application.AttachChecklistInput{
		ContractID: chi.URLParam(r, "id"),
		TemplateID: req.TemplateID,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, "", checklist)
}

func (h *Handler) getChecklist(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	checklist, err := h.service.GetChecklist(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", checklist)
}

func (h *Handler) tenantSignChecklist(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.TenantSignChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	updates := make([]application.ChecklistItemUpdate, 0, len(req.Items))
	for _, item := range req.Items {
		updates = append(updates, application.ChecklistItemUpdate{
			Room:      item.Room,
			Item:      item.Item,
			Condition: item.Condition,
			Notes:     item.Notes,
			PhotoURLs: item.PhotoURLs,
		})
	}
	checklist, err := h.service.TenantSignChecklist(r.Context(), actor, application.TenantSignChecklistInput{
		ChecklistID:    chi.URLParam(r, "id"),
		Items:          updates,
		SignatureImage: req.SignatureImage,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", checklist)
}

func (h *Handler) completeChecklist(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.CompleteChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	checklist, err := h.service.CompleteChecklist(r.Context(), actor, application.CompleteChecklistInput{
		ChecklistID:    chi.URLParam(r, "id"),
		SignatureImage: req.SignatureImage,
		Notes:          req.Notes,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", checklist)
}
