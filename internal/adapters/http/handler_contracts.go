package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
)

func (h *Handler) createContract(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	contract, err := h.service.CreateContract(r.Context(), actor, application.CreateContractInput{
		PropertyID:           strings.TrimSpace(req.PropertyID),
		LandlordID:           strings.TrimSpace(req.LandlordID),
		TenantID:             strings.TrimSpace(req.TenantID),
		ApplicationID:        strings.TrimSpace(req.ApplicationID),
		LeaseStart:           req.LeaseStart,
		LeaseEnd:             req.LeaseEnd,
		MonthlyRentCents:     req.MonthlyRentCents,
		SecurityDepositCents: req.SecurityDepositCents,
		Currency:             strings.TrimSpace(req.Currency),
		Terms:                req.Terms,
		SpecialConditions:    req.SpecialConditions,
		SendNow:              req.SendNow,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, "", contract)
}

func (h *Handler) getContract(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	contract, err := h.service.GetContract(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", contract)
}

func (h *Handler) listContracts(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	items, err := h.service.ListContracts(r.Context(), actor)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"items": items})
}

func (h *Handler) sendToTenant(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	contract, err := h.service.SendToTenant(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "contract sent to tenant", contract)
}

func (h *Handler) signContract(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.SignContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	contract, err := h.service.SignContract(r.Context(), actor, application.SignContractInput{
		ContractID:     chi.URLParam(r, "id"),
		SignatureImage: req.SignatureImage,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", contract)
}

func (h *Handler) terminateContract(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.TerminateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	contract, err := h.service.TerminateContract(r.Context(), actor, application.TerminateContractInput{
		ContractID:      chi.URLParam(r, "id"),
		TerminationDate: req.TerminationDate,
		Reason:          req.Reason,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "contract terminated", contract)
}

func (h *Handler) expireContract(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	contract, err := h.service.ExpireContract(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "contract expired", contract)
}

func (h *Handler) deleteContract(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	if err := h.service.DeleteContract(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "contract deleted", nil)
}
