package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

func (h *Handler) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	out, err := h.service.CreatePaymentIntent(r.Context(), actor, application.PaymentIntentInput{
		ContractID:  chi.URLParam(r, "id"),
		PaymentType: domain.PaymentType(strings.ToLower(strings.TrimSpace(req.PaymentType))),
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusCreated, "", contracts.CreatePaymentIntentResponse{
		PaymentID:        out.Payment.PaymentID,
		ProcessorRef:     out.Payment.ProcessorRef,
		ClientSecret:     out.ClientSecret,
		AmountCents:      out.Payment.AmountCents,
		PlatformFeeCents: out.Payment.PlatformFeeCents,
		NetAmountCents:   out.Payment.NetAmountCents,
		Currency:         out.Payment.Currency,
	})
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	payment, err := h.service.ConfirmPayment(r.Context(), actor, req.ProcessorRef)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", payment)
}

func (h *Handler) recordManualPayment(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.ManualPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	contract, err := h.service.RecordManualPayment(r.Context(), actor, application.ManualPaymentInput{
		ContractID:  chi.URLParam(r, "id"),
		PaymentType: domain.PaymentType(strings.ToLower(strings.TrimSpace(req.PaymentType))),
		Method:      req.Method,
		Reference:   req.Reference,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "manual payment recorded", contract)
}

func (h *Handler) processorCallback(w http.ResponseWriter, r *http.Request) {
	var req contracts.ProcessorCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	payment, err := h.service.HandleProcessorCallback(r.Context(), application.ProcessorCallbackInput{
		IntentID:    req.IntentID,
		Status:      strings.ToLower(strings.TrimSpace(req.Status)),
		ContractID:  req.ContractID,
		PayerID:     req.PayerID,
		PaymentType: domain.PaymentType(strings.ToLower(strings.TrimSpace(req.PaymentType))),
		AmountCents: req.AmountCents,
	})
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", payment)
}

func (h *Handler) listContractPayments(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	items, err := h.service.ListContractPayments(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{"items": items})
}

func (h *Handler) refundPayment(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	payment, err := h.service.RefundPayment(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "payment refunded", payment)
}

func (h *Handler) setCommission(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req contracts.SetCommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), requestIDFromContext(r.Context()))
		return
	}
	if err := h.service.SetCommissionPercent(r.Context(), actor, req.Percent); err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestIDFromContext(r.Context()))
		return
	}
	writeSuccess(w, http.StatusOK, "commission updated", map[string]interface{}{"percent": req.Percent})
}
