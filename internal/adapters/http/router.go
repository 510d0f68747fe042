package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/security"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
)

type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

type RouterConfig struct {
	Verifier      *security.JWTVerifier
	WebhookSecret string
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok", nil) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ready", nil) })

	r.Route("/v1", func(r chi.Router) {
		// Processor callbacks authenticate with the shared webhook secret,
		// not a user token.
		r.Group(func(r chi.Router) {
			r.Use(webhookAuthMiddleware(cfg.WebhookSecret))
			r.Post("/payments/callback", handler.processorCallback)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(cfg.Verifier))

			r.Post("/contracts", handler.createContract)
			r.Get("/contracts", handler.listContracts)
			r.Get("/contracts/{id}", handler.getContract)
			r.Delete("/contracts/{id}", handler.deleteContract)
			r.Post("/contracts/{id}/send", handler.sendToTenant)
			r.Post("/contracts/{id}/sign", handler.signContract)
			r.Post("/contracts/{id}/terminate", handler.terminateContract)
			r.Post("/contracts/{id}/expire", handler.expireContract)

			r.Post("/contracts/{id}/payments/intent", handler.createPaymentIntent)
			r.Post("/contracts/{id}/payments/confirm", handler.confirmPayment)
			r.Post("/contracts/{id}/payments/manual", handler.recordManualPayment)
			r.Get("/contracts/{id}/payments", handler.listContractPayments)
			r.Post("/payments/{id}/refund", handler.refundPayment)

			r.Post("/contracts/{id}/checklist", handler.attachChecklist)
			r.Get("/checklists/{id}", handler.getChecklist)
			r.Post("/checklists/{id}/sign", handler.tenantSignChecklist)
			r.Post("/checklists/{id}/complete", handler.completeChecklist)

			r.Get("/contracts/{id}/keys", handler.getKeyCollection)
			r.Post("/keys/{id}/confirm", handler.confirmKeyCollection)
			r.Post("/keys/{id}/complete", handler.completeKeyCollection)
			r.Post("/keys/{id}/cancel", handler.cancelKeyCollection)
			r.Post("/keys/{id}/reschedule", handler.rescheduleKeyCollection)

			r.Put("/admin/commission", handler.setCommission)
		})
	})
	return r
}
