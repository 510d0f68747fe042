package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/gateway"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/memory"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

func newTestRouter(t *testing.T) (http.Handler, *memory.Repositories) {
	t.Helper()
	repos := memory.NewRepositories()
	repos.Properties.Put(domain.Property{
		PropertyID: "prop-1",
		LandlordID: "landlord-1",
		Address:    "12 Canal Street, Apt 4",
		Status:     domain.PropertyStatusRented,
	})
	svc := application.NewService(application.Dependencies{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Contracts:      repos.Contracts,
		Payments:       repos.Payments,
		Checklists:     repos.Checklists,
		Templates:      repos.Templates,
		KeyCollections: repos.KeyCollections,
		Properties:     repos.Properties,
		Outbox:         repos.Outbox,
		Commission:     &memory.CommissionStore{},
		Processor:      &gateway.FakeProcessor{},
		Storage:        &gateway.MemoryStorage{},
		Documents:      &gateway.StaticDocumentGenerator{},
		Notifier:       &gateway.RecordingNotifier{},
	})
	return NewRouter(NewHandler(svc), RouterConfig{WebhookSecret: "hook-secret"}), repos
}

func TestRouterHealth(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterRequiresBearer(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/contracts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body contracts.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Status != "error" || body.Error.Code != "unauthorized" {
		t.Fatalf("unexpected error envelope: %+v", body)
	}
}

func TestRouterCreateContract(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	leaseStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	payload, _ := json.Marshal(contracts.CreateContractRequest{
		PropertyID:           "prop-1",
		LandlordID:           "landlord-1",
		TenantID:             "tenant-1",
		LeaseStart:           leaseStart,
		LeaseEnd:             leaseStart.AddDate(1, 0, 0),
		MonthlyRentCents:     120000,
		SecurityDepositCents: 120000,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/contracts", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer landlord-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body contracts.SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode success body: %v", err)
	}
	if body.Status != "success" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestRouterCreateContractForbiddenForTenant(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	leaseStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	payload, _ := json.Marshal(contracts.CreateContractRequest{
		PropertyID:           "prop-1",
		LandlordID:           "landlord-1",
		TenantID:             "tenant-1",
		LeaseStart:           leaseStart,
		LeaseEnd:             leaseStart.AddDate(1, 0, 0),
		MonthlyRentCents:     120000,
		SecurityDepositCents: 120000,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/contracts", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer tenant-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouterWebhookSecret(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter(t)

	payload, _ := json.Marshal(contracts.ProcessorCallbackRequest{IntentID: "pi_missing", Status: "succeeded"})

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewReader(payload))
	req.Header.Set("X-Webhook-Secret", "hook-secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	// Secret accepted; the unknown intent surfaces as a domain 404.
	if rec.Code != http.StatusNotFound {
		t.Fatalf("valid secret with unknown intent: expected 404, got %d", rec.Code)
	}
}

func TestMapDomainErrorTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{domain.ErrConflict, http.StatusConflict, "conflict"},
		{domain.ErrPreconditionFailed, http.StatusUnprocessableEntity, "precondition_failed"},
		{domain.ErrUpstream, http.StatusBadGateway, "upstream_failure"},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, code := mapDomainError(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("%v: expected %d/%s, got %d/%s", tc.err, tc.status, tc.code, status, code)
		}
	}
}
