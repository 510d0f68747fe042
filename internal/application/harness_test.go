package application_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/gateway"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/adapters/memory"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type fixture struct {
	svc        *application.Service
	repos      *memory.Repositories
	commission *memory.CommissionStore
	processor  *gateway.FakeProcessor
	storage    *gateway.MemoryStorage
	documents  *gateway.StaticDocumentGenerator
	notifier   *gateway.RecordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewRepositories()
	f := &fixture{
		repos:      repos,
		commission: &memory.CommissionStore{},
		processor:  &gateway.FakeProcessor{},
		storage:    &gateway.MemoryStorage{},
		documents:  &gateway.StaticDocumentGenerator{},
		notifier:   &gateway.RecordingNotifier{},
	}
	f.svc = application.NewService(application.Dependencies{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Contracts:      repos.Contracts,
		Payments:       repos.Payments,
		Checklists:     repos.Checklists,
		Templates:      repos.Templates,
		KeyCollections: repos.KeyCollections,
		Properties:     repos.Properties,
		Outbox:         repos.Outbox,
		Commission:     f.commission,
		Processor:      f.processor,
		Storage:        f.storage,
		Documents:      f.documents,
		Notifier:       f.notifier,
	})
	return f
}

func landlord() application.Actor { return application.Actor{SubjectID: "landlord-1", Role: "user"} }
func tenant() application.Actor   { return application.Actor{SubjectID: "tenant-1", Role: "user"} }
func admin() application.Actor    { return application.Actor{SubjectID: "admin-1", Role: "admin"} }
func stranger() application.Actor { return application.Actor{SubjectID: "someone-else", Role: "user"} }

func (f *fixture) seedProperty() domain.Property {
	property := domain.Property{
		PropertyID: "prop-1",
		LandlordID: "landlord-1",
		Address:    "12 Canal Street, Apt 4",
		Status:     domain.PropertyStatusRented,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	f.repos.Properties.Put(property)
	return property
}

// newContract seeds a property and creates a draft contract with standard
// terms: rent 120000, deposit 120000, lease starting in 30 days.
func (f *fixture) newContract(t *testing.T, sendNow bool) domain.Contract {
	t.Helper()
	f.seedProperty()
	leaseStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	contract, err := f.svc.CreateContract(context.Background(), landlord(), application.CreateContractInput{
		PropertyID:           "prop-1",
		LandlordID:           "landlord-1",
		TenantID:             "tenant-1",
		LeaseStart:           leaseStart,
		LeaseEnd:             leaseStart.AddDate(1, 0, 0),
		MonthlyRentCents:     120000,
		SecurityDepositCents: 120000,
		Currency:             "EUR",
		SendNow:              sendNow,
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	return contract
}

// fullySign applies both party signatures, landlord first.
func (f *fixture) fullySign(t *testing.T, contractID string) domain.Contract {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.SignContract(ctx, landlord(), application.SignContractInput{ContractID: contractID, SignatureImage: "sig-landlord"}); err != nil {
		t.Fatalf("landlord sign: %v", err)
	}
	contract, err := f.svc.SignContract(ctx, tenant(), application.SignContractInput{ContractID: contractID, SignatureImage: "sig-tenant"})
	if err != nil {
		t.Fatalf("tenant sign: %v", err)
	}
	return contract
}

// settleEscrow pays deposit and rent through intent plus confirmation.
func (f *fixture) settleEscrow(t *testing.T, contractID string) {
	t.Helper()
	ctx := context.Background()
	for _, paymentType := range []domain.PaymentType{domain.PaymentTypeDeposit, domain.PaymentTypeRent} {
		out, err := f.svc.CreatePaymentIntent(ctx, tenant(), application.PaymentIntentInput{ContractID: contractID, PaymentType: paymentType})
		if err != nil {
			t.Fatalf("intent %s: %v", paymentType, err)
		}
		if _, err := f.svc.ConfirmPayment(ctx, tenant(), out.Payment.ProcessorRef); err != nil {
			t.Fatalf("confirm %s: %v", paymentType, err)
		}
	}
}

// outboxCount tallies unpublished outbox records by event type.
func (f *fixture) outboxCount(t *testing.T, eventType string) int {
	t.Helper()
	records, err := f.repos.Outbox.ListUnpublished(context.Background(), 1000)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	n := 0
	for _, record := range records {
		if record.EventType == eventType {
			n++
		}
	}
	return n
}
