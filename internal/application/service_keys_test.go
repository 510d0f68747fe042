package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

func settledContract(t *testing.T, f *fixture) domain.Contract {
	t.Helper()
	contract := f.newContract(t, true)
	f.fullySign(t, contract.ContractID)
	f.settleEscrow(t, contract.ContractID)
	return contract
}

func TestKeyCollectionProposedSlot(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := settledContract(t, f)

	collection, err := f.svc.GetKeyCollection(context.Background(), tenant(), contract.ContractID)
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}
	// Lease starts 2026-10-01 00:00 UTC; one day lead puts the proposal on
	// 2026-09-30 at the midday handover hour.
	want := time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC)
	if !collection.ScheduledAt.Equal(want) {
		t.Fatalf("expected slot %v, got %v", want, collection.ScheduledAt)
	}
	if collection.Location != "12 Canal Street, Apt 4" {
		t.Fatalf("expected property address as default location, got %q", collection.Location)
	}
	if collection.Status != domain.KeyCollectionStatusScheduled {
		t.Fatalf("expected scheduled, got %s", collection.Status)
	}
	if collection.LandlordConfirmed || collection.TenantConfirmed {
		t.Fatal("fresh proposal must not carry confirmations")
	}
}

func TestKeyCollectionScheduledOnlyOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := settledContract(t, f)
	ctx := context.Background()

	first, err := f.svc.GetKeyCollection(ctx, tenant(), contract.ContractID)
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}

	// Replayed completion callbacks must not double-book the handover.
	payments, err := f.svc.ListContractPayments(ctx, tenant(), contract.ContractID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	for _, payment := range payments {
		if _, err := f.svc.HandleProcessorCallback(ctx, application.ProcessorCallbackInput{IntentID: payment.ProcessorRef, Status: "succeeded"}); err != nil {
			t.Fatalf("replay callback: %v", err)
		}
	}

	second, err := f.svc.GetKeyCollection(ctx, tenant(), contract.ContractID)
	if err != nil {
		t.Fatalf("get collection after replay: %v", err)
	}
	if second.CollectionID != first.CollectionID {
		t.Fatalf("collection was replaced: %s -> %s", first.CollectionID, second.CollectionID)
	}
	if got := f.outboxCount(t, domain.EventKeysScheduled); got != 1 {
		t.Fatalf("expected exactly 1 key_collection.scheduled event, got %d", got)
	}
}

func TestSchedulingWaitsForSignatures(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.newContract(t, true)
	ctx := context.Background()

	// Manual payments can settle escrow before anyone has signed. The
	// handover must not be booked on an unsigned contract.
	for _, input := range []application.ManualPaymentInput{
		{ContractID: contract.ContractID, PaymentType: domain.PaymentTypeDeposit, Method: "cash"},
		{ContractID: contract.ContractID, PaymentType: domain.PaymentTypeRent, Method: "bank_transfer"},
	} {
		if _, err := f.svc.RecordManualPayment(ctx, landlord(), input); err != nil {
			t.Fatalf("manual %s: %v", input.PaymentType, err)
		}
	}
	if _, err := f.repos.KeyCollections.GetByContract(ctx, contract.ContractID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unsigned contract must not get a key collection, got %v", err)
	}
	stored, err := f.repos.Contracts.GetByID(ctx, contract.ContractID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if stored.Status != domain.ContractStatusSentToTenant {
		t.Fatalf("settling escrow must not advance an unsigned contract, got %s", stored.Status)
	}

	// The second signature is what unblocks the already-settled escrow.
	f.fullySign(t, contract.ContractID)
	if _, err := f.repos.KeyCollections.GetByContract(ctx, contract.ContractID); err != nil {
		t.Fatalf("full signature must catch up on scheduling: %v", err)
	}
	if got := f.outboxCount(t, domain.EventKeysScheduled); got != 1 {
		t.Fatalf("expected exactly 1 key_collection.scheduled event, got %d", got)
	}
}

func TestConfirmKeyCollectionBothParties(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := settledContract(t, f)
	ctx := context.Background()

	collection, err := f.svc.GetKeyCollection(ctx, tenant(), contract.ContractID)
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}

	afterLandlord, err := f.svc.ConfirmKeyCollection(ctx, landlord(), collection.CollectionID)
	if err != nil {
		t.Fatalf("landlord confirm: %v", err)
	}
	if afterLandlord.Status != domain.KeyCollectionStatusScheduled || !afterLandlord.LandlordConfirmed {
		t.Fatalf("one confirmation must not confirm the slot: %+v", afterLandlord)
	}

	afterTenant, err := f.svc.ConfirmKeyCollection(ctx, tenant(), collection.CollectionID)
	if err != nil {
		t.Fatalf("tenant confirm: %v", err)
	}
	if afterTenant.Status != domain.KeyCollectionStatusConfirmed {
		t.Fatalf("expected confirmed after both parties, got %s", afterTenant.Status)
	}

	if _, err := f.svc.ConfirmKeyCollection(ctx, stranger(), collection.CollectionID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger confirm: expected ErrForbidden, got %v", err)
	}
}

func TestCompleteKeyCollectionActivatesContract(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := settledContract(t, f)
	ctx := context.Background()

	collection, err := f.svc.GetKeyCollection(ctx, tenant(), contract.ContractID)
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}

	if _, err := f.svc.CompleteKeyCollection(ctx, landlord(), collection.CollectionID); !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("complete before confirmation: expected ErrPreconditionFailed, got %v", err)
	}

	if _, err := f.svc.ConfirmKeyCollection(ctx, landlord(), collection.CollectionID); err != nil {
		t.Fatalf("landlord confirm: %v", err)
	}
	if _, err := f.svc.ConfirmKeyCollection(ctx, tenant(), collection.CollectionID); err != nil {
		t.Fatalf("tenant confirm: %v", err)
	}

	completed, err := f.svc.CompleteKeyCollection(ctx, landlord(), collection.CollectionID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.KeyCollectionStatusCompleted || completed.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", completed)
	}

	stored, err := f.repos.Contracts.GetByID(ctx, contract.ContractID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if !stored.KeysCollected || stored.Status != domain.ContractStatusActive {
		t.Fatalf("handover must activate the contract: keys=%v status=%s", stored.KeysCollected, stored.Status)
	}
	if got := f.outboxCount(t, domain.EventKeysCompleted); got != 1 {
		t.Fatalf("expected 1 key_collection.completed event, got %d", got)
	}
	if got := f.outboxCount(t, domain.EventContractActivated); got != 1 {
		t.Fatalf("expected 1 contract.activated event, got %d", got)
	}

	// Completing again is a no-op, not an error.
	again, err := f.svc.CompleteKeyCollection(ctx, landlord(), collection.CollectionID)
	if err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
	if again.Status != domain.KeyCollectionStatusCompleted {
		t.Fatalf("expected completed, got %s", again.Status)
	}
	if got := f.outboxCount(t, domain.EventContractActivated); got != 1 {
		t.Fatalf("repeat completion enqueued another activation event: %d", got)
	}
}

func TestRescheduleResetsConfirmations(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := settledContract(t, f)
	ctx := context.Background()

	collection, err := f.svc.GetKeyCollection(ctx, tenant(), contract.ContractID)
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}
	if _, err := f.svc.ConfirmKeyCollection(ctx, landlord(), collection.CollectionID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	newSlot := time.Date(2026, 9, 29, 16, 0, 0, 0, time.UTC)
	if _, err := f.svc.RescheduleKeyCollection(ctx, tenant(), application.RescheduleKeyCollectionInput{CollectionID: collection.CollectionID, ScheduledAt: newSlot}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("tenant reschedule: expected ErrForbidden, got %v", err)
	}

	moved, err := f.svc.RescheduleKeyCollection(ctx, landlord(), application.RescheduleKeyCollectionInput{
		CollectionID: collection.CollectionID,
		ScheduledAt:  newSlot,
		Location:     "Agency office",
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !moved.ScheduledAt.Equal(newSlot) || moved.Location != "Agency office" {
		t.Fatalf("slot not moved: %+v", moved)
	}
	if moved.LandlordConfirmed || moved.TenantConfirmed || moved.Status != domain.KeyCollectionStatusScheduled {
		t.Fatalf("moving the slot must reset agreement: %+v", moved)
	}
}

func TestCancelKeyCollection(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := settledContract(t, f)
	ctx := context.Background()

	collection, err := f.svc.GetKeyCollection(ctx, tenant(), contract.ContractID)
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}
	if _, err := f.svc.ConfirmKeyCollection(ctx, landlord(), collection.CollectionID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := f.svc.CancelKeyCollection(ctx, tenant(), collection.CollectionID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("tenant cancel: expected ErrForbidden, got %v", err)
	}

	cancelled, err := f.svc.CancelKeyCollection(ctx, landlord(), collection.CollectionID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.KeyCollectionStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled with timestamp, got %+v", cancelled)
	}
	if cancelled.LandlordConfirmed || cancelled.TenantConfirmed {
		t.Fatal("cancelling must drop confirmations")
	}

	// Cancelling again is a no-op; confirming a cancelled slot is not.
	if _, err := f.svc.CancelKeyCollection(ctx, landlord(), collection.CollectionID); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	if _, err := f.svc.ConfirmKeyCollection(ctx, tenant(), collection.CollectionID); !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("confirm on cancelled: expected ErrPreconditionFailed, got %v", err)
	}

	// Rescheduling revives the cancelled proposal in place.
	revived, err := f.svc.RescheduleKeyCollection(ctx, landlord(), application.RescheduleKeyCollectionInput{
		CollectionID: collection.CollectionID,
		ScheduledAt:  time.Date(2026, 9, 29, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("reschedule after cancel: %v", err)
	}
	if revived.Status != domain.KeyCollectionStatusScheduled || revived.CancelledAt != nil {
		t.Fatalf("reschedule should revive the row: %+v", revived)
	}
}

func TestGetKeyCollectionAccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := settledContract(t, f)
	ctx := context.Background()

	if _, err := f.svc.GetKeyCollection(ctx, stranger(), contract.ContractID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.GetKeyCollection(ctx, admin(), contract.ContractID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}
