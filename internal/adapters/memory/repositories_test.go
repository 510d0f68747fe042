package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

func TestFindPendingMatchReturnsOldest(t *testing.T) {
	t.Parallel()
	repos := NewRepositories()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	rows := []domain.Payment{
		{PaymentID: "pay-new", ContractID: "c-1", PayerID: "t-1", AmountCents: 50000, Status: domain.PaymentStatusPending, CreatedAt: base.Add(2 * time.Hour)},
		{PaymentID: "pay-old", ContractID: "c-1", PayerID: "t-1", AmountCents: 50000, Status: domain.PaymentStatusPending, CreatedAt: base},
		{PaymentID: "pay-done", ContractID: "c-1", PayerID: "t-1", AmountCents: 50000, Status: domain.PaymentStatusCompleted, CreatedAt: base.Add(-time.Hour)},
		{PaymentID: "pay-other", ContractID: "c-2", PayerID: "t-1", AmountCents: 50000, Status: domain.PaymentStatusPending, CreatedAt: base.Add(-time.Hour)},
	}
	for _, row := range rows {
		if err := repos.Payments.Create(ctx, row); err != nil {
			t.Fatalf("create %s: %v", row.PaymentID, err)
		}
	}

	match, err := repos.Payments.FindPendingMatch(ctx, "c-1", "t-1", 50000)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if match.PaymentID != "pay-old" {
		t.Fatalf("expected oldest pending row pay-old, got %s", match.PaymentID)
	}

	if _, err := repos.Payments.FindPendingMatch(ctx, "c-1", "t-1", 99999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unmatched tuple, got %v", err)
	}
}
