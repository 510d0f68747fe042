package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/application"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

func seedTemplate(f *fixture, templateID string) {
	f.repos.Templates.Put(domain.ChecklistTemplate{
		TemplateID: templateID,
		LandlordID: "landlord-1",
		Name:       "Two-room standard",
		Rooms: []domain.ChecklistRoom{
			{Name: "Kitchen", Items: []domain.ChecklistItem{
				{Name: "Sink", Condition: "stale-data", Notes: "left over", PhotoURLs: []string{"old.jpg"}},
				{Name: "Stove"},
			}},
			{Name: "Bedroom", Items: []domain.ChecklistItem{{Name: "Window"}}},
		},
	})
}

func TestAttachChecklistInstancesTemplate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.newContract(t, true)
	seedTemplate(f, "tpl-1")
	ctx := context.Background()

	checklist, err := f.svc.AttachChecklist(ctx, landlord(), application.AttachChecklistInput{ContractID: contract.ContractID, TemplateID: "tpl-1"})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if checklist.Status != domain.ChecklistStatusDraft {
		t.Fatalf("expected draft, got %s", checklist.Status)
	}
	for _, room := range checklist.Rooms {
		for _, item := range room.Items {
			if item.Condition != "" || item.Notes != "" || len(item.PhotoURLs) != 0 {
				t.Fatalf("template condition data leaked into instance: %+v", item)
			}
		}
	}
	if checklist.Deadline.IsZero() {
		t.Fatal("expected a deadline on the fresh checklist")
	}

	stored, err := f.repos.Contracts.GetByID(ctx, contract.ContractID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if stored.ChecklistID != checklist.ChecklistID || stored.ChecklistDeadline == nil {
		t.Fatalf("contract not linked to checklist: %+v", stored)
	}
	if got := len(f.notifier.SentTo("tenant-1")); got == 0 {
		t.Fatal("expected checklist notification to tenant")
	}
}

func TestAttachChecklistReplacesExisting(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.newContract(t, true)
	seedTemplate(f, "tpl-1")
	seedTemplate(f, "tpl-2")
	ctx := context.Background()

	first, err := f.svc.AttachChecklist(ctx, landlord(), application.AttachChecklistInput{ContractID: contract.ContractID, TemplateID: "tpl-1"})
	if err != nil {
		t.Fatalf("first attach: %v", err)
	}
	second, err := f.svc.AttachChecklist(ctx, landlord(), application.AttachChecklistInput{ContractID: contract.ContractID, TemplateID: "tpl-2"})
	if err != nil {
		t.Fatalf("second attach: %v", err)
	}
	if second.ChecklistID == first.ChecklistID {
		t.Fatal("expected a fresh checklist instance")
	}
	if _, err := f.repos.Checklists.GetByID(ctx, first.ChecklistID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("old checklist should be gone, got %v", err)
	}
	stored, err := f.repos.Contracts.GetByID(ctx, contract.ContractID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if stored.ChecklistID != second.ChecklistID {
		t.Fatalf("contract still points at old checklist: %s", stored.ChecklistID)
	}
}

func TestAttachChecklistAuthorization(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.newContract(t, true)
	seedTemplate(f, "tpl-1")
	ctx := context.Background()

	if _, err := f.svc.AttachChecklist(ctx, tenant(), application.AttachChecklistInput{ContractID: contract.ContractID, TemplateID: "tpl-1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("tenant attach: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.AttachChecklist(ctx, landlord(), application.AttachChecklistInput{ContractID: contract.ContractID, TemplateID: "tpl-missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing template: expected ErrNotFound, got %v", err)
	}
}

func TestChecklistSignOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.newContract(t, true)
	seedTemplate(f, "tpl-1")
	ctx := context.Background()

	checklist, err := f.svc.AttachChecklist(ctx, landlord(), application.AttachChecklistInput{ContractID: contract.ContractID, TemplateID: "tpl-1"})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	// Landlord cannot counter-sign before the tenant's survey exists.
	if _, err := f.svc.CompleteChecklist(ctx, landlord(), application.CompleteChecklistInput{ChecklistID: checklist.ChecklistID, SignatureImage: "sig-l"}); !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("early complete: expected ErrPreconditionFailed, got %v", err)
	}
	if _, err := f.svc.TenantSignChecklist(ctx, landlord(), application.TenantSignChecklistInput{ChecklistID: checklist.ChecklistID, SignatureImage: "sig-l"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("landlord on tenant step: expected ErrForbidden, got %v", err)
	}

	signed, err := f.svc.TenantSignChecklist(ctx, tenant(), application.TenantSignChecklistInput{
		ChecklistID: checklist.ChecklistID,
		Items: []application.ChecklistItemUpdate{
			{Room: "Kitchen", Item: "Sink", Condition: "good", Notes: "minor scratches", PhotoURLs: []string{"sink.jpg"}},
		},
		SignatureImage: "sig-t",
	})
	if err != nil {
		t.Fatalf("tenant sign: %v", err)
	}
	if signed.Status != domain.ChecklistStatusTenantSigned || signed.TenantSignature == nil {
		t.Fatalf("expected tenant_signed, got %+v", signed)
	}
	if signed.Rooms[0].Items[0].Condition != "good" || signed.Rooms[0].Items[0].Notes != "minor scratches" {
		t.Fatalf("item updates not applied: %+v", signed.Rooms[0].Items[0])
	}

	if _, err := f.svc.TenantSignChecklist(ctx, tenant(), application.TenantSignChecklistInput{ChecklistID: checklist.ChecklistID, SignatureImage: "sig-t"}); !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("tenant re-sign: expected ErrPreconditionFailed, got %v", err)
	}

	completed, err := f.svc.CompleteChecklist(ctx, landlord(), application.CompleteChecklistInput{
		ChecklistID:    checklist.ChecklistID,
		SignatureImage: "sig-l",
		Notes:          "agreed with tenant remarks",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.ChecklistStatusCompleted || completed.CompletedAt == nil || completed.LandlordSignature == nil {
		t.Fatalf("expected completed checklist, got %+v", completed)
	}
	if completed.LandlordNotes != "agreed with tenant remarks" {
		t.Fatalf("landlord notes not stored: %q", completed.LandlordNotes)
	}

	stored, err := f.repos.Contracts.GetByID(ctx, contract.ContractID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if stored.ChecklistCompletedAt == nil {
		t.Fatal("contract should record checklist completion")
	}
}

func TestChecklistSignatureUpload(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.newContract(t, true)
	seedTemplate(f, "tpl-1")
	ctx := context.Background()

	checklist, err := f.svc.AttachChecklist(ctx, landlord(), application.AttachChecklistInput{ContractID: contract.ContractID, TemplateID: "tpl-1"})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := f.svc.TenantSignChecklist(ctx, tenant(), application.TenantSignChecklistInput{ChecklistID: checklist.ChecklistID, SignatureImage: "png-bytes"}); err != nil {
		t.Fatalf("tenant sign: %v", err)
	}

	key := "checklists/" + checklist.ChecklistID + "/tenant.png"
	if string(f.storage.Objects[key]) != "png-bytes" {
		t.Fatalf("checklist signature not uploaded under %s", key)
	}
	stored, err := f.repos.Checklists.GetByID(ctx, checklist.ChecklistID)
	if err != nil {
		t.Fatalf("get checklist: %v", err)
	}
	if stored.TenantSignature == nil || stored.TenantSignature.ImageURL != "memory://"+key {
		t.Fatalf("signature url not backfilled: %+v", stored.TenantSignature)
	}
}

func TestGetChecklistAccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.newContract(t, true)
	seedTemplate(f, "tpl-1")
	ctx := context.Background()

	checklist, err := f.svc.AttachChecklist(ctx, landlord(), application.AttachChecklistInput{ContractID: contract.ContractID, TemplateID: "tpl-1"})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := f.svc.GetChecklist(ctx, stranger(), checklist.ChecklistID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.GetChecklist(ctx, tenant(), checklist.ChecklistID); err != nil {
		t.Fatalf("tenant read: %v", err)
	}
}
