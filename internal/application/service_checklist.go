package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

// AttachChecklist instantiates a move-in checklist from a landlord
// template. The template contributes structure only: every per-instance
// field arrives blank no matter what the template rows carried. Attaching
// over an existing checklist replaces it.
func (s *Service) AttachChecklist(ctx context.Context, actor Actor, input AttachChecklistInput) (domain.Checklist, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Checklist{}, domain.ErrUnauthorized
	}
	input.TemplateID = strings.TrimSpace(input.TemplateID)
	if input.TemplateID == "" {
		return domain.Checklist{}, domain.ErrInvalidInput
	}
	contract, err := s.contracts.GetByID(ctx, strings.TrimSpace(input.ContractID))
	if err != nil {
		return domain.Checklist{}, err
	}
	role, ok := contract.RoleOf(actor.SubjectID)
	if !ok && !actor.Admin() {
		return domain.Checklist{}, domain.ErrForbidden
	}
	if ok && role != domain.PartyRoleLandlord && !actor.Admin() {
		return domain.Checklist{}, domain.ErrForbidden
	}
	template, err := s.templates.GetByID(ctx, input.TemplateID)
	if err != nil {
		return domain.Checklist{}, err
	}

	if err := s.checklists.DeleteByContract(ctx, contract.ContractID); err != nil && err != domain.ErrNotFound {
		return domain.Checklist{}, err
	}

	now := s.nowFn()
	deadline := now.Add(s.cfg.ChecklistDeadline)
	if contract.ChecklistDeadline != nil {
		deadline = *contract.ChecklistDeadline
	}
	checklist := domain.InstantiateChecklist(template, uuid.NewString(), contract.ContractID, deadline, now)
	if err := s.checklists.Create(ctx, checklist); err != nil {
		return domain.Checklist{}, err
	}

	if _, err := s.contracts.UpdateTx(ctx, contract.ContractID, func(c *domain.Contract) error {
		c.ChecklistID = checklist.ChecklistID
		c.ChecklistDeadline = &deadline
		c.ChecklistCompletedAt = nil
		c.UpdatedAt = now
		return nil
	}); err != nil {
		return domain.Checklist{}, err
	}

	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationChecklistAttached, contract.TenantID,
			"Move-in checklist ready",
			"Record the condition of each room and sign the checklist before the deadline.",
			"/checklists/"+checklist.ChecklistID),
	})
	return checklist, nil
}

func (s *Service) GetChecklist(ctx context.Context, actor Actor, checklistID string) (domain.Checklist, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Checklist{}, domain.ErrUnauthorized
	}
	checklist, err := s.checklists.GetByID(ctx, strings.TrimSpace(checklistID))
	if err != nil {
		return domain.Checklist{}, err
	}
	contract, err := s.contracts.GetByID(ctx, checklist.ContractID)
	if err != nil {
		return domain.Checklist{}, err
	}
	if _, ok := contract.RoleOf(actor.SubjectID); !ok && !actor.Admin() {
		return domain.Checklist{}, domain.ErrForbidden
	}
	return checklist, nil
}

// TenantSignChecklist records the tenant's condition survey and signature.
// The tenant always signs first; the landlord counter-signs afterwards.
func (s *Service) TenantSignChecklist(ctx context.Context, actor Actor, input TenantSignChecklistInput) (domain.Checklist, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Checklist{}, domain.ErrUnauthorized
	}
	input.SignatureImage = strings.TrimSpace(input.SignatureImage)
	if input.SignatureImage == "" {
		return domain.Checklist{}, domain.ErrInvalidInput
	}
	checklist, err := s.checklists.GetByID(ctx, strings.TrimSpace(input.ChecklistID))
	if err != nil {
		return domain.Checklist{}, err
	}
	contract, err := s.contracts.GetByID(ctx, checklist.ContractID)
	if err != nil {
		return domain.Checklist{}, err
	}
	if actor.SubjectID != contract.TenantID {
		return domain.Checklist{}, domain.ErrForbidden
	}
	if checklist.Status != domain.ChecklistStatusDraft {
		return domain.Checklist{}, domain.ErrPreconditionFailed
	}

	now := s.nowFn()
	applyItemUpdates(&checklist, input.Items)
	checklist.TenantSignature = &domain.Signature{Image: input.SignatureImage, SignedAt: now}
	checklist.Status = domain.ChecklistStatusTenantSigned
	checklist.UpdatedAt = now
	if err := s.checklists.Update(ctx, checklist); err != nil {
		return domain.Checklist{}, err
	}

	s.runEffects(ctx, []effect{
		s.uploadChecklistSignatureEffect(checklist.ChecklistID, domain.PartyRoleTenant, input.SignatureImage),
		s.notifyEffect(domain.NotificationChecklistSigned, contract.LandlordID,
			"Checklist signed by tenant",
			"The tenant submitted the move-in checklist. Review and counter-sign to complete it.",
			"/checklists/"+checklist.ChecklistID),
	})
	return checklist, nil
}

// CompleteChecklist is the landlord counter-signature. It requires the
// tenant's signature to already be on the record.
func (s *Service) CompleteChecklist(ctx context.Context, actor Actor, input CompleteChecklistInput) (domain.Checklist, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Checklist{}, domain.ErrUnauthorized
	}
	input.SignatureImage = strings.TrimSpace(input.SignatureImage)
	if input.SignatureImage == "" {
		return domain.Checklist{}, domain.ErrInvalidInput
	}
	checklist, err := s.checklists.GetByID(ctx, strings.TrimSpace(input.ChecklistID))
	if err != nil {
		return domain.Checklist{}, err
	}
	contract, err := s.contracts.GetByID(ctx, checklist.ContractID)
	if err != nil {
		return domain.Checklist{}, err
	}
	if actor.SubjectID != contract.LandlordID {
		return domain.Checklist{}, domain.ErrForbidden
	}
	if checklist.Status != domain.ChecklistStatusTenantSigned {
		return domain.Checklist{}, domain.ErrPreconditionFailed
	}

	now := s.nowFn()
	checklist.LandlordSignature = &domain.Signature{Image: input.SignatureImage, SignedAt: now}
	checklist.LandlordNotes = input.Notes
	checklist.Status = domain.ChecklistStatusCompleted
	checklist.CompletedAt = &now
	checklist.UpdatedAt = now
	if err := s.checklists.Update(ctx, checklist); err != nil {
		return domain.Checklist{}, err
	}

	if _, err := s.contracts.UpdateTx(ctx, contract.ContractID, func(c *domain.Contract) error {
		completedAt := now
		c.ChecklistCompletedAt = &completedAt
		c.UpdatedAt = now
		return nil
	}); err != nil {
		return domain.Checklist{}, err
	}

	s.runEffects(ctx, []effect{
		s.uploadChecklistSignatureEffect(checklist.ChecklistID, domain.PartyRoleLandlord, input.SignatureImage),
		s.notifyEffect(domain.NotificationChecklistCompleted, contract.TenantID,
			"Checklist completed",
			"The landlord counter-signed the move-in checklist.",
			"/checklists/"+checklist.ChecklistID),
	})
	return checklist, nil
}

func applyItemUpdates(checklist *domain.Checklist, updates []ChecklistItemUpdate) {
	for _, update := range updates {
		for ri := range checklist.Rooms {
			if checklist.Rooms[ri].Name != update.Room {
				continue
			}
			for ii := range checklist.Rooms[ri].Items {
				if checklist.Rooms[ri].Items[ii].Name != update.Item {
					continue
				}
				checklist.Rooms[ri].Items[ii].Condition = update.Condition
				checklist.Rooms[ri].Items[ii].Notes = update.Notes
				if update.PhotoURLs != nil {
					checklist.Rooms[ri].Items[ii].PhotoURLs = update.PhotoURLs
				}
			}
		}
	}
}

func (s *Service) uploadChecklistSignatureEffect(checklistID string, role domain.PartyRole, image string) effect {
	return effect{
		name: "upload_checklist_signature",
		run: func(ctx context.Context) error {
			if s.storage == nil {
				return nil
			}
			key := "checklists/" + checklistID + "/" + string(role) + ".png"
			url, err := s.storage.Put(ctx, key, "image/png", []byte(image))
			if err != nil {
				return err
			}
			checklist, err := s.checklists.GetByID(ctx, checklistID)
			if err != nil {
				return err
			}
			switch role {
			case domain.PartyRoleLandlord:
				if checklist.LandlordSignature != nil {
					checklist.LandlordSignature.ImageURL = url
				}
			case domain.PartyRoleTenant:
				if checklist.TenantSignature != nil {
					checklist.TenantSignature.ImageURL = url
				}
			}
			return s.checklists.Update(ctx, checklist)
		},
	}
}
