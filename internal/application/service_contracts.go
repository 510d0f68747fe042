package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

func (s *Service) CreateContract(ctx context.Context, actor Actor, input CreateContractInput) (domain.Contract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Contract{}, domain.ErrUnauthorized
	}
	input.PropertyID = strings.TrimSpace(input.PropertyID)
	input.LandlordID = strings.TrimSpace(input.LandlordID)
	input.TenantID = strings.TrimSpace(input.TenantID)
	if input.PropertyID == "" || input.LandlordID == "" || input.TenantID == "" {
		return domain.Contract{}, domain.ErrInvalidInput
	}
	if input.MonthlyRentCents <= 0 || input.SecurityDepositCents < 0 {
		return domain.Contract{}, domain.ErrInvalidInput
	}
	if input.LeaseStart.IsZero() || input.LeaseEnd.IsZero() || !input.LeaseEnd.After(input.LeaseStart) {
		return domain.Contract{}, domain.ErrInvalidInput
	}
	if !actor.Admin() && actor.SubjectID != input.LandlordID {
		return domain.Contract{}, domain.ErrForbidden
	}
	if _, err := s.properties.GetByID(ctx, input.PropertyID); err != nil {
		return domain.Contract{}, err
	}

	now := s.nowFn()
	contract := domain.Contract{
		ContractID:           uuid.NewString(),
		PropertyID:           input.PropertyID,
		LandlordID:           input.LandlordID,
		TenantID:             input.TenantID,
		ApplicationID:        strings.TrimSpace(input.ApplicationID),
		LeaseStart:           input.LeaseStart,
		LeaseEnd:             input.LeaseEnd,
		MonthlyRentCents:     input.MonthlyRentCents,
		SecurityDepositCents: input.SecurityDepositCents,
		Currency:             strings.ToUpper(strings.TrimSpace(input.Currency)),
		Terms:                input.Terms,
		SpecialConditions:    input.SpecialConditions,
		Status:               domain.ContractStatusDraft,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if contract.Currency == "" {
		contract.Currency = s.cfg.DefaultCurrency
	}
	if input.SendNow {
		sentAt := now
		contract.SentToTenant = &sentAt
	}
	contract.Status = domain.DeriveStatus(contract)
	if err := s.contracts.Create(ctx, contract); err != nil {
		return domain.Contract{}, err
	}

	if input.SendNow {
		if err := s.enqueueEvent(ctx, domain.EventContractSent, actor.RequestID, contracts.ContractSentPayload{
			ContractID: contract.ContractID,
			TenantID:   contract.TenantID,
			SentAt:     now.Format(time.RFC3339),
		}, contract.ContractID, now); err != nil {
			return domain.Contract{}, err
		}
		s.runEffects(ctx, []effect{
			s.notifyEffect(domain.NotificationContractSent, contract.TenantID,
				"New rental contract",
				"A rental contract is waiting for your review and signature.",
				"/contracts/"+contract.ContractID),
		})
	}
	return contract, nil
}

func (s *Service) GetContract(ctx context.Context, actor Actor, contractID string) (domain.Contract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Contract{}, domain.ErrUnauthorized
	}
	contract, err := s.contracts.GetByID(ctx, strings.TrimSpace(contractID))
	if err != nil {
		return domain.Contract{}, err
	}
	if _, ok := contract.RoleOf(actor.SubjectID); !ok && !actor.Admin() {
		return domain.Contract{}, domain.ErrForbidden
	}
	return contract, nil
}

func (s *Service) ListContracts(ctx context.Context, actor Actor) ([]domain.Contract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.contracts.ListByParty(ctx, actor.SubjectID)
}

// SendToTenant marks the contract as delivered for review. Legal from any
// pre-signature state; re-sending an already sent contract just refreshes
// the notification.
func (s *Service) SendToTenant(ctx context.Context, actor Actor, contractID string) (domain.Contract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Contract{}, domain.ErrUnauthorized
	}
	now := s.nowFn()
	updated, err := s.contracts.UpdateTx(ctx, strings.TrimSpace(contractID), func(c *domain.Contract) error {
		role, ok := c.RoleOf(actor.SubjectID)
		if !ok && !actor.Admin() {
			return domain.ErrForbidden
		}
		if ok && role != domain.PartyRoleLandlord {
			return domain.ErrForbidden
		}
		switch c.Status {
		case domain.ContractStatusDraft, domain.ContractStatusSentToTenant:
		default:
			return domain.ErrPreconditionFailed
		}
		sentAt := now
		c.SentToTenant = &sentAt
		c.Status = domain.DeriveStatus(*c)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Contract{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventContractSent, actor.RequestID, contracts.ContractSentPayload{
		ContractID: updated.ContractID,
		TenantID:   updated.TenantID,
		SentAt:     now.Format(time.RFC3339),
	}, updated.ContractID, now); err != nil {
		return domain.Contract{}, err
	}
	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationContractSent, updated.TenantID,
			"New rental contract",
			"A rental contract is waiting for your review and signature.",
			"/contracts/"+updated.ContractID),
	})
	return updated, nil
}

// SignContract captures one party's signature and recomputes the lifecycle
// status. Landlord-first and tenant-first both converge on fully_signed:
// the transaction re-reads the other slot before deriving, so the order of
// arrival cannot matter.
func (s *Service) SignContract(ctx context.Context, actor Actor, input SignContractInput) (domain.Contract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Contract{}, domain.ErrUnauthorized
	}
	input.SignatureImage = strings.TrimSpace(input.SignatureImage)
	if input.SignatureImage == "" {
		return domain.Contract{}, domain.ErrInvalidInput
	}
	now := s.nowFn()
	var signedRole domain.PartyRole
	updated, err := s.contracts.UpdateTx(ctx, strings.TrimSpace(input.ContractID), func(c *domain.Contract) error {
		role, ok := c.RoleOf(actor.SubjectID)
		if !ok {
			return domain.ErrForbidden
		}
		switch c.Status {
		case domain.ContractStatusTerminated, domain.ContractStatusExpired, domain.ContractStatusActive:
			return domain.ErrPreconditionFailed
		}
		signature := &domain.Signature{Image: input.SignatureImage, SignedAt: now}
		switch role {
		case domain.PartyRoleLandlord:
			if c.LandlordSignature != nil {
				return domain.ErrConflict
			}
			c.LandlordSignature = signature
		case domain.PartyRoleTenant:
			if c.TenantSignature != nil {
				return domain.ErrConflict
			}
			c.TenantSignature = signature
		}
		signedRole = role
		c.Status = domain.DeriveStatus(*c)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Contract{}, err
	}

	effects := []effect{s.uploadSignatureEffect(updated.ContractID, signedRole, input.SignatureImage)}
	switch updated.Status {
	case domain.ContractStatusFullySigned:
		if err := s.enqueueEvent(ctx, domain.EventContractFullySigned, actor.RequestID, contracts.ContractFullySignedPayload{
			ContractID:       updated.ContractID,
			PropertyID:       updated.PropertyID,
			LandlordID:       updated.LandlordID,
			TenantID:         updated.TenantID,
			LandlordSignedAt: updated.LandlordSignature.SignedAt.Format(time.RFC3339),
			TenantSignedAt:   updated.TenantSignature.SignedAt.Format(time.RFC3339),
		}, updated.ContractID, now); err != nil {
			return domain.Contract{}, err
		}
		if err := s.enqueueEvent(ctx, domain.EventContractRewardAccrued, actor.RequestID, contracts.ContractRewardAccruedPayload{
			ContractID: updated.ContractID,
			LandlordID: updated.LandlordID,
			TenantID:   updated.TenantID,
			AccruedAt:  now.Format(time.RFC3339),
		}, updated.ContractID, now); err != nil {
			return domain.Contract{}, err
		}
		// Escrow may already be settled through manual payments; the
		// second signature is then what unblocks the handover.
		if err := s.checkAndScheduleKeyCollection(ctx, actor.RequestID, updated); err != nil {
			return domain.Contract{}, err
		}
		effects = append(effects,
			s.regenerateDocumentEffect(updated.ContractID),
			s.notifyEffect(domain.NotificationContractFullySigned, updated.LandlordID,
				"Contract fully signed",
				"Both parties have signed. Deposit and first month rent are now due in escrow.",
				"/contracts/"+updated.ContractID),
			s.notifyEffect(domain.NotificationContractFullySigned, updated.TenantID,
				"Contract fully signed",
				"Both parties have signed. Deposit and first month rent are now due in escrow.",
				"/contracts/"+updated.ContractID),
		)
	case domain.ContractStatusTenantSigned:
		effects = append(effects,
			s.regenerateDocumentEffect(updated.ContractID),
			s.notifyEffect(domain.NotificationContractSigned, updated.LandlordID,
				"Tenant signed the contract",
				"The tenant has signed. Counter-sign to finalize the agreement.",
				"/contracts/"+updated.ContractID),
		)
	default:
		// Landlord signed first: no status change to announce, but the
		// rendered document still picks up the new signature image.
		effects = append(effects, s.regenerateDocumentEffect(updated.ContractID))
	}
	s.runEffects(ctx, effects)
	return updated, nil
}

// TerminateContract closes the tenancy early. The property goes back to the
// searchable pool and the move-in checklist is removed so a fresh tenancy
// starts clean.
func (s *Service) TerminateContract(ctx context.Context, actor Actor, input TerminateContractInput) (domain.Contract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Contract{}, domain.ErrUnauthorized
	}
	now := s.nowFn()
	if !input.TerminationDate.After(now) {
		return domain.Contract{}, domain.ErrPreconditionFailed
	}
	updated, err := s.contracts.UpdateTx(ctx, strings.TrimSpace(input.ContractID), func(c *domain.Contract) error {
		role, ok := c.RoleOf(actor.SubjectID)
		if !ok && !actor.Admin() {
			return domain.ErrForbidden
		}
		if ok && role != domain.PartyRoleLandlord && !actor.Admin() {
			return domain.ErrForbidden
		}
		switch c.Status {
		case domain.ContractStatusTerminated, domain.ContractStatusExpired:
			return domain.ErrPreconditionFailed
		}
		c.Status = domain.ContractStatusTerminated
		terminatedAt := now
		c.TerminatedAt = &terminatedAt
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Contract{}, err
	}
	if err := s.properties.SetStatus(ctx, updated.PropertyID, domain.PropertyStatusActive, now); err != nil {
		return domain.Contract{}, err
	}
	if err := s.checklists.DeleteByContract(ctx, updated.ContractID); err != nil && err != domain.ErrNotFound {
		return domain.Contract{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventContractTerminated, actor.RequestID, contracts.ContractClosedPayload{
		ContractID: updated.ContractID,
		PropertyID: updated.PropertyID,
		Reason:     input.Reason,
		ClosedAt:   now.Format(time.RFC3339),
	}, updated.ContractID, now); err != nil {
		return domain.Contract{}, err
	}
	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationContractTerminated, updated.TenantID,
			"Contract terminated",
			"Your rental contract has been terminated.",
			"/contracts/"+updated.ContractID),
		s.notifyEffect(domain.NotificationContractTerminated, updated.LandlordID,
			"Contract terminated",
			"The rental contract has been terminated and the property is searchable again.",
			"/contracts/"+updated.ContractID),
	})
	return updated, nil
}

// ExpireContract marks a lease that ran its course. The property reverts
// to searchable but the checklist is kept as the tenancy's condition
// record.
func (s *Service) ExpireContract(ctx context.Context, actor Actor, contractID string) (domain.Contract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Contract{}, domain.ErrUnauthorized
	}
	now := s.nowFn()
	updated, err := s.contracts.UpdateTx(ctx, strings.TrimSpace(contractID), func(c *domain.Contract) error {
		role, ok := c.RoleOf(actor.SubjectID)
		if !ok && !actor.Admin() {
			return domain.ErrForbidden
		}
		if ok && role != domain.PartyRoleLandlord && !actor.Admin() {
			return domain.ErrForbidden
		}
		switch c.Status {
		case domain.ContractStatusTerminated, domain.ContractStatusExpired:
			return domain.ErrPreconditionFailed
		}
		c.Status = domain.ContractStatusExpired
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Contract{}, err
	}
	if err := s.properties.SetStatus(ctx, updated.PropertyID, domain.PropertyStatusActive, now); err != nil {
		return domain.Contract{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventContractExpired, actor.RequestID, contracts.ContractClosedPayload{
		ContractID: updated.ContractID,
		PropertyID: updated.PropertyID,
		Reason:     "lease_expired",
		ClosedAt:   now.Format(time.RFC3339),
	}, updated.ContractID, now); err != nil {
		return domain.Contract{}, err
	}
	return updated, nil
}

// DeleteContract hard-deletes a contract that never reached full
// signature. Checklist and key-collection children go with it.
func (s *Service) DeleteContract(ctx context.Context, actor Actor, contractID string) error {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.ErrUnauthorized
	}
	contractID = strings.TrimSpace(contractID)
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return err
	}
	role, ok := contract.RoleOf(actor.SubjectID)
	if !ok && !actor.Admin() {
		return domain.ErrForbidden
	}
	if ok && role != domain.PartyRoleLandlord && !actor.Admin() {
		return domain.ErrForbidden
	}
	if !contract.Deletable() {
		return domain.ErrForbidden
	}
	if err := s.checklists.DeleteByContract(ctx, contractID); err != nil && err != domain.ErrNotFound {
		return err
	}
	if err := s.keyCollections.DeleteByContract(ctx, contractID); err != nil && err != domain.ErrNotFound {
		return err
	}
	return s.contracts.Delete(ctx, contractID)
}
