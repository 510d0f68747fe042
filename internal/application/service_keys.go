package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

// checkAndScheduleKeyCollection is re-evaluated at the tail of every
// escrow-completion call, manual or automated, and again when the second
// signature lands. It only ever creates the handover proposal; promoting
// the contract to active happens when the collection itself is completed.
func (s *Service) checkAndScheduleKeyCollection(ctx context.Context, traceID string, contract domain.Contract) error {
	if !contract.EscrowSettled() || contract.KeysCollected {
		return nil
	}
	// Manual payments can settle escrow on an unsigned contract; the
	// handover must still wait for both signatures.
	if contract.LandlordSignature == nil || contract.TenantSignature == nil {
		return nil
	}
	// One collection per contract, ever. A duplicate completion callback
	// lands here twice and must not double-book.
	if _, err := s.keyCollections.GetByContract(ctx, contract.ContractID); err == nil {
		return nil
	} else if err != domain.ErrNotFound {
		return err
	}

	location := ""
	property, err := s.properties.GetByID(ctx, contract.PropertyID)
	if err == nil {
		location = property.Address
	} else if err != domain.ErrNotFound {
		return err
	}

	now := s.nowFn()
	proposed := contract.LeaseStart.Add(-s.cfg.KeyHandoverLeadTime)
	proposed = time.Date(proposed.Year(), proposed.Month(), proposed.Day(), s.cfg.KeyHandoverHour, 0, 0, 0, proposed.Location())

	collection := domain.KeyCollection{
		CollectionID: uuid.NewString(),
		ContractID:   contract.ContractID,
		ScheduledAt:  proposed,
		Location:     location,
		Status:       domain.KeyCollectionStatusScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.keyCollections.Create(ctx, collection); err != nil {
		return err
	}
	if err := s.enqueueEvent(ctx, domain.EventKeysScheduled, traceID, contracts.KeysScheduledPayload{
		CollectionID: collection.CollectionID,
		ContractID:   contract.ContractID,
		ScheduledAt:  proposed.Format(time.RFC3339),
		Location:     location,
	}, contract.ContractID, now); err != nil {
		return err
	}
	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationKeysScheduled, contract.TenantID,
			"Key collection scheduled",
			"Deposit and first month rent are in escrow. Key handover has been proposed for the day before your lease starts.",
			"/contracts/"+contract.ContractID+"/keys"),
		s.notifyEffect(domain.NotificationKeysScheduled, contract.LandlordID,
			"Key collection scheduled",
			"All escrow obligations are settled. Key handover has been proposed for the day before the lease starts.",
			"/contracts/"+contract.ContractID+"/keys"),
	})
	return nil
}

func (s *Service) GetKeyCollection(ctx context.Context, actor Actor, contractID string) (domain.KeyCollection, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.KeyCollection{}, domain.ErrUnauthorized
	}
	contract, err := s.contracts.GetByID(ctx, strings.TrimSpace(contractID))
	if err != nil {
		return domain.KeyCollection{}, err
	}
	if _, ok := contract.RoleOf(actor.SubjectID); !ok && !actor.Admin() {
		return domain.KeyCollection{}, domain.ErrForbidden
	}
	return s.keyCollections.GetByContract(ctx, contract.ContractID)
}

// ConfirmKeyCollection records one party's confirmation of the proposed
// slot. Both confirmations move the collection to confirmed.
func (s *Service) ConfirmKeyCollection(ctx context.Context, actor Actor, collectionID string) (domain.KeyCollection, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.KeyCollection{}, domain.ErrUnauthorized
	}
	collection, err := s.keyCollections.GetByID(ctx, strings.TrimSpace(collectionID))
	if err != nil {
		return domain.KeyCollection{}, err
	}
	contract, err := s.contracts.GetByID(ctx, collection.ContractID)
	if err != nil {
		return domain.KeyCollection{}, err
	}
	role, ok := contract.RoleOf(actor.SubjectID)
	if !ok {
		return domain.KeyCollection{}, domain.ErrForbidden
	}
	if collection.Terminal() {
		return domain.KeyCollection{}, domain.ErrPreconditionFailed
	}

	now := s.nowFn()
	switch role {
	case domain.PartyRoleLandlord:
		collection.LandlordConfirmed = true
	case domain.PartyRoleTenant:
		collection.TenantConfirmed = true
	}
	if collection.LandlordConfirmed && collection.TenantConfirmed {
		collection.Status = domain.KeyCollectionStatusConfirmed
	}
	collection.UpdatedAt = now
	if err := s.keyCollections.Update(ctx, collection); err != nil {
		return domain.KeyCollection{}, err
	}
	return collection, nil
}

// CompleteKeyCollection is the terminal handover step: keys changed hands.
// It flips the contract's keysCollected flag, which is what finally
// promotes a fully-signed contract to active.
func (s *Service) CompleteKeyCollection(ctx context.Context, actor Actor, collectionID string) (domain.KeyCollection, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.KeyCollection{}, domain.ErrUnauthorized
	}
	collection, err := s.keyCollections.GetByID(ctx, strings.TrimSpace(collectionID))
	if err != nil {
		return domain.KeyCollection{}, err
	}
	contract, err := s.contracts.GetByID(ctx, collection.ContractID)
	if err != nil {
		return domain.KeyCollection{}, err
	}
	if _, ok := contract.RoleOf(actor.SubjectID); !ok && !actor.Admin() {
		return domain.KeyCollection{}, domain.ErrForbidden
	}
	if collection.Status == domain.KeyCollectionStatusCompleted {
		return collection, nil
	}
	if collection.Status != domain.KeyCollectionStatusConfirmed {
		return domain.KeyCollection{}, domain.ErrPreconditionFailed
	}

	now := s.nowFn()
	collection.Status = domain.KeyCollectionStatusCompleted
	collection.CompletedAt = &now
	collection.UpdatedAt = now
	if err := s.keyCollections.Update(ctx, collection); err != nil {
		return domain.KeyCollection{}, err
	}

	updated, err := s.contracts.UpdateTx(ctx, collection.ContractID, func(c *domain.Contract) error {
		c.KeysCollected = true
		c.Status = domain.DeriveStatus(*c)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.KeyCollection{}, err
	}

	if err := s.enqueueEvent(ctx, domain.EventKeysCompleted, actor.RequestID, contracts.KeysCompletedPayload{
		CollectionID: collection.CollectionID,
		ContractID:   collection.ContractID,
		CompletedAt:  now.Format(time.RFC3339),
	}, collection.ContractID, now); err != nil {
		return domain.KeyCollection{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventContractActivated, actor.RequestID, contracts.ContractActivatedPayload{
		ContractID:  updated.ContractID,
		PropertyID:  updated.PropertyID,
		ActivatedAt: now.Format(time.RFC3339),
	}, updated.ContractID, now); err != nil {
		return domain.KeyCollection{}, err
	}
	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationKeysCompleted, updated.TenantID,
			"Keys collected",
			"Key handover is complete and your tenancy is now active.",
			"/contracts/"+updated.ContractID),
		s.notifyEffect(domain.NotificationKeysCompleted, updated.LandlordID,
			"Keys handed over",
			"Key handover is complete and the contract is now active.",
			"/contracts/"+updated.ContractID),
	})
	return collection, nil
}

// CancelKeyCollection withdraws the proposed slot without booking a new
// one. The row stays on the contract; rescheduling later revives it.
func (s *Service) CancelKeyCollection(ctx context.Context, actor Actor, collectionID string) (domain.KeyCollection, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.KeyCollection{}, domain.ErrUnauthorized
	}
	collection, err := s.keyCollections.GetByID(ctx, strings.TrimSpace(collectionID))
	if err != nil {
		return domain.KeyCollection{}, err
	}
	contract, err := s.contracts.GetByID(ctx, collection.ContractID)
	if err != nil {
		return domain.KeyCollection{}, err
	}
	role, ok := contract.RoleOf(actor.SubjectID)
	if !ok && !actor.Admin() {
		return domain.KeyCollection{}, domain.ErrForbidden
	}
	if ok && role != domain.PartyRoleLandlord && !actor.Admin() {
		return domain.KeyCollection{}, domain.ErrForbidden
	}
	if collection.Status == domain.KeyCollectionStatusCancelled {
		return collection, nil
	}
	if collection.Status == domain.KeyCollectionStatusCompleted {
		return domain.KeyCollection{}, domain.ErrPreconditionFailed
	}

	now := s.nowFn()
	collection.Status = domain.KeyCollectionStatusCancelled
	cancelledAt := now
	collection.CancelledAt = &cancelledAt
	collection.LandlordConfirmed = false
	collection.TenantConfirmed = false
	collection.UpdatedAt = now
	if err := s.keyCollections.Update(ctx, collection); err != nil {
		return domain.KeyCollection{}, err
	}
	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationKeysScheduled, contract.TenantID,
			"Key collection cancelled",
			"The proposed key handover slot was cancelled. A new time will be proposed.",
			"/contracts/"+contract.ContractID+"/keys"),
	})
	return collection, nil
}

// RescheduleKeyCollection moves the proposed slot. The one-per-contract
// rule means a cancelled or inconvenient proposal is edited in place, not
// replaced.
func (s *Service) RescheduleKeyCollection(ctx context.Context, actor Actor, input RescheduleKeyCollectionInput) (domain.KeyCollection, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.KeyCollection{}, domain.ErrUnauthorized
	}
	if input.ScheduledAt.IsZero() {
		return domain.KeyCollection{}, domain.ErrInvalidInput
	}
	collection, err := s.keyCollections.GetByID(ctx, strings.TrimSpace(input.CollectionID))
	if err != nil {
		return domain.KeyCollection{}, err
	}
	contract, err := s.contracts.GetByID(ctx, collection.ContractID)
	if err != nil {
		return domain.KeyCollection{}, err
	}
	role, ok := contract.RoleOf(actor.SubjectID)
	if !ok && !actor.Admin() {
		return domain.KeyCollection{}, domain.ErrForbidden
	}
	if ok && role != domain.PartyRoleLandlord && !actor.Admin() {
		return domain.KeyCollection{}, domain.ErrForbidden
	}
	if collection.Status == domain.KeyCollectionStatusCompleted {
		return domain.KeyCollection{}, domain.ErrPreconditionFailed
	}

	now := s.nowFn()
	collection.ScheduledAt = input.ScheduledAt
	if strings.TrimSpace(input.Location) != "" {
		collection.Location = strings.TrimSpace(input.Location)
	}
	// Moving the slot resets the agreement on it.
	collection.LandlordConfirmed = false
	collection.TenantConfirmed = false
	collection.Status = domain.KeyCollectionStatusScheduled
	collection.CancelledAt = nil
	collection.UpdatedAt = now
	if err := s.keyCollections.Update(ctx, collection); err != nil {
		return domain.KeyCollection{}, err
	}
	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationKeysScheduled, contract.TenantID,
			"Key collection rescheduled",
			"The key handover slot has been updated. Please confirm the new time.",
			"/contracts/"+contract.ContractID+"/keys"),
	})
	return collection, nil
}
