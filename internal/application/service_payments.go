package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

// PaymentIntentOutput carries the pending payment row plus the processor
// client secret the payer needs to complete the charge off-path.
type PaymentIntentOutput struct {
	Payment      domain.Payment
	ClientSecret string
}

// CreatePaymentIntent opens a processor charge for one escrow obligation.
// The commission percent is read fresh from the store on every call; the
// resulting split is frozen into the payment row and never recomputed, so
// a mid-flight commission change cannot rewrite an existing intent.
func (s *Service) CreatePaymentIntent(ctx context.Context, actor Actor, input PaymentIntentInput) (PaymentIntentOutput, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return PaymentIntentOutput{}, domain.ErrUnauthorized
	}
	if !domain.ValidPaymentType(input.PaymentType) {
		return PaymentIntentOutput{}, domain.ErrInvalidInput
	}
	contract, err := s.contracts.GetByID(ctx, strings.TrimSpace(input.ContractID))
	if err != nil {
		return PaymentIntentOutput{}, err
	}
	if !actor.Admin() && actor.SubjectID != contract.TenantID {
		return PaymentIntentOutput{}, domain.ErrForbidden
	}
	switch contract.Status {
	case domain.ContractStatusTerminated, domain.ContractStatusExpired:
		return PaymentIntentOutput{}, domain.ErrPreconditionFailed
	}
	if alreadySettled(contract, input.PaymentType) {
		return PaymentIntentOutput{}, domain.ErrConflict
	}

	amount := contract.SecurityDepositCents
	if input.PaymentType == domain.PaymentTypeRent {
		amount = contract.MonthlyRentCents
	}
	if amount <= 0 {
		return PaymentIntentOutput{}, domain.ErrPreconditionFailed
	}

	fee, net := domain.SplitAmount(amount, s.commissionPercent(ctx))

	intent, err := s.processor.CreateChargeIntent(ctx, amount, contract.Currency, ports.ChargeMetadata{
		ContractID:       contract.ContractID,
		PayerID:          contract.TenantID,
		PaymentType:      string(input.PaymentType),
		PlatformFeeCents: fee,
		NetAmountCents:   net,
	})
	if err != nil {
		return PaymentIntentOutput{}, fmt.Errorf("%w: create charge intent: %v", domain.ErrUpstream, err)
	}

	now := s.nowFn()
	payment := domain.Payment{
		PaymentID:        uuid.NewString(),
		ContractID:       contract.ContractID,
		PayerID:          contract.TenantID,
		Type:             input.PaymentType,
		AmountCents:      amount,
		PlatformFeeCents: fee,
		NetAmountCents:   net,
		Currency:         contract.Currency,
		Status:           domain.PaymentStatusPending,
		ProcessorRef:     intent.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return PaymentIntentOutput{}, err
	}
	return PaymentIntentOutput{Payment: payment, ClientSecret: intent.ClientSecret}, nil
}

// ConfirmPayment is the client-driven completion path: the payer reports
// the charge as settled under its processor reference.
func (s *Service) ConfirmPayment(ctx context.Context, actor Actor, processorRef string) (domain.Payment, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Payment{}, domain.ErrUnauthorized
	}
	payment, err := s.payments.GetByProcessorRef(ctx, strings.TrimSpace(processorRef))
	if err != nil {
		return domain.Payment{}, err
	}
	if !actor.Admin() && actor.SubjectID != payment.PayerID {
		return domain.Payment{}, domain.ErrForbidden
	}
	return s.completePayment(ctx, actor.RequestID, payment, "card")
}

// HandleProcessorCallback applies an asynchronous gateway report. Lookup is
// by intent reference with a (contract, payer, amount, pending) tuple
// fallback for rows the reference never got attached to. Replays of an
// already-completed payment are a no-op, not an error.
func (s *Service) HandleProcessorCallback(ctx context.Context, input ProcessorCallbackInput) (domain.Payment, error) {
	input.IntentID = strings.TrimSpace(input.IntentID)
	if input.IntentID == "" {
		return domain.Payment{}, domain.ErrInvalidInput
	}
	payment, err := s.payments.GetByProcessorRef(ctx, input.IntentID)
	if err == domain.ErrNotFound {
		payment, err = s.payments.FindPendingMatch(ctx, strings.TrimSpace(input.ContractID), strings.TrimSpace(input.PayerID), input.AmountCents)
		if err == nil && payment.ProcessorRef == "" {
			payment.ProcessorRef = input.IntentID
		}
	}
	if err != nil {
		return domain.Payment{}, err
	}

	if input.Status != "succeeded" {
		if payment.Status != domain.PaymentStatusPending && payment.Status != domain.PaymentStatusProcessing {
			return payment, nil
		}
		now := s.nowFn()
		payment.Status = domain.PaymentStatusFailed
		payment.UpdatedAt = now
		if err := s.payments.Update(ctx, payment); err != nil {
			return domain.Payment{}, err
		}
		return payment, nil
	}
	return s.completePayment(ctx, "", payment, "card")
}

// RecordManualPayment settles an obligation outside the processor (cash,
// bank transfer). It writes the same contract-side booleans and timestamps
// as the automated paths, so downstream automation cannot tell payment
// origins apart.
func (s *Service) RecordManualPayment(ctx context.Context, actor Actor, input ManualPaymentInput) (domain.Contract, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Contract{}, domain.ErrUnauthorized
	}
	if !domain.ValidPaymentType(input.PaymentType) {
		return domain.Contract{}, domain.ErrInvalidInput
	}
	input.Method = strings.TrimSpace(input.Method)
	if input.Method == "" {
		return domain.Contract{}, domain.ErrInvalidInput
	}
	now := s.nowFn()
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
		if alreadySettled(*c, input.PaymentType) {
			return domain.ErrConflict
		}
		settlement := &domain.Settlement{Method: input.Method, Reference: input.Reference, PaidAt: now}
		if input.PaymentType == domain.PaymentTypeDeposit {
			c.DepositPaid = true
			c.DepositSettlement = settlement
		} else {
			c.RentPaid = true
			c.RentSettlement = settlement
		}
		c.Status = domain.DeriveStatus(*c)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Contract{}, err
	}
	if err := s.checkAndScheduleKeyCollection(ctx, actor.RequestID, updated); err != nil {
		return domain.Contract{}, err
	}
	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationPaymentCompleted, updated.TenantID,
			"Payment recorded",
			fmt.Sprintf("Your %s payment was recorded as settled via %s.", input.PaymentType, input.Method),
			"/contracts/"+updated.ContractID),
		s.notifyEffect(domain.NotificationPaymentReceived, updated.LandlordID,
			"Payment received",
			fmt.Sprintf("The %s payment was settled via %s.", input.PaymentType, input.Method),
			"/contracts/"+updated.ContractID),
	})
	return updated, nil
}

// RefundPayment moves a completed payment to refunded. Completed rows are
// otherwise immutable.
func (s *Service) RefundPayment(ctx context.Context, actor Actor, paymentID string) (domain.Payment, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Payment{}, domain.ErrUnauthorized
	}
	if !actor.Admin() {
		return domain.Payment{}, domain.ErrForbidden
	}
	payment, err := s.payments.GetByID(ctx, strings.TrimSpace(paymentID))
	if err != nil {
		return domain.Payment{}, err
	}
	if payment.Status != domain.PaymentStatusCompleted {
		return domain.Payment{}, domain.ErrPreconditionFailed
	}
	now := s.nowFn()
	payment.Status = domain.PaymentStatusRefunded
	payment.RefundedAt = &now
	payment.UpdatedAt = now
	if err := s.payments.Update(ctx, payment); err != nil {
		return domain.Payment{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventPaymentRefunded, actor.RequestID, contracts.PaymentRefundedPayload{
		PaymentID:   payment.PaymentID,
		ContractID:  payment.ContractID,
		AmountCents: payment.AmountCents,
		RefundedAt:  now.Format(time.RFC3339),
	}, payment.PaymentID, now); err != nil {
		return domain.Payment{}, err
	}
	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationPaymentRefunded, payment.PayerID,
			"Payment refunded",
			fmt.Sprintf("Your %s payment has been refunded.", payment.Type),
			"/contracts/"+payment.ContractID),
	})
	return payment, nil
}

func (s *Service) ListContractPayments(ctx context.Context, actor Actor, contractID string) ([]domain.Payment, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	contract, err := s.contracts.GetByID(ctx, strings.TrimSpace(contractID))
	if err != nil {
		return nil, err
	}
	if _, ok := contract.RoleOf(actor.SubjectID); !ok && !actor.Admin() {
		return nil, domain.ErrForbidden
	}
	return s.payments.ListByContract(ctx, contract.ContractID)
}

// completePayment is the single completion path shared by client
// confirmation and processor callback. A replay of a completed row whose
// contract flag is already in place is a no-op. A replay that finds the
// flag missing means an earlier attempt failed between the payment write
// and the contract write; it re-applies the contract-side updates so
// retries converge instead of stranding the escrow state.
func (s *Service) completePayment(ctx context.Context, traceID string, payment domain.Payment, method string) (domain.Payment, error) {
	if payment.Status == domain.PaymentStatusRefunded || payment.Status == domain.PaymentStatusFailed {
		return domain.Payment{}, domain.ErrPreconditionFailed
	}
	replay := payment.Status == domain.PaymentStatusCompleted
	if replay {
		contract, err := s.contracts.GetByID(ctx, payment.ContractID)
		if err != nil {
			return domain.Payment{}, err
		}
		if alreadySettled(contract, payment.Type) {
			// The scheduling step sits after the contract write and can
			// fail on its own; the check is idempotent, so re-run it.
			if err := s.checkAndScheduleKeyCollection(ctx, traceID, contract); err != nil {
				return domain.Payment{}, err
			}
			return payment, nil
		}
	}

	now := s.nowFn()
	if !replay {
		payment.Status = domain.PaymentStatusCompleted
		payment.Method = method
		payment.PaidAt = &now
		payment.UpdatedAt = now
		if err := s.payments.Update(ctx, payment); err != nil {
			return domain.Payment{}, err
		}
	}

	updated, err := s.contracts.UpdateTx(ctx, payment.ContractID, func(c *domain.Contract) error {
		settlement := &domain.Settlement{Method: method, Reference: payment.ProcessorRef, PaidAt: now}
		if payment.Type == domain.PaymentTypeDeposit {
			c.DepositPaid = true
			c.DepositSettlement = settlement
		} else {
			c.RentPaid = true
			c.RentSettlement = settlement
		}
		c.Status = domain.DeriveStatus(*c)
		c.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	if err := s.checkAndScheduleKeyCollection(ctx, traceID, updated); err != nil {
		return domain.Payment{}, err
	}
	if err := s.enqueueEvent(ctx, domain.EventPaymentCompleted, traceID, contracts.PaymentCompletedPayload{
		PaymentID:        payment.PaymentID,
		ContractID:       payment.ContractID,
		PayerID:          payment.PayerID,
		PaymentType:      string(payment.Type),
		AmountCents:      payment.AmountCents,
		PlatformFeeCents: payment.PlatformFeeCents,
		NetAmountCents:   payment.NetAmountCents,
		Method:           method,
		PaidAt:           now.Format(time.RFC3339),
	}, payment.PaymentID, now); err != nil {
		return domain.Payment{}, err
	}

	s.runEffects(ctx, []effect{
		s.notifyEffect(domain.NotificationPaymentCompleted, payment.PayerID,
			"Payment completed",
			fmt.Sprintf("Your %s payment has been completed.", payment.Type),
			"/contracts/"+payment.ContractID),
		s.notifyEffect(domain.NotificationPaymentReceived, updated.LandlordID,
			"Payment received",
			fmt.Sprintf("The %s payment for your property has been received in escrow.", payment.Type),
			"/contracts/"+payment.ContractID),
	})
	return payment, nil
}

// commissionPercent reads the process-wide commission value. Store misses
// and store outages both fall back to the configured default; intent
// creation should not fail because the config store blinked. Zero is a
// legal configured value (fee-free platform), not a miss.
func (s *Service) commissionPercent(ctx context.Context) int64 {
	if s.commission == nil {
		return s.cfg.DefaultCommissionPercent
	}
	percent, err := s.commission.CommissionPercent(ctx)
	if err != nil || percent < 0 || percent > 100 {
		if err != nil {
			s.logger.WarnContext(ctx, "commission store read failed, using default",
				"module", "application",
				"layer", "service",
				"operation", "commission_percent",
				"outcome", "fallback",
				"error", err,
			)
		}
		return s.cfg.DefaultCommissionPercent
	}
	return percent
}

// SetCommissionPercent updates the platform-wide commission. Splits frozen
// into existing payment rows are unaffected.
func (s *Service) SetCommissionPercent(ctx context.Context, actor Actor, percent int64) error {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.ErrUnauthorized
	}
	if !actor.Admin() {
		return domain.ErrForbidden
	}
	if percent < 0 || percent > 100 {
		return domain.ErrInvalidInput
	}
	if s.commission == nil {
		return domain.ErrPreconditionFailed
	}
	return s.commission.SetCommissionPercent(ctx, percent)
}

func alreadySettled(c domain.Contract, t domain.PaymentType) bool {
	if t == domain.PaymentTypeDeposit {
		return c.DepositPaid
	}
	return c.RentPaid
}
