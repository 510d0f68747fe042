package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func marshalJSONColumn(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	s := string(raw)
	return &s, nil
}

func signatureColumn(sig *domain.Signature) (*string, error) {
	if sig == nil {
		return nil, nil
	}
	return marshalJSONColumn(sig)
}

func settlementColumn(s *domain.Settlement) (*string, error) {
	if s == nil {
		return nil, nil
	}
	return marshalJSONColumn(s)
}

func signatureFromColumn(raw *string) (*domain.Signature, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var sig domain.Signature
	if err := json.Unmarshal([]byte(*raw), &sig); err != nil {
		return nil, fmt.Errorf("unmarshal signature: %w", err)
	}
	return &sig, nil
}

func settlementFromColumn(raw *string) (*domain.Settlement, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var s domain.Settlement
	if err := json.Unmarshal([]byte(*raw), &s); err != nil {
		return nil, fmt.Errorf("unmarshal settlement: %w", err)
	}
	return &s, nil
}

func toContractModel(c domain.Contract) (contractModel, error) {
	landlordSig, err := signatureColumn(c.LandlordSignature)
	if err != nil {
		return contractModel{}, err
	}
	tenantSig, err := signatureColumn(c.TenantSignature)
	if err != nil {
		return contractModel{}, err
	}
	depositSettlement, err := settlementColumn(c.DepositSettlement)
	if err != nil {
		return contractModel{}, err
	}
	rentSettlement, err := settlementColumn(c.RentSettlement)
	if err != nil {
		return contractModel{}, err
	}
	return contractModel{
		ContractID:           c.ContractID,
		PropertyID:           c.PropertyID,
		LandlordID:           c.LandlordID,
		TenantID:             c.TenantID,
		ApplicationID:        c.ApplicationID,
		LeaseStart:           c.LeaseStart,
		LeaseEnd:             c.LeaseEnd,
		MonthlyRentCents:     c.MonthlyRentCents,
		SecurityDepositCents: c.SecurityDepositCents,
		Currency:             c.Currency,
		Terms:                c.Terms,
		SpecialConditions:    c.SpecialConditions,
		LandlordSignature:    landlordSig,
		TenantSignature:      tenantSig,
		Status:               string(c.Status),
		SentToTenant:         c.SentToTenant,
		DepositPaid:          c.DepositPaid,
		DepositSettlement:    depositSettlement,
		RentPaid:             c.RentPaid,
		RentSettlement:       rentSettlement,
		KeysCollected:        c.KeysCollected,
		ChecklistID:          c.ChecklistID,
		ChecklistDeadline:    c.ChecklistDeadline,
		ChecklistCompletedAt: c.ChecklistCompletedAt,
		DocumentURL:          c.DocumentURL,
		TerminatedAt:         c.TerminatedAt,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}, nil
}

func toDomainContract(row contractModel) (domain.Contract, error) {
	landlordSig, err := signatureFromColumn(row.LandlordSignature)
	if err != nil {
		return domain.Contract{}, err
	}
	tenantSig, err := signatureFromColumn(row.TenantSignature)
	if err != nil {
		return domain.Contract{}, err
	}
	depositSettlement, err := settlementFromColumn(row.DepositSettlement)
	if err != nil {
		return domain.Contract{}, err
	}
	rentSettlement, err := settlementFromColumn(row.RentSettlement)
	if err != nil {
		return domain.Contract{}, err
	}
	return domain.Contract{
		ContractID:           row.ContractID,
		PropertyID:           row.PropertyID,
		LandlordID:           row.LandlordID,
		TenantID:             row.TenantID,
		ApplicationID:        row.ApplicationID,
		LeaseStart:           row.LeaseStart,
		LeaseEnd:             row.LeaseEnd,
		MonthlyRentCents:     row.MonthlyRentCents,
		SecurityDepositCents: row.SecurityDepositCents,
		Currency:             row.Currency,
		Terms:                row.Terms,
		SpecialConditions:    row.SpecialConditions,
		LandlordSignature:    landlordSig,
		TenantSignature:      tenantSig,
		Status:               domain.ContractStatus(row.Status),
		SentToTenant:         row.SentToTenant,
		DepositPaid:          row.DepositPaid,
		DepositSettlement:    depositSettlement,
		RentPaid:             row.RentPaid,
		RentSettlement:       rentSettlement,
		KeysCollected:        row.KeysCollected,
		ChecklistID:          row.ChecklistID,
		ChecklistDeadline:    row.ChecklistDeadline,
		ChecklistCompletedAt: row.ChecklistCompletedAt,
		DocumentURL:          row.DocumentURL,
		TerminatedAt:         row.TerminatedAt,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func toPaymentModel(p domain.Payment) paymentModel {
	return paymentModel{
		PaymentID:        p.PaymentID,
		ContractID:       p.ContractID,
		PayerID:          p.PayerID,
		Type:             string(p.Type),
		AmountCents:      p.AmountCents,
		PlatformFeeCents: p.PlatformFeeCents,
		NetAmountCents:   p.NetAmountCents,
		Currency:         p.Currency,
		Status:           string(p.Status),
		ProcessorRef:     p.ProcessorRef,
		Method:           p.Method,
		DueAt:            p.DueAt,
		PaidAt:           p.PaidAt,
		RefundedAt:       p.RefundedAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toDomainPayment(row paymentModel) domain.Payment {
	return domain.Payment{
		PaymentID:        row.PaymentID,
		ContractID:       row.ContractID,
		PayerID:          row.PayerID,
		Type:             domain.PaymentType(row.Type),
		AmountCents:      row.AmountCents,
		PlatformFeeCents: row.PlatformFeeCents,
		NetAmountCents:   row.NetAmountCents,
		Currency:         row.Currency,
		Status:           domain.PaymentStatus(row.Status),
		ProcessorRef:     row.ProcessorRef,
		Method:           row.Method,
		DueAt:            row.DueAt,
		PaidAt:           row.PaidAt,
		RefundedAt:       row.RefundedAt,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func toChecklistModel(c domain.Checklist) (checklistModel, error) {
	rooms, err := json.Marshal(c.Rooms)
	if err != nil {
		return checklistModel{}, fmt.Errorf("marshal rooms: %w", err)
	}
	tenantSig, err := signatureColumn(c.TenantSignature)
	if err != nil {
		return checklistModel{}, err
	}
	landlordSig, err := signatureColumn(c.LandlordSignature)
	if err != nil {
		return checklistModel{}, err
	}
	return checklistModel{
		ChecklistID:       c.ChecklistID,
		ContractID:        c.ContractID,
		Rooms:             string(rooms),
		Status:            string(c.Status),
		TenantSignature:   tenantSig,
		LandlordSignature: landlordSig,
		LandlordNotes:     c.LandlordNotes,
		Deadline:          c.Deadline,
		CompletedAt:       c.CompletedAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}, nil
}

func toDomainChecklist(row checklistModel) (domain.Checklist, error) {
	var rooms []domain.ChecklistRoom
	if row.Rooms != "" {
		if err := json.Unmarshal([]byte(row.Rooms), &rooms); err != nil {
			return domain.Checklist{}, fmt.Errorf("unmarshal rooms: %w", err)
		}
	}
	tenantSig, err := signatureFromColumn(row.TenantSignature)
	if err != nil {
		return domain.Checklist{}, err
	}
	landlordSig, err := signatureFromColumn(row.LandlordSignature)
	if err != nil {
		return domain.Checklist{}, err
	}
	return domain.Checklist{
		ChecklistID:       row.ChecklistID,
		ContractID:        row.ContractID,
		Rooms:             rooms,
		Status:            domain.ChecklistStatus(row.Status),
		TenantSignature:   tenantSig,
		LandlordSignature: landlordSig,
		LandlordNotes:     row.LandlordNotes,
		Deadline:          row.Deadline,
		CompletedAt:       row.CompletedAt,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func toDomainTemplate(row checklistTemplateModel) (domain.ChecklistTemplate, error) {
	var rooms []domain.ChecklistRoom
	if row.Rooms != "" {
		if err := json.Unmarshal([]byte(row.Rooms), &rooms); err != nil {
			return domain.ChecklistTemplate{}, fmt.Errorf("unmarshal template rooms: %w", err)
		}
	}
	return domain.ChecklistTemplate{
		TemplateID: row.TemplateID,
		LandlordID: row.LandlordID,
		Name:       row.Name,
		Rooms:      rooms,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func toKeyCollectionModel(k domain.KeyCollection) keyCollectionModel {
	return keyCollectionModel{
		CollectionID:      k.CollectionID,
		ContractID:        k.ContractID,
		ScheduledAt:       k.ScheduledAt,
		Location:          k.Location,
		LandlordConfirmed: k.LandlordConfirmed,
		TenantConfirmed:   k.TenantConfirmed,
		Status:            string(k.Status),
		CompletedAt:       k.CompletedAt,
		CancelledAt:       k.CancelledAt,
		CreatedAt:         k.CreatedAt,
		UpdatedAt:         k.UpdatedAt,
	}
}

func toDomainKeyCollection(row keyCollectionModel) domain.KeyCollection {
	return domain.KeyCollection{
		CollectionID:      row.CollectionID,
		ContractID:        row.ContractID,
		ScheduledAt:       row.ScheduledAt,
		Location:          row.Location,
		LandlordConfirmed: row.LandlordConfirmed,
		TenantConfirmed:   row.TenantConfirmed,
		Status:            domain.KeyCollectionStatus(row.Status),
		CompletedAt:       row.CompletedAt,
		CancelledAt:       row.CancelledAt,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func toDomainProperty(row propertyModel) domain.Property {
	return domain.Property{
		PropertyID: row.PropertyID,
		LandlordID: row.LandlordID,
		Address:    row.Address,
		Status:     domain.PropertyStatus(row.Status),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
