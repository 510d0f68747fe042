// Package memory provides map-backed repositories with the same semantics
// as the postgres adapter. They back unit tests and DB-less local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

type Repositories struct {
	Contracts      *ContractRepository
	Payments       *PaymentRepository
	Checklists     *ChecklistRepository
	Templates      *ChecklistTemplateRepository
	KeyCollections *KeyCollectionRepository
	Properties     *PropertyRepository
	Outbox         *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Contracts:      &ContractRepository{rows: map[string]domain.Contract{}},
		Payments:       &PaymentRepository{rows: map[string]domain.Payment{}},
		Checklists:     &ChecklistRepository{rows: map[string]domain.Checklist{}},
		Templates:      &ChecklistTemplateRepository{rows: map[string]domain.ChecklistTemplate{}},
		KeyCollections: &KeyCollectionRepository{rows: map[string]domain.KeyCollection{}},
		Properties:     &PropertyRepository{rows: map[string]domain.Property{}},
		Outbox:         &OutboxRepository{rows: map[string]ports.OutboxRecord{}},
	}
}

type ContractRepository struct {
	mu   sync.Mutex
	rows map[string]domain.Contract
}

func (r *ContractRepository) Create(_ context.Context, row domain.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.ContractID]; ok {
		return domain.ErrConflict
	}
	r.rows[row.ContractID] = row
	return nil
}

func (r *ContractRepository) GetByID(_ context.Context, contractID string) (domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.TrimSpace(contractID)]
	if !ok {
		return domain.Contract{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *ContractRepository) ListByParty(_ context.Context, subjectID string) ([]domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Contract, 0)
	for _, row := range r.rows {
		if row.LandlordID == subjectID || row.TenantID == subjectID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// UpdateTx serializes all contract mutations under one mutex, which gives
// the same read-modify-write guarantee the postgres adapter gets from a
// row lock.
func (r *ContractRepository) UpdateTx(_ context.Context, contractID string, mutate func(*domain.Contract) error) (domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.TrimSpace(contractID)]
	if !ok {
		return domain.Contract{}, domain.ErrNotFound
	}
	if err := mutate(&row); err != nil {
		return domain.Contract{}, err
	}
	r.rows[row.ContractID] = row
	return row, nil
}

func (r *ContractRepository) Delete(_ context.Context, contractID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[contractID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, contractID)
	return nil
}

type PaymentRepository struct {
	mu   sync.Mutex
	rows map[string]domain.Payment
}

func (r *PaymentRepository) Create(_ context.Context, row domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.PaymentID]; ok {
		return domain.ErrConflict
	}
	r.rows[row.PaymentID] = row
	return nil
}

func (r *PaymentRepository) GetByID(_ context.Context, paymentID string) (domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.TrimSpace(paymentID)]
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *PaymentRepository) GetByProcessorRef(_ context.Context, processorRef string) (domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref := strings.TrimSpace(processorRef)
	if ref == "" {
		return domain.Payment{}, domain.ErrNotFound
	}
	for _, row := range r.rows {
		if row.ProcessorRef == ref {
			return row, nil
		}
	}
	return domain.Payment{}, domain.ErrNotFound
}

// FindPendingMatch returns the oldest pending row for the tuple, matching
// the created_at ordering the postgres adapter queries with.
func (r *PaymentRepository) FindPendingMatch(_ context.Context, contractID, payerID string, amountCents int64) (domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var match domain.Payment
	found := false
	for _, row := range r.rows {
		if row.ContractID != contractID || row.PayerID != payerID || row.AmountCents != amountCents || row.Status != domain.PaymentStatusPending {
			continue
		}
		if !found || row.CreatedAt.Before(match.CreatedAt) {
			match = row
			found = true
		}
	}
	if !found {
		return domain.Payment{}, domain.ErrNotFound
	}
	return match, nil
}

func (r *PaymentRepository) Update(_ context.Context, row domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.PaymentID]; !ok {
		return domain.ErrNotFound
	}
	r.rows[row.PaymentID] = row
	return nil
}

func (r *PaymentRepository) ListByContract(_ context.Context, contractID string) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Payment, 0)
	for _, row := range r.rows {
		if row.ContractID == contractID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type ChecklistRepository struct {
	mu   sync.Mutex
	rows map[string]domain.Checklist
}

func (r *ChecklistRepository) Create(_ context.Context, row domain.Checklist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.ContractID == row.ContractID {
			return domain.ErrConflict
		}
	}
	r.rows[row.ChecklistID] = row
	return nil
}

func (r *ChecklistRepository) GetByID(_ context.Context, checklistID string) (domain.Checklist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.TrimSpace(checklistID)]
	if !ok {
		return domain.Checklist{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *ChecklistRepository) GetByContract(_ context.Context, contractID string) (domain.Checklist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ContractID == contractID {
			return row, nil
		}
	}
	return domain.Checklist{}, domain.ErrNotFound
}

func (r *ChecklistRepository) Update(_ context.Context, row domain.Checklist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.ChecklistID]; !ok {
		return domain.ErrNotFound
	}
	r.rows[row.ChecklistID] = row
	return nil
}

func (r *ChecklistRepository) DeleteByContract(_ context.Context, contractID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.ContractID == contractID {
			delete(r.rows, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

type ChecklistTemplateRepository struct {
	mu   sync.Mutex
	rows map[string]domain.ChecklistTemplate
}

func (r *ChecklistTemplateRepository) Put(row domain.ChecklistTemplate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.TemplateID] = row
}

func (r *ChecklistTemplateRepository) GetByID(_ context.Context, templateID string) (domain.ChecklistTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.TrimSpace(templateID)]
	if !ok {
		return domain.ChecklistTemplate{}, domain.ErrNotFound
	}
	return row, nil
}

type KeyCollectionRepository struct {
	mu   sync.Mutex
	rows map[string]domain.KeyCollection
}

func (r *KeyCollectionRepository) Create(_ context.Context, row domain.KeyCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.ContractID == row.ContractID {
			return domain.ErrConflict
		}
	}
	r.rows[row.CollectionID] = row
	return nil
}

func (r *KeyCollectionRepository) GetByID(_ context.Context, collectionID string) (domain.KeyCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.TrimSpace(collectionID)]
	if !ok {
		return domain.KeyCollection{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *KeyCollectionRepository) GetByContract(_ context.Context, contractID string) (domain.KeyCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ContractID == contractID {
			return row, nil
		}
	}
	return domain.KeyCollection{}, domain.ErrNotFound
}

func (r *KeyCollectionRepository) Update(_ context.Context, row domain.KeyCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.CollectionID]; !ok {
		return domain.ErrNotFound
	}
	r.rows[row.CollectionID] = row
	return nil
}

func (r *KeyCollectionRepository) DeleteByContract(_ context.Context, contractID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.ContractID == contractID {
			delete(r.rows, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

type PropertyRepository struct {
	mu   sync.Mutex
	rows map[string]domain.Property
}

func (r *PropertyRepository) Put(row domain.Property) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.PropertyID] = row
}

func (r *PropertyRepository) GetByID(_ context.Context, propertyID string) (domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[strings.TrimSpace(propertyID)]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *PropertyRepository) SetStatus(_ context.Context, propertyID string, status domain.PropertyStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[propertyID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = at
	r.rows[propertyID] = row
	return nil
}

type OutboxRepository struct {
	mu    sync.Mutex
	rows  map[string]ports.OutboxRecord
	order []string
}

func (r *OutboxRepository) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[record.OutboxID]; ok {
		return domain.ErrConflict
	}
	r.rows[record.OutboxID] = record
	r.order = append(r.order, record.OutboxID)
	return nil
}

func (r *OutboxRepository) ListUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	out := make([]ports.OutboxRecord, 0, limit)
	for _, id := range r.order {
		row, ok := r.rows[id]
		if !ok || row.PublishedAt != nil {
			continue
		}
		out = append(out, row)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	row.PublishedAt = &at
	r.rows[outboxID] = row
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	row.RetryCount++
	row.LastError = &reason
	r.rows[outboxID] = row
	_ = at
	return nil
}
