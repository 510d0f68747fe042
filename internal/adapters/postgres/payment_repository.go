package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, row domain.Payment) error {
	rec := toPaymentModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, paymentID string) (domain.Payment, error) {
	var rec paymentModel
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, domain.ErrNotFound
		}
		return domain.Payment{}, err
	}
	return toDomainPayment(rec), nil
}

func (r *PaymentRepository) GetByProcessorRef(ctx context.Context, processorRef string) (domain.Payment, error) {
	if processorRef == "" {
		return domain.Payment{}, domain.ErrNotFound
	}
	var rec paymentModel
	if err := r.db.WithContext(ctx).Where("processor_ref = ?", processorRef).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, domain.ErrNotFound
		}
		return domain.Payment{}, err
	}
	return toDomainPayment(rec), nil
}

func (r *PaymentRepository) FindPendingMatch(ctx context.Context, contractID, payerID string, amountCents int64) (domain.Payment, error) {
	var rec paymentModel
	err := r.db.WithContext(ctx).
		Where("contract_id = ? AND payer_id = ? AND amount_cents = ? AND status = ?",
			contractID, payerID, amountCents, string(domain.PaymentStatusPending)).
		Order("created_at ASC").
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, domain.ErrNotFound
		}
		return domain.Payment{}, err
	}
	return toDomainPayment(rec), nil
}

func (r *PaymentRepository) Update(ctx context.Context, row domain.Payment) error {
	rec := toPaymentModel(row)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing paymentModel
		if err := tx.Where("payment_id = ?", rec.PaymentID).Take(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Save(&rec).Error
	})
}

func (r *PaymentRepository) ListByContract(ctx context.Context, contractID string) ([]domain.Payment, error) {
	var recs []paymentModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainPayment(rec))
	}
	return out, nil
}
