package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, row domain.Contract) error {
	rec, err := toContractModel(row)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ContractRepository) GetByID(ctx context.Context, contractID string) (domain.Contract, error) {
	var rec contractModel
	if err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Contract{}, domain.ErrNotFound
		}
		return domain.Contract{}, err
	}
	return toDomainContract(rec)
}

func (r *ContractRepository) ListByParty(ctx context.Context, subjectID string) ([]domain.Contract, error) {
	var recs []contractModel
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ? OR tenant_id = ?", subjectID, subjectID).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Contract, 0, len(recs))
	for _, rec := range recs {
		contract, err := toDomainContract(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, contract)
	}
	return out, nil
}

// UpdateTx locks the row, re-reads it, applies mutate and writes the
// result back in one transaction. Signature capture and escrow flag flips
// go through here so concurrent writers always observe each other.
func (r *ContractRepository) UpdateTx(ctx context.Context, contractID string, mutate func(*domain.Contract) error) (domain.Contract, error) {
	var result domain.Contract
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec contractModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("contract_id = ?", contractID).
			Take(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		contract, err := toDomainContract(rec)
		if err != nil {
			return err
		}
		if err := mutate(&contract); err != nil {
			return err
		}
		updated, err := toContractModel(contract)
		if err != nil {
			return err
		}
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		result = contract
		return nil
	})
	if err != nil {
		return domain.Contract{}, err
	}
	return result, nil
}

func (r *ContractRepository) Delete(ctx context.Context, contractID string) error {
	res := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Delete(&contractModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
