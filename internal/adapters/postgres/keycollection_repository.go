package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type KeyCollectionRepository struct {
	db *gorm.DB
}

func NewKeyCollectionRepository(db *gorm.DB) *KeyCollectionRepository {
	return &KeyCollectionRepository{db: db}
}

func (r *KeyCollectionRepository) Create(ctx context.Context, row domain.KeyCollection) error {
	rec := toKeyCollectionModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		// contract_id carries a unique index: one collection per contract.
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *KeyCollectionRepository) GetByID(ctx context.Context, collectionID string) (domain.KeyCollection, error) {
	var rec keyCollectionModel
	if err := r.db.WithContext(ctx).Where("collection_id = ?", collectionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.KeyCollection{}, domain.ErrNotFound
		}
		return domain.KeyCollection{}, err
	}
	return toDomainKeyCollection(rec), nil
}

func (r *KeyCollectionRepository) GetByContract(ctx context.Context, contractID string) (domain.KeyCollection, error) {
	var rec keyCollectionModel
	if err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.KeyCollection{}, domain.ErrNotFound
		}
		return domain.KeyCollection{}, err
	}
	return toDomainKeyCollection(rec), nil
}

func (r *KeyCollectionRepository) Update(ctx context.Context, row domain.KeyCollection) error {
	rec := toKeyCollectionModel(row)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing keyCollectionModel
		if err := tx.Where("collection_id = ?", rec.CollectionID).Take(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Save(&rec).Error
	})
}

func (r *KeyCollectionRepository) DeleteByContract(ctx context.Context, contractID string) error {
	res := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Delete(&keyCollectionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
