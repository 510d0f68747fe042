package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) GetByID(ctx context.Context, propertyID string) (domain.Property, error) {
	var rec propertyModel
	if err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, err
	}
	return toDomainProperty(rec), nil
}

func (r *PropertyRepository) SetStatus(ctx context.Context, propertyID string, status domain.PropertyStatus, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&propertyModel{}).
		Where("property_id = ?", propertyID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
