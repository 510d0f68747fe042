package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) Create(ctx context.Context, row domain.Checklist) error {
	rec, err := toChecklistModel(row)
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

func (r *ChecklistRepository) GetByID(ctx context.Context, checklistID string) (domain.Checklist, error) {
	var rec checklistModel
	if err := r.db.WithContext(ctx).Where("checklist_id = ?", checklistID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Checklist{}, domain.ErrNotFound
		}
		return domain.Checklist{}, err
	}
	return toDomainChecklist(rec)
}

func (r *ChecklistRepository) GetByContract(ctx context.Context, contractID string) (domain.Checklist, error) {
	var rec checklistModel
	if err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Checklist{}, domain.ErrNotFound
		}
		return domain.Checklist{}, err
	}
	return toDomainChecklist(rec)
}

func (r *ChecklistRepository) Update(ctx context.Context, row domain.Checklist) error {
	rec, err := toChecklistModel(row)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing checklistModel
		if err := tx.Where("checklist_id = ?", rec.ChecklistID).Take(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Save(&rec).Error
	})
}

func (r *ChecklistRepository) DeleteByContract(ctx context.Context, contractID string) error {
	res := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Delete(&checklistModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type ChecklistTemplateRepository struct {
	db *gorm.DB
}

func NewChecklistTemplateRepository(db *gorm.DB) *ChecklistTemplateRepository {
	return &ChecklistTemplateRepository{db: db}
}

func (r *ChecklistTemplateRepository) GetByID(ctx context.Context, templateID string) (domain.ChecklistTemplate, error) {
	var rec checklistTemplateModel
	if err := r.db.WithContext(ctx).Where("template_id = ?", templateID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ChecklistTemplate{}, domain.ErrNotFound
		}
		return domain.ChecklistTemplate{}, err
	}
	return toDomainTemplate(rec)
}
