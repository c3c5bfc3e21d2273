package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// PendencyRepository implements the pendency repository interface using GORM
type PendencyRepository struct {
	db *gorm.DB
}

// NewPendencyRepository creates a new pendency repository
func NewPendencyRepository(db *gorm.DB) *PendencyRepository {
	return &PendencyRepository{
		db: db,
	}
}

// Create creates a new pendency
func (r *PendencyRepository) Create(ctx context.Context, pendency *entities.Pendency) error {
	if err := r.db.WithContext(ctx).Create(pendency).Error; err != nil {
		return fmt.Errorf("failed to create pendency: %w", err)
	}
	return nil
}

// ListPending lists open pendencies, newest first
func (r *PendencyRepository) ListPending(ctx context.Context) ([]*entities.Pendency, error) {
	var pendencies []*entities.Pendency
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.PendencyStatusPending).
		Order("created_at DESC").
		Find(&pendencies).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending pendencies: %w", err)
	}
	return pendencies, nil
}
