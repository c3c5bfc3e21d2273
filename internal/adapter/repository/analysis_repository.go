package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// AnalysisRepository implements the analysis repository interface using GORM
type AnalysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{
		db: db,
	}
}

// Save upserts by response ID so re-analysis replaces the previous run
func (r *AnalysisRepository) Save(ctx context.Context, analysis *entities.SurveyAnalysis) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "response_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"result", "model_used", "degraded", "processing_ms", "updated_at",
			}),
		}).
		Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// FindByResponseID finds the stored analysis for a response
func (r *AnalysisRepository) FindByResponseID(ctx context.Context, responseID uuid.UUID) (*entities.SurveyAnalysis, error) {
	var analysis entities.SurveyAnalysis
	if err := r.db.WithContext(ctx).Where("response_id = ?", responseID).First(&analysis).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to find analysis by response ID: %w", err)
	}
	return &analysis, nil
}
