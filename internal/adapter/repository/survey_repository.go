package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// SurveyRepository implements the survey repository interface using GORM
type SurveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository creates a new survey repository
func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{
		db: db,
	}
}

// FindByID finds a survey response by ID
func (r *SurveyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.SurveyResponse, error) {
	var response entities.SurveyResponse
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&response).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrResponseNotFound
		}
		return nil, fmt.Errorf("failed to find survey response by ID: %w", err)
	}
	return &response, nil
}

// ListByMentee lists a mentee's responses, newest first
func (r *SurveyRepository) ListByMentee(ctx context.Context, menteeID uuid.UUID) ([]*entities.SurveyResponse, error) {
	var responses []*entities.SurveyResponse
	if err := r.db.WithContext(ctx).
		Where("mentee_id = ?", menteeID).
		Order("submitted_at DESC").
		Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list survey responses by mentee: %w", err)
	}
	return responses, nil
}

// ListRecent lists the newest responses across all mentees, bounded
func (r *SurveyRepository) ListRecent(ctx context.Context, limit int) ([]*entities.SurveyResponse, error) {
	var responses []*entities.SurveyResponse
	if err := r.db.WithContext(ctx).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent survey responses: %w", err)
	}
	return responses, nil
}

// Count counts all survey responses
func (r *SurveyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.SurveyResponse{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count survey responses: %w", err)
	}
	return count, nil
}

// CountByKind counts responses grouped by form kind
func (r *SurveyRepository) CountByKind(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).
		Model(&entities.SurveyResponse{}).
		Select("form_kind AS key, COUNT(*) AS total").
		Group("form_kind").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count survey responses by kind: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Total
	}
	return out, nil
}
