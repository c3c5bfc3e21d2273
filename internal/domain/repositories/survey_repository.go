package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// SurveyRepository defines data access for survey responses
type SurveyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.SurveyResponse, error)
	// ListByMentee returns a mentee's responses, newest first
	ListByMentee(ctx context.Context, menteeID uuid.UUID) ([]*entities.SurveyResponse, error)
	// ListRecent returns the newest responses across all mentees, bounded
	ListRecent(ctx context.Context, limit int) ([]*entities.SurveyResponse, error)
	Count(ctx context.Context) (int64, error)
	CountByKind(ctx context.Context) (map[string]int64, error)
}

// AnalysisRepository persists analyzer output, one row per response
type AnalysisRepository interface {
	// Save upserts by response id so re-analysis replaces the previous run
	Save(ctx context.Context, analysis *entities.SurveyAnalysis) error
	FindByResponseID(ctx context.Context, responseID uuid.UUID) (*entities.SurveyAnalysis, error)
}

// PendencyRepository defines data access for outstanding payments
type PendencyRepository interface {
	Create(ctx context.Context, pendency *entities.Pendency) error
	ListPending(ctx context.Context) ([]*entities.Pendency, error)
}
