package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// MenteeRepository defines data access for mentees
type MenteeRepository interface {
	Create(ctx context.Context, mentee *entities.Mentee) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Mentee, error)
	// Search matches the term against full name and email, partial and
	// case-insensitive, returning at most limit matches
	Search(ctx context.Context, term string, limit int) ([]*entities.Mentee, error)
	// FindByName resolves one mentee by partial name match
	FindByName(ctx context.Context, name string) (*entities.Mentee, error)
	List(ctx context.Context, limit int) ([]*entities.Mentee, error)
	Count(ctx context.Context) (int64, error)
	CountByCohort(ctx context.Context) (map[string]int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
