package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// MenteeRepository implements the mentee repository interface using GORM
type MenteeRepository struct {
	db *gorm.DB
}

// NewMenteeRepository creates a new mentee repository
func NewMenteeRepository(db *gorm.DB) *MenteeRepository {
	return &MenteeRepository{
		db: db,
	}
}

// Create creates a new mentee, rejecting duplicate emails
func (r *MenteeRepository) Create(ctx context.Context, mentee *entities.Mentee) error {
	var existing int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Mentee{}).
		Where("LOWER(email) = LOWER(?)", mentee.Email).
		Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check existing mentee: %w", err)
	}
	if existing > 0 {
		return entities.ErrMenteeAlreadyExists
	}
	if err := r.db.WithContext(ctx).Create(mentee).Error; err != nil {
		return fmt.Errorf("failed to create mentee: %w", err)
	}
	return nil
}

// FindByID finds a mentee by ID
func (r *MenteeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Mentee, error) {
	var mentee entities.Mentee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&mentee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMenteeNotFound
		}
		return nil, fmt.Errorf("failed to find mentee by ID: %w", err)
	}
	return &mentee, nil
}

// Search matches the term against name and email, case-insensitive,
// returning at most limit matches
func (r *MenteeRepository) Search(ctx context.Context, term string, limit int) ([]*entities.Mentee, error) {
	var mentees []*entities.Mentee
	pattern := "%" + term + "%"
	if err := r.db.WithContext(ctx).
		Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern).
		Order("full_name ASC").
		Limit(limit).
		Find(&mentees).Error; err != nil {
		return nil, fmt.Errorf("failed to search mentees: %w", err)
	}
	return mentees, nil
}

// FindByName resolves one mentee by partial name match
func (r *MenteeRepository) FindByName(ctx context.Context, name string) (*entities.Mentee, error) {
	var mentee entities.Mentee
	if err := r.db.WithContext(ctx).
		Where("full_name ILIKE ?", "%"+name+"%").
		Order("full_name ASC").
		First(&mentee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMenteeNotFound
		}
		return nil, fmt.Errorf("failed to find mentee by name: %w", err)
	}
	return &mentee, nil
}

// List lists mentees, newest enrollment first
func (r *MenteeRepository) List(ctx context.Context, limit int) ([]*entities.Mentee, error) {
	var mentees []*entities.Mentee
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&mentees).Error; err != nil {
		return nil, fmt.Errorf("failed to list mentees: %w", err)
	}
	return mentees, nil
}

// Count counts all mentees
func (r *MenteeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Mentee{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count mentees: %w", err)
	}
	return count, nil
}

// groupCount is the scan target for grouped counts
type groupCount struct {
	Key   string
	Total int64
}

// CountByCohort counts mentees grouped by cohort
func (r *MenteeRepository) CountByCohort(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, "cohort")
}

// CountByStatus counts mentees grouped by status
func (r *MenteeRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, "status")
}

func (r *MenteeRepository) countGrouped(ctx context.Context, column string) (map[string]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).
		Model(&entities.Mentee{}).
		Select(column + " AS key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count mentees by %s: %w", column, err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Total
	}
	return out, nil
}
