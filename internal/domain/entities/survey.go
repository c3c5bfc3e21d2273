package entities

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SurveyResponse represents a single submitted form, with the raw answers
// kept as a JSON document so form shapes can evolve without migrations
type SurveyResponse struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MenteeID    uuid.UUID         `json:"mentee_id" gorm:"type:uuid;not null;index"`
	FormKind    string            `json:"form_kind" gorm:"type:varchar(100);not null;index"`
	Answers     datatypes.JSONMap `json:"answers" gorm:"type:jsonb"`
	SubmittedAt time.Time         `json:"submitted_at" gorm:"index"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for SurveyResponse
func (SurveyResponse) TableName() string {
	return "survey_responses"
}

// NewSurveyResponse creates a SurveyResponse with the submission time set to now
func NewSurveyResponse(menteeID uuid.UUID, formKind string, answers map[string]interface{}) *SurveyResponse {
	return &SurveyResponse{
		ID:          uuid.New(),
		MenteeID:    menteeID,
		FormKind:    formKind,
		Answers:     datatypes.JSONMap(answers),
		SubmittedAt: time.Now(),
	}
}

// NPSScore extracts the 0-10 satisfaction score from the answers.
// Forms are inconsistent about the key name, so all known variants are
// checked. Returns false when no numeric score is present.
func (s *SurveyResponse) NPSScore() (int, bool) {
	for _, key := range []string{"nota_nps", "nps", "satisfacao"} {
		raw, ok := s.Answers[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return int(v), true
		case int:
			return v, true
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// TextAnswers returns the free-text answers keyed by question, skipping
// empty strings and non-text values
func (s *SurveyResponse) TextAnswers() map[string]string {
	out := make(map[string]string)
	for key, raw := range s.Answers {
		if v, ok := raw.(string); ok && v != "" {
			out[key] = v
		}
	}
	return out
}
