package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Emotion is the closed emotional read of a single survey response
type Emotion string

const (
	EmotionPositive Emotion = "positivo"
	EmotionNeutral  Emotion = "neutro"
	EmotionNegative Emotion = "negativo"
	EmotionCritical Emotion = "critico"
)

// Valid reports whether the value belongs to the closed emotion set
func (e Emotion) Valid() bool {
	switch e {
	case EmotionPositive, EmotionNeutral, EmotionNegative, EmotionCritical:
		return true
	}
	return false
}

// AnalysisResult is the structured outcome of analyzing one survey response.
// List fields carry at most three items each.
type AnalysisResult struct {
	Emotion          Emotion  `json:"emocao"`
	Recommendations  []string `json:"indicacoes"`
	Risks            []string `json:"riscos"`
	Persona          string   `json:"persona"`
	Opportunities    []string `json:"oportunidades"`
	Situation        string   `json:"situacao_geral"`
	Satisfaction     int      `json:"nivel_satisfacao"`
	ChurnProbability int      `json:"probabilidade_churn"`
	ImmediateActions []string `json:"acoes_imediatas"`
}

// AggregateAnalysis summarizes a collection of survey responses.
// Distribution percentages are relative to the analyzed sample, not the
// whole population; SampleSize and TotalResponses make that explicit.
type AggregateAnalysis struct {
	TotalResponses      int             `json:"total_respostas"`
	SampleSize          int             `json:"amostra_analisada"`
	EmotionDistribution map[Emotion]int `json:"distribuicao_emocional"`
	MeanChurn           int             `json:"churn_medio"`
	TopRisks            []string        `json:"principais_riscos"`
	TopOpportunities    []string        `json:"principais_oportunidades"`
	PriorityActions     []string        `json:"acoes_prioritarias"`
	ScoreBuckets        map[string]int  `json:"faixas_nps"`
}

// EmptyAggregate is the well-defined zero aggregate for an empty response set
func EmptyAggregate() AggregateAnalysis {
	return AggregateAnalysis{
		EmotionDistribution: map[Emotion]int{},
		TopRisks:            []string{},
		TopOpportunities:    []string{},
		PriorityActions:     []string{},
		ScoreBuckets:        map[string]int{},
	}
}

// SurveyAnalysis is the persisted form of an AnalysisResult, upserted per
// response so re-analysis overwrites the previous run
type SurveyAnalysis struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ResponseID   uuid.UUID      `json:"response_id" gorm:"type:uuid;not null;uniqueIndex"`
	MenteeID     uuid.UUID      `json:"mentee_id" gorm:"type:uuid;not null;index"`
	Result       datatypes.JSON `json:"result" gorm:"type:jsonb;not null"`
	ModelUsed    string         `json:"model_used,omitempty" gorm:"type:varchar(50)"`
	Degraded     bool           `json:"degraded"`
	ProcessingMs int            `json:"processing_ms,omitempty"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for SurveyAnalysis
func (SurveyAnalysis) TableName() string {
	return "survey_analyses"
}

// NewSurveyAnalysis creates a SurveyAnalysis entity
func NewSurveyAnalysis(responseID, menteeID uuid.UUID, result datatypes.JSON, model string, degraded bool) *SurveyAnalysis {
	return &SurveyAnalysis{
		ID:         uuid.New(),
		ResponseID: responseID,
		MenteeID:   menteeID,
		Result:     result,
		ModelUsed:  model,
		Degraded:   degraded,
	}
}
