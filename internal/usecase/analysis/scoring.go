package analysis

import (
	"fmt"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// Deterministic scoring derived from the 0-10 NPS score. These functions
// are the single source of truth for satisfaction and churn: the parser
// falls back to them per field and the analyzer uses them wholesale when
// the model is down.

// InferEmotion maps a score to the closed emotion set
func InferEmotion(score int) entities.Emotion {
	switch {
	case score <= 2:
		return entities.EmotionCritical
	case score <= 4:
		return entities.EmotionNegative
	case score >= 8:
		return entities.EmotionPositive
	default:
		return entities.EmotionNeutral
	}
}

// InferSatisfaction converts a 0-10 score to a 0-100 satisfaction level
func InferSatisfaction(score int) int {
	s := score * 10
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// InferChurn maps a score to a churn probability percentage.
// Monotonic: a higher score never yields a higher churn.
func InferChurn(score int) int {
	switch {
	case score <= 2:
		return 85
	case score <= 4:
		return 70
	case score <= 6:
		return 45
	case score <= 7:
		return 25
	default:
		return 10
	}
}

// InferPersona maps a score to a short customer profile label
func InferPersona(score int) string {
	switch {
	case score <= 3:
		return "Insatisfeito crítico"
	case score <= 6:
		return "Neutro cauteloso"
	case score >= 9:
		return "Promotor entusiasmado"
	default:
		return "Satisfeito moderado"
	}
}

// DefaultRecommendations returns the score-bracket action list
func DefaultRecommendations(score int) []string {
	if score <= 4 {
		return []string{
			"Contato urgente para entender problemas",
			"Revisar expectativas e objetivos",
			"Plano de recuperação personalizado",
		}
	}
	if score >= 8 {
		return []string{
			"Documentar pontos positivos",
			"Solicitar depoimento/case",
			"Explorar oportunidades de expansão",
		}
	}
	return []string{
		"Acompanhamento próximo",
		"Identificar necessidades específicas",
		"Reforçar valor entregue",
	}
}

// DefaultRisks returns the score-bracket risk list
func DefaultRisks(score int) []string {
	if score <= 4 {
		return []string{
			"Alto risco de churn",
			"Possível feedback negativo público",
			"Impacto na reputação",
		}
	}
	return []string{
		"Potencial estagnação",
		"Concorrência pode atrair",
		"Expectativas crescentes",
	}
}

// DefaultOpportunities returns the score-bracket opportunity list
func DefaultOpportunities(score int) []string {
	if score >= 8 {
		return []string{
			"Case de sucesso",
			"Referral para novos clientes",
			"Upsell de serviços adicionais",
		}
	}
	return []string{
		"Melhoria na experiência",
		"Personalização do serviço",
		"Maior engajamento",
	}
}

// DefaultActions returns the score-bracket immediate action list
func DefaultActions(score int) []string {
	if score <= 4 {
		return []string{
			"Ligar em 24h",
			"Agendar reunião 1:1",
			"Criar plano de ação",
		}
	}
	return []string{
		"Follow-up em 1 semana",
		"Documentar feedback",
		"Monitorar evolução",
	}
}

// Fallback builds the fully deterministic analysis for a score, used
// whenever the model is unavailable or its output is unusable
func Fallback(score int) entities.AnalysisResult {
	return entities.AnalysisResult{
		Emotion:          InferEmotion(score),
		Recommendations:  DefaultRecommendations(score),
		Risks:            DefaultRisks(score),
		Persona:          InferPersona(score),
		Opportunities:    DefaultOpportunities(score),
		Situation:        fmt.Sprintf("Análise baseada em NPS %d (Gemma3 indisponível)", score),
		Satisfaction:     InferSatisfaction(score),
		ChurnProbability: InferChurn(score),
		ImmediateActions: DefaultActions(score),
	}
}
