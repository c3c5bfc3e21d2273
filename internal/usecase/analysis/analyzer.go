package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
	"github.com/mentorhub/crm-assistant/pkg/ai"
)

// FormAnalyzer turns one survey response into a structured analysis.
// It never returns an error: any model failure degrades to the
// deterministic fallback, so a dead model still yields a usable result.
type FormAnalyzer struct {
	gateway ai.Gateway
	logger  *zap.Logger
}

// NewFormAnalyzer creates a FormAnalyzer
func NewFormAnalyzer(gateway ai.Gateway, logger *zap.Logger) *FormAnalyzer {
	return &FormAnalyzer{
		gateway: gateway,
		logger:  logger,
	}
}

// fallbackScore stands in when a response carries no numeric score at all.
// Mid-scale keeps the deterministic output neutral instead of alarmist.
const fallbackScore = 5

// Report is the full outcome of one analysis run, including the metadata
// that gets persisted alongside the result.
type Report struct {
	Result   entities.AnalysisResult
	Degraded bool
	Elapsed  time.Duration
}

// ModelName identifies the model the analyzer queries
func (a *FormAnalyzer) ModelName() string {
	return a.gateway.Model()
}

// AnalyzeResponse analyzes a single survey response. The mentee is optional
// and only enriches the prompt.
func (a *FormAnalyzer) AnalyzeResponse(ctx context.Context, response *entities.SurveyResponse, mentee *entities.Mentee) entities.AnalysisResult {
	return a.Analyze(ctx, response, mentee).Result
}

// Analyze runs the full analysis and reports whether the model participated
func (a *FormAnalyzer) Analyze(ctx context.Context, response *entities.SurveyResponse, mentee *entities.Mentee) Report {
	start := time.Now()
	score, hasScore := response.NPSScore()

	prompt := a.buildPrompt(response, mentee, score)

	res := a.gateway.Query(ctx, prompt)
	if !res.Success {
		a.logger.Warn("model unavailable, using deterministic analysis",
			zap.String("response_id", response.ID.String()),
			zap.Error(res.Err),
		)
		if !hasScore {
			score = fallbackScore
		}
		return Report{Result: Fallback(score), Degraded: true, Elapsed: time.Since(start)}
	}

	return Report{Result: ParseAnalysis(res.Content, score, hasScore), Elapsed: time.Since(start)}
}

func (a *FormAnalyzer) buildPrompt(response *entities.SurveyResponse, mentee *entities.Mentee, score int) string {
	var feedback strings.Builder
	texts := response.TextAnswers()
	keys := make([]string, 0, len(texts))
	for k := range texts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&feedback, "%s: %s\n", k, texts[k])
	}

	menteeLine := ""
	if mentee != nil {
		cohort := mentee.Cohort
		if cohort == "" {
			cohort = "N/A"
		}
		menteeLine = fmt.Sprintf("- Mentorado: %s (%s)\n", mentee.FullName, cohort)
	}

	return fmt.Sprintf(`ANÁLISE CRÍTICA DE FORMULÁRIO

DADOS DO FORMULÁRIO:
- Tipo: %s
- NPS: %d/10
%s- Respostas:
%s
ANALISADOR: Você é um especialista em Customer Success. Analise CRITICAMENTE este formulário.

INSTRUÇÕES ESPECÍFICAS:
1. EMOÇÃO: Se NPS ≤ 4 = negativo, se NPS ≥ 8 = positivo, caso contrário neutro. Se menciona problemas graves = critico
2. INDICAÇÕES: 3 ações específicas e práticas
3. RISCOS: Identifique riscos reais de churn, insatisfação ou abandono
4. PERSONA: Perfil do mentorado baseado nas respostas (ex: "Iniciante motivado", "Experiente insatisfeito")
5. OPORTUNIDADES: Pontos para melhorar a mentoria ou expandir relacionamento

RESPONDA EXATAMENTE NESTE FORMATO:
EMOCAO: [positivo|neutro|negativo|critico]
INDICACOES: [ação1|ação2|ação3]
RISCOS: [risco1|risco2|risco3]
PERSONA: [perfil em 2-3 palavras]
OPORTUNIDADES: [oportunidade1|oportunidade2|oportunidade3]
SITUACAO: [situação atual em uma frase]
SATISFACAO: [0-100]
CHURN: [0-100]
ACOES: [ação_imediata1|ação_imediata2|ação_imediata3]`,
		response.FormKind, score, menteeLine, feedback.String())
}
