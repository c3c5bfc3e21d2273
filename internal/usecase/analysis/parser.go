package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// Model replies follow a labeled-section layout, one label per line:
//
//	EMOCAO: positivo
//	INDICACOES: ação1|ação2|ação3
//	...
//
// Small models drift from that format constantly, so every field is
// matched independently and falls back to the scoring engine on its own.

var (
	// Labels anchor to line starts: ACOES is a suffix of INDICACOES and
	// would otherwise match inside it
	reEmotion       = regexp.MustCompile(`(?i)EMOCAO:\s*(positivo|neutro|negativo|critico)`)
	reRecommends    = regexp.MustCompile(`(?is)(?:^|\n)INDICACOES:\s*(.*?)(?:\nRISCOS:|$)`)
	reRisks         = regexp.MustCompile(`(?is)(?:^|\n)RISCOS:\s*(.*?)(?:\nPERSONA:|$)`)
	rePersona       = regexp.MustCompile(`(?is)(?:^|\n)PERSONA:\s*(.*?)(?:\nOPORTUNIDADES:|$)`)
	reOpportunities = regexp.MustCompile(`(?is)(?:^|\n)OPORTUNIDADES:\s*(.*?)(?:\nSITUACAO:|$)`)
	reSituation     = regexp.MustCompile(`(?is)(?:^|\n)SITUACAO:\s*(.*?)(?:\nSATISFACAO:|$)`)
	reSatisfaction  = regexp.MustCompile(`(?i)SATISFACAO:\s*(\d+)`)
	reChurn         = regexp.MustCompile(`(?i)CHURN:\s*(\d+)`)
	reActions       = regexp.MustCompile(`(?is)(?:^|\n)ACOES:\s*(.*)`)
)

// ParseAnalysis decodes a labeled-section model reply into a full
// AnalysisResult. Fields the model omitted or garbled come from the
// scoring engine. When an explicit score exists, satisfaction and churn
// are always the engine's values so the metrics everyone charts stay
// consistent across model versions.
//
// Never returns a partial result: an unexpected panic during parsing
// yields the complete deterministic fallback instead.
func ParseAnalysis(content string, score int, hasScore bool) (result entities.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			result = Fallback(score)
		}
	}()

	result = entities.AnalysisResult{
		Emotion:          InferEmotion(score),
		Recommendations:  DefaultRecommendations(score),
		Risks:            DefaultRisks(score),
		Persona:          InferPersona(score),
		Opportunities:    DefaultOpportunities(score),
		Situation:        fmt.Sprintf("Mentorado com NPS %d", score),
		Satisfaction:     InferSatisfaction(score),
		ChurnProbability: InferChurn(score),
		ImmediateActions: DefaultActions(score),
	}

	if m := reEmotion.FindStringSubmatch(content); m != nil {
		result.Emotion = entities.Emotion(strings.ToLower(m[1]))
	}
	if items := parseList(firstGroup(reRecommends, content)); len(items) > 0 {
		result.Recommendations = items
	}
	if items := parseList(firstGroup(reRisks, content)); len(items) > 0 {
		result.Risks = items
	}
	if persona := strings.TrimSpace(firstGroup(rePersona, content)); persona != "" {
		result.Persona = persona
	}
	if items := parseList(firstGroup(reOpportunities, content)); len(items) > 0 {
		result.Opportunities = items
	}
	if situation := strings.TrimSpace(firstGroup(reSituation, content)); situation != "" {
		result.Situation = situation
	}
	if items := parseList(firstGroup(reActions, content)); len(items) > 0 {
		result.ImmediateActions = items
	}

	// Parsed satisfaction and churn only count when there is no explicit
	// score to derive them from. Values outside [0,100] are treated as a
	// failed match, keeping the engine's defaults.
	if !hasScore {
		if m := reSatisfaction.FindStringSubmatch(content); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v >= 0 && v <= 100 {
				result.Satisfaction = v
			}
		}
		if m := reChurn.FindStringSubmatch(content); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v >= 0 && v <= 100 {
				result.ChurnProbability = v
			}
		}
	}

	return result
}

func firstGroup(re *regexp.Regexp, content string) string {
	if m := re.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// parseList splits a pipe-delimited section into at most three items
func parseList(text string) []string {
	if text == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(text, "|") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
		if len(items) == 3 {
			break
		}
	}
	return items
}
