package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

// Score bucket labels for the raw NPS rollup
const (
	bucketLow     = "0-4"
	bucketMid     = "5-7"
	bucketHigh    = "8-10"
	bucketUnrated = "sem nota"
)

func (s *Service) handleAggregate(ctx context.Context, input string) string {
	responses, err := s.surveys.ListRecent(ctx, s.cfg.AggregatePage)
	if err != nil {
		s.logger.Error("survey listing failed", zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}
	if len(responses) == 0 {
		return "📄 Não há respostas de formulários para analisar."
	}

	agg := s.buildAggregate(ctx, responses)

	facts := renderAggregateFacts(agg)
	fallback := renderAggregateTemplate(agg)
	return s.narrate(ctx, groundedPrompt(input, facts), fallback)
}

// buildAggregate analyzes a bounded sample in depth and rolls raw scores up
// across the whole page. Per-item analyses are persisted as a side effect.
func (s *Service) buildAggregate(ctx context.Context, responses []*entities.SurveyResponse) entities.AggregateAnalysis {
	agg := entities.EmptyAggregate()
	agg.TotalResponses = len(responses)

	sample := responses
	if len(sample) > s.cfg.SampleSize {
		sample = sample[:s.cfg.SampleSize]
	}
	agg.SampleSize = len(sample)

	var churnSum int
	var risks, opportunities, actions []string
	for _, r := range sample {
		mentee, err := s.mentees.FindByID(ctx, r.MenteeID)
		if err != nil {
			mentee = nil
		}
		result := s.analyzeAndStore(ctx, r, mentee)

		agg.EmotionDistribution[result.Emotion]++
		churnSum += result.ChurnProbability
		risks = append(risks, result.Risks...)
		opportunities = append(opportunities, result.Opportunities...)
		actions = append(actions, result.ImmediateActions...)
	}

	if len(sample) > 0 {
		agg.MeanChurn = churnSum / len(sample)
		for e, n := range agg.EmotionDistribution {
			agg.EmotionDistribution[e] = n * 100 / len(sample)
		}
	}

	agg.TopRisks = topUnique(risks, 3)
	agg.TopOpportunities = topUnique(opportunities, 3)
	agg.PriorityActions = topUnique(actions, 3)

	for _, r := range responses {
		score, ok := r.NPSScore()
		switch {
		case !ok:
			agg.ScoreBuckets[bucketUnrated]++
		case score <= 4:
			agg.ScoreBuckets[bucketLow]++
		case score <= 7:
			agg.ScoreBuckets[bucketMid]++
		default:
			agg.ScoreBuckets[bucketHigh]++
		}
	}

	return agg
}

// topUnique keeps the most frequent distinct items, ties broken by first
// appearance, capped at n
func topUnique(items []string, n int) []string {
	counts := map[string]int{}
	order := map[string]int{}
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, seen := counts[item]; !seen {
			order[item] = i
		}
		counts[item]++
	}

	distinct := make([]string, 0, len(counts))
	for item := range counts {
		distinct = append(distinct, item)
	}
	sort.Slice(distinct, func(i, j int) bool {
		if counts[distinct[i]] != counts[distinct[j]] {
			return counts[distinct[i]] > counts[distinct[j]]
		}
		return order[distinct[i]] < order[distinct[j]]
	})

	if len(distinct) > n {
		distinct = distinct[:n]
	}
	return distinct
}

var emotionOrder = []entities.Emotion{
	entities.EmotionCritical,
	entities.EmotionNegative,
	entities.EmotionNeutral,
	entities.EmotionPositive,
}

var bucketOrder = []string{bucketLow, bucketMid, bucketHigh, bucketUnrated}

func renderAggregateFacts(agg entities.AggregateAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Respostas consideradas: %d (análise detalhada de %d)\n", agg.TotalResponses, agg.SampleSize)
	b.WriteString("Distribuição emocional da amostra:\n")
	for _, e := range emotionOrder {
		if pct, ok := agg.EmotionDistribution[e]; ok {
			fmt.Fprintf(&b, "- %s: %d%%\n", e, pct)
		}
	}
	fmt.Fprintf(&b, "Risco médio de churn: %d%%\n", agg.MeanChurn)
	if len(agg.TopRisks) > 0 {
		fmt.Fprintf(&b, "Principais riscos: %s\n", strings.Join(agg.TopRisks, "; "))
	}
	if len(agg.TopOpportunities) > 0 {
		fmt.Fprintf(&b, "Principais oportunidades: %s\n", strings.Join(agg.TopOpportunities, "; "))
	}
	if len(agg.PriorityActions) > 0 {
		fmt.Fprintf(&b, "Ações prioritárias: %s\n", strings.Join(agg.PriorityActions, "; "))
	}
	b.WriteString("Notas NPS de todas as respostas:\n")
	for _, bucket := range bucketOrder {
		if n, ok := agg.ScoreBuckets[bucket]; ok {
			fmt.Fprintf(&b, "- %s: %d respostas\n", bucket, n)
		}
	}
	return b.String()
}

func renderAggregateTemplate(agg entities.AggregateAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧠 **Análise dos Formulários**\n\n")
	fmt.Fprintf(&b, "📄 Respostas: %d (amostra detalhada: %d)\n\n", agg.TotalResponses, agg.SampleSize)

	b.WriteString("😶 **Distribuição emocional (amostra):**\n")
	for _, e := range emotionOrder {
		if pct, ok := agg.EmotionDistribution[e]; ok {
			fmt.Fprintf(&b, "• %s: %d%%\n", e, pct)
		}
	}

	fmt.Fprintf(&b, "\n📉 **Risco médio de churn:** %d%%\n", agg.MeanChurn)

	if len(agg.TopRisks) > 0 {
		b.WriteString("\n⚠️ **Principais riscos:**\n")
		for _, r := range agg.TopRisks {
			fmt.Fprintf(&b, "• %s\n", r)
		}
	}
	if len(agg.TopOpportunities) > 0 {
		b.WriteString("\n💡 **Oportunidades:**\n")
		for _, o := range agg.TopOpportunities {
			fmt.Fprintf(&b, "• %s\n", o)
		}
	}
	if len(agg.PriorityActions) > 0 {
		b.WriteString("\n✅ **Ações prioritárias:**\n")
		for _, a := range agg.PriorityActions {
			fmt.Fprintf(&b, "• %s\n", a)
		}
	}

	b.WriteString("\n📊 **Notas NPS:**\n")
	for _, bucket := range bucketOrder {
		if n, ok := agg.ScoreBuckets[bucket]; ok {
			fmt.Fprintf(&b, "• %s: %d\n", bucket, n)
		}
	}
	return b.String()
}
