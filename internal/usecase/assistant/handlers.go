package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
)

func (s *Service) handleSearch(ctx context.Context, intent entities.ClassifiedIntent) string {
	name := intent.Name()
	if name == "" {
		return "Não consegui identificar o nome da pessoa que você está procurando. Pode repetir com o nome completo?"
	}

	mentees, err := s.mentees.Search(ctx, name, s.cfg.ListLimit)
	if err != nil {
		s.logger.Error("mentee search failed", zap.String("name", name), zap.Error(err))
		return fmt.Sprintf("Erro ao buscar \"%s\": %v", name, err)
	}

	if len(mentees) == 0 {
		return fmt.Sprintf(`❌ **Não existe** mentorado com o nome "%s" no sistema.

📋 **Dados consultados:** Base real de mentorados
🔍 **Busca realizada:** Nome e email

Para cadastrar, use: "Cadastrar %s, email usuario@email.com"`, name, name)
	}

	shown := mentees
	if len(shown) > 10 {
		shown = shown[:10]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **Encontrei %d mentorado(s) com \"%s\":**\n", len(mentees), name)
	for _, m := range shown {
		fmt.Fprintf(&b, "\n👤 **%s**\n", m.FullName)
		fmt.Fprintf(&b, "📧 %s\n", m.Email)
		fmt.Fprintf(&b, "🎓 Turma: %s\n", m.Cohort)
		fmt.Fprintf(&b, "📊 Status: %s\n", m.Status)
	}
	if len(mentees) > len(shown) {
		fmt.Fprintf(&b, "\n... e mais %d mentorados.", len(mentees)-len(shown))
	}
	return b.String()
}

func (s *Service) handleCount(ctx context.Context, input string) string {
	total, err := s.mentees.Count(ctx)
	if err != nil {
		s.logger.Error("mentee count failed", zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}
	byCohort, err := s.mentees.CountByCohort(ctx)
	if err != nil {
		s.logger.Error("count by cohort failed", zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}
	byStatus, err := s.mentees.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("count by status failed", zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}

	if s.counts != nil {
		surveys, serr := s.surveys.Count(ctx)
		if serr == nil {
			s.counts.SetCounts(ctx, total, surveys)
		}
	}

	var facts strings.Builder
	fmt.Fprintf(&facts, "Total de mentorados: %d\n", total)
	facts.WriteString("Por turma:\n")
	for _, k := range sortedKeys(byCohort) {
		fmt.Fprintf(&facts, "- %s: %d\n", k, byCohort[k])
	}
	facts.WriteString("Por status:\n")
	for _, k := range sortedKeys(byStatus) {
		fmt.Fprintf(&facts, "- %s: %d\n", k, byStatus[k])
	}

	var fb strings.Builder
	fmt.Fprintf(&fb, "📊 **Total de Mentorados: %d**\n\n", total)
	fb.WriteString("📚 **Por Turma:**\n")
	for _, k := range sortedKeys(byCohort) {
		fmt.Fprintf(&fb, "• %s: %d\n", k, byCohort[k])
	}
	fb.WriteString("\n📈 **Por Status:**\n")
	for _, k := range sortedKeys(byStatus) {
		fmt.Fprintf(&fb, "• %s: %d\n", k, byStatus[k])
	}

	return s.narrate(ctx, groundedPrompt(input, facts.String()), fb.String())
}

func (s *Service) handleList(ctx context.Context, input string) string {
	mentees, err := s.mentees.List(ctx, s.cfg.ListLimit)
	if err != nil {
		s.logger.Error("mentee list failed", zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}
	if len(mentees) == 0 {
		return "📭 Não há mentorados cadastrados no sistema."
	}

	shown := mentees
	if len(shown) > 10 {
		shown = shown[:10]
	}

	var facts strings.Builder
	fmt.Fprintf(&facts, "Mentorados cadastrados (%d no total):\n", len(mentees))
	for _, m := range shown {
		fmt.Fprintf(&facts, "- %s (%s, turma %s)\n", m.FullName, m.Email, m.Cohort)
	}

	var fb strings.Builder
	fmt.Fprintf(&fb, "👥 **Mentorados cadastrados (%d):**\n\n", len(mentees))
	for i, m := range shown {
		fmt.Fprintf(&fb, "%d. **%s** 📧 %s 🎓 %s\n", i+1, m.FullName, m.Email, m.Cohort)
	}
	if rest := len(mentees) - len(shown); rest > 0 {
		fmt.Fprintf(&fb, "\n... e mais %d mentorados.", rest)
	}

	return s.narrate(ctx, groundedPrompt(input, facts.String()), fb.String())
}

func (s *Service) handleCreate(ctx context.Context, input string) string {
	payload := extractMenteePayload(input)

	if err := s.validator.Validate(payload); err != nil {
		var verrs validatorv10.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Email":
					return "Para cadastrar, preciso de um email válido. Exemplo: \"Cadastrar João Silva, email joao@email.com\""
				case "FullName":
					return "Para cadastrar, preciso do nome completo. Exemplo: \"Cadastrar João Silva, email joao@email.com\""
				}
			}
		}
		return "Não consegui entender os dados do cadastro. Exemplo: \"Cadastrar João Silva, email joao@email.com\""
	}

	mentee := entities.NewMentee(payload.FullName, payload.Email)
	mentee.Phone = payload.Phone
	mentee.Cohort = payload.Cohort
	if err := s.mentees.Create(ctx, mentee); err != nil {
		if errors.Is(err, entities.ErrMenteeAlreadyExists) {
			return fmt.Sprintf("Já existe um mentorado cadastrado com o email %s.", payload.Email)
		}
		s.logger.Error("mentee create failed", zap.String("email", payload.Email), zap.Error(err))
		return fmt.Sprintf("Erro ao cadastrar: %v", err)
	}

	s.logger.Info("mentee created",
		zap.String("mentee_id", mentee.ID.String()),
		zap.String("cohort", mentee.Cohort),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **%s** cadastrado com sucesso!\n\n", mentee.FullName)
	fmt.Fprintf(&b, "📧 %s\n", mentee.Email)
	fmt.Fprintf(&b, "🎓 Turma: %s\n", mentee.Cohort)
	if mentee.Phone != "" {
		fmt.Fprintf(&b, "📱 %s\n", mentee.Phone)
	}
	return b.String()
}

func (s *Service) handlePersonForms(ctx context.Context, intent entities.ClassifiedIntent, input string) string {
	name := intent.Name()
	if name == "" {
		return "De quem você quer ver os formulários? Me diga o nome do mentorado."
	}

	mentee, err := s.mentees.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, entities.ErrMenteeNotFound) {
			return fmt.Sprintf("Não encontrei mentorado com o nome \"%s\". Verifique se o nome está correto.", name)
		}
		s.logger.Error("mentee lookup failed", zap.String("name", name), zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}

	responses, err := s.surveys.ListByMentee(ctx, mentee.ID)
	if err != nil {
		s.logger.Error("survey list failed", zap.String("mentee_id", mentee.ID.String()), zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}
	if len(responses) == 0 {
		return fmt.Sprintf("%s ainda não respondeu nenhum formulário.", mentee.FullName)
	}

	// Newest response carries the freshest signal
	latest := responses[0]
	result := s.analyzeAndStore(ctx, latest, mentee)

	byKind := map[string]int64{}
	for _, r := range responses {
		byKind[r.FormKind]++
	}

	var facts strings.Builder
	fmt.Fprintf(&facts, "Mentorado: %s (turma %s, status %s)\n", mentee.FullName, mentee.Cohort, mentee.Status)
	fmt.Fprintf(&facts, "Formulários respondidos: %d\n", len(responses))
	for _, k := range sortedKeys(byKind) {
		fmt.Fprintf(&facts, "- %s: %d\n", k, byKind[k])
	}
	fmt.Fprintf(&facts, "Última resposta em: %s\n", latest.SubmittedAt.Format("02/01/2006"))
	fmt.Fprintf(&facts, "Análise da última resposta:\n")
	fmt.Fprintf(&facts, "- Emoção: %s\n", result.Emotion)
	fmt.Fprintf(&facts, "- Satisfação: %d%%\n", result.Satisfaction)
	fmt.Fprintf(&facts, "- Risco de churn: %d%%\n", result.ChurnProbability)
	fmt.Fprintf(&facts, "- Situação: %s\n", result.Situation)

	var fb strings.Builder
	fmt.Fprintf(&fb, "📋 **Formulários de %s**\n\n", mentee.FullName)
	fmt.Fprintf(&fb, "🎓 Turma: %s | 📊 Status: %s\n", mentee.Cohort, mentee.Status)
	fmt.Fprintf(&fb, "📄 Total de respostas: %d\n", len(responses))
	for _, k := range sortedKeys(byKind) {
		fmt.Fprintf(&fb, "• %s: %d\n", k, byKind[k])
	}
	fmt.Fprintf(&fb, "\n🧠 **Análise da última resposta (%s):**\n", latest.SubmittedAt.Format("02/01/2006"))
	fmt.Fprintf(&fb, "• Emoção: %s\n", result.Emotion)
	fmt.Fprintf(&fb, "• Satisfação: %d%%\n", result.Satisfaction)
	fmt.Fprintf(&fb, "• Risco de churn: %d%%\n", result.ChurnProbability)
	fmt.Fprintf(&fb, "• %s\n", result.Situation)

	return s.narrate(ctx, groundedPrompt(input, facts.String()), fb.String())
}

// analyzeAndStore runs the form analyzer and persists the result.
// Persistence is best effort, the reply does not depend on it.
func (s *Service) analyzeAndStore(ctx context.Context, response *entities.SurveyResponse, mentee *entities.Mentee) entities.AnalysisResult {
	report := s.analyzer.Analyze(ctx, response, mentee)
	if s.analyses != nil {
		raw, err := json.Marshal(report.Result)
		if err == nil {
			record := entities.NewSurveyAnalysis(response.ID, response.MenteeID, raw, s.analyzer.ModelName(), report.Degraded)
			record.ProcessingMs = int(report.Elapsed.Milliseconds())
			if err := s.analyses.Save(ctx, record); err != nil {
				s.logger.Warn("analysis persistence failed",
					zap.String("response_id", response.ID.String()),
					zap.Error(err),
				)
			}
		}
	}
	return report.Result
}

func (s *Service) handleAddPendency(ctx context.Context, cmd pendencyCommand) string {
	if cmd.amount <= 0 || cmd.month == "" {
		return "Preciso de mais informações. Exemplo: \"João Silva está devendo 5000 reais do mês de outubro\""
	}
	if cmd.name == "" {
		return fmt.Sprintf("Qual é o nome da pessoa que deve %s de %s?", formatBRL(cmd.amount), cmd.month)
	}

	mentee, err := s.mentees.FindByName(ctx, cmd.name)
	if err != nil {
		if errors.Is(err, entities.ErrMenteeNotFound) {
			return fmt.Sprintf("Não encontrei \"%s\" nos mentorados. Verifique o nome ou cadastre primeiro.", cmd.name)
		}
		s.logger.Error("mentee lookup failed", zap.String("name", cmd.name), zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}

	pendency := entities.NewPendency(mentee.ID, mentee.FullName, cmd.amount, cmd.month)
	if err := s.pendencies.Create(ctx, pendency); err != nil {
		s.logger.Error("pendency create failed", zap.String("mentee_id", mentee.ID.String()), zap.Error(err))
		return fmt.Sprintf("Erro ao registrar pendência: %v", err)
	}

	return fmt.Sprintf(`✅ **Pendência registrada!**

📋 **Detalhes:**
- **Nome:** %s
- **Valor:** %s
- **Mês:** %s
- **Status:** Pendente`, mentee.FullName, formatBRL(cmd.amount), cmd.month)
}

func (s *Service) handleListPendencies(ctx context.Context) string {
	pendencies, err := s.pendencies.ListPending(ctx)
	if err != nil {
		s.logger.Error("pendency list failed", zap.Error(err))
		return fmt.Sprintf("Erro ao buscar dados: %v", err)
	}
	if len(pendencies) == 0 {
		return "Não há pendências registradas. 🎉"
	}

	var total float64
	var b strings.Builder
	fmt.Fprintf(&b, "💰 **Pendências registradas (%d):**\n\n", len(pendencies))
	for i, p := range pendencies {
		total += p.Amount
		fmt.Fprintf(&b, "%d. **%s** deve %s (%s)\n", i+1, p.MenteeName, formatBRL(p.Amount), p.Month)
	}
	fmt.Fprintf(&b, "\n📊 **Total devido:** %s", formatBRL(total))
	return b.String()
}

func (s *Service) handleGeneral(ctx context.Context, input string) string {
	menteeCount, surveyCount := s.coarseCounts(ctx)

	if menteeCount >= 0 {
		facts := fmt.Sprintf("Mentorados cadastrados: %d\nRespostas de formulários: %d", menteeCount, surveyCount)
		if reply := s.tryNarrate(ctx, groundedPrompt(input, facts)); reply != "" {
			return reply
		}
	} else if reply := s.tryNarrate(ctx, input); reply != "" {
		return reply
	}

	lower := strings.ToLower(input)
	switch {
	case isGreeting(lower):
		return `Oi! 😊 Sou seu assistente de Customer Success.

Posso te ajudar com:
• 🔍 Buscar mentorados ("Tem algum mentorado chamado João?")
• 📊 Contar mentorados ("Quantos mentorados temos?")
• 📋 Listar mentorados ("Lista todos os mentorados")
• ➕ Cadastrar ("Cadastrar Maria, email maria@email.com")
• 🧠 Analisar formulários ("Análise dos formulários")
• 💰 Registrar pendências ("João está devendo 5000 reais de outubro")

O que você precisa?`
	case strings.Contains(lower, "funciona") || strings.Contains(lower, "como usar") || strings.Contains(lower, "como us"):
		return `Te explico! 🤖

Eu entendo perguntas em linguagem natural sobre seus mentorados. É só escrever como você falaria:

• "Tem mentorado chamado Ana?"
• "Quantos mentorados temos por turma?"
• "Me mostra os formulários da Maria"
• "Análise geral dos formulários"

Todos os dados vêm direto da sua base. Pode perguntar!`
	default:
		return `Não entendi bem... 🤔

Tenta perguntar de outro jeito, por exemplo:
• "Quantos mentorados temos?"
• "Buscar mentorado João"
• "Análise dos formulários"`
	}
}

// coarseCounts returns cached totals, falling back to the store.
// Returns (-1, -1) when nothing is available; the general handler
// then answers without grounding facts.
func (s *Service) coarseCounts(ctx context.Context) (int64, int64) {
	if s.counts != nil {
		if mentees, surveys, ok := s.counts.GetCounts(ctx); ok {
			return mentees, surveys
		}
	}
	mentees, err := s.mentees.Count(ctx)
	if err != nil {
		s.logger.Debug("coarse mentee count unavailable", zap.Error(err))
		return -1, -1
	}
	surveys, err := s.surveys.Count(ctx)
	if err != nil {
		s.logger.Debug("coarse survey count unavailable", zap.Error(err))
		surveys = 0
	}
	if s.counts != nil {
		s.counts.SetCounts(ctx, mentees, surveys)
	}
	return mentees, surveys
}

var greetings = map[string]bool{
	"oi": true, "olá": true, "ola": true, "e aí": true, "eai": true,
	"hey": true, "opa": true, "fala": true, "blz": true, "beleza": true,
	"bom dia": true, "boa tarde": true, "boa noite": true,
}

func isGreeting(lower string) bool {
	return greetings[strings.TrimRight(lower, "!?. ")]
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatBRL renders a value as Brazilian currency, e.g. "R$ 5.000,00".
func formatBRL(v float64) string {
	raw := fmt.Sprintf("%.2f", v)
	intPart, decPart, _ := strings.Cut(raw, ".")
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return "R$ " + b.String() + "," + decPart
}
