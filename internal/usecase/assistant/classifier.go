package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
	"github.com/mentorhub/crm-assistant/pkg/ai"
)

// Classifier decides what a user message is asking for. A cheap rule pass
// runs first and short-circuits on unambiguous commands; only when the
// rules stay silent does the language model get a say, and any model
// failure collapses to the conservative default.
type Classifier struct {
	gateway       ai.Gateway
	logger        *zap.Logger
	historyWindow int
}

// NewClassifier creates a Classifier
func NewClassifier(gateway ai.Gateway, logger *zap.Logger, historyWindow int) *Classifier {
	return &Classifier{
		gateway:       gateway,
		logger:        logger,
		historyWindow: historyWindow,
	}
}

// Capitalized Portuguese proper-name capture, shared by the rule patterns
const namePattern = `([A-ZÁÉÍÓÚÀÂÊÔÃÕÇ][a-záéíóúàâêôãõç]+(?:\s+[A-ZÁÉÍÓÚÀÂÊÔÃÕÇ][a-záéíóúàâêôãõç]+)*)`

var (
	reSearchName = regexp.MustCompile(`(?:tem|existe|há|Tem|Existe|Há)\s+(?:o\s+|a\s+)?(?:mentorad[oa]\s+)?` + namePattern)
	reLookupName = regexp.MustCompile(`(?i:buscar|procurar)\s+(?:o\s+|a\s+)?(?:mentorad[oa]\s+)?` + namePattern)
	rePersonForm = regexp.MustCompile(`(?i:formulários?|respostas)\s+(?:do|da|de)\s+` + namePattern)
	reCreateRest = regexp.MustCompile(`(?i)(?:cadastrar|adicionar|criar)\s+([^,]+)`)
)

// Classify runs the rule pass and, when inconclusive, the model pass
func (c *Classifier) Classify(ctx context.Context, input string, history []entities.ConversationTurn) entities.ClassifiedIntent {
	if intent, ok := c.ruleClassify(input); ok {
		return intent
	}
	return c.modelClassify(ctx, input, history)
}

// ruleClassify handles the vocabulary the CRM sees every day. It only
// claims an intent when the wording is unambiguous; anything fuzzy is
// left for the model.
func (c *Classifier) ruleClassify(input string) (entities.ClassifiedIntent, bool) {
	lower := strings.ToLower(input)

	mentionsMentee := strings.Contains(lower, "mentorado") ||
		strings.Contains(lower, "mentorada") ||
		strings.Contains(lower, "aluno") ||
		strings.Contains(lower, "cliente")

	switch {
	case mentionsMentee && containsAny(lower, "cadastrar", "novo", "adicionar"):
		data := map[string]string{}
		if m := reCreateRest.FindStringSubmatch(input); m != nil {
			data["nome"] = strings.TrimSpace(m[1])
		}
		return entities.ClassifiedIntent{
			NeedsData:       true,
			QueryType:       entities.QueryCreate,
			ExtractedData:   data,
			NaturalResponse: true,
		}, true

	case strings.Contains(lower, "quantos") && strings.Contains(lower, "mentorados"):
		return intentFor(entities.QueryCount, nil), true

	case mentionsMentee && containsAny(lower, "lista", "todos"):
		return intentFor(entities.QueryList, nil), true

	case mentionsMentee && containsAny(lower, "buscar", "procurar", "tem ", "existe", "há "):
		if name := extractName(input); name != "" {
			return intentFor(entities.QuerySearchPerson, map[string]string{"nome": name}), true
		}

	case rePersonForm.MatchString(input):
		if m := rePersonForm.FindStringSubmatch(input); m != nil {
			return intentFor(entities.QueryPersonForms, map[string]string{"nome": m[1]}), true
		}

	case containsAny(lower, "formulário", "formularios", "insights", "relatório"):
		return intentFor(entities.QueryFormAnalysis, nil), true
	}

	return entities.ClassifiedIntent{}, false
}

// extractName pulls a capitalized proper name out of a search phrase
func extractName(input string) string {
	for _, re := range []*regexp.Regexp{reSearchName, reLookupName} {
		if m := re.FindStringSubmatch(input); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func intentFor(qt entities.QueryType, data map[string]string) entities.ClassifiedIntent {
	if data == nil {
		data = map[string]string{}
	}
	return entities.ClassifiedIntent{
		NeedsData:       qt != entities.QueryGeneral,
		QueryType:       qt,
		ExtractedData:   data,
		NaturalResponse: true,
	}
}

// modelClassify asks the model with a deliberately conservative prompt.
// The worked examples bias it toward "general": a wrong search annoys the
// user far more than a missed one.
func (c *Classifier) modelClassify(ctx context.Context, input string, history []entities.ConversationTurn) entities.ClassifiedIntent {
	prompt := c.buildClassifyPrompt(input, history)

	res := c.gateway.Query(ctx, prompt)
	if !res.Success {
		c.logger.Warn("model classify unavailable, using conservative default", zap.Error(res.Err))
		return entities.DefaultIntent()
	}

	island, ok := ai.ExtractJSONObject(res.Content)
	if !ok {
		return entities.DefaultIntent()
	}

	var raw struct {
		NeedsData       bool            `json:"needsData"`
		QueryType       string          `json:"queryType"`
		ExtractedData   json.RawMessage `json:"extractedData"`
		NaturalResponse bool            `json:"naturalResponse"`
	}
	if err := json.Unmarshal([]byte(island), &raw); err != nil {
		c.logger.Debug("model classify returned unusable json", zap.Error(err))
		return entities.DefaultIntent()
	}

	qt := entities.QueryType(raw.QueryType)
	if !qt.Valid() {
		return entities.DefaultIntent()
	}

	data := map[string]string{}
	if len(raw.ExtractedData) > 0 {
		// Tolerant decode: non-string values are stringified, not fatal
		var loose map[string]interface{}
		if err := json.Unmarshal(raw.ExtractedData, &loose); err == nil {
			for k, v := range loose {
				if s, ok := v.(string); ok {
					data[k] = s
				} else if v != nil {
					data[k] = fmt.Sprintf("%v", v)
				}
			}
		}
	}

	return entities.ClassifiedIntent{
		NeedsData:       raw.NeedsData,
		QueryType:       qt,
		ExtractedData:   data,
		NaturalResponse: raw.NaturalResponse,
	}
}

func (c *Classifier) buildClassifyPrompt(input string, history []entities.ConversationTurn) string {
	var contextBlock string
	if len(history) > 0 {
		var sb strings.Builder
		for _, turn := range entities.Window(history, c.historyWindow) {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Type, turn.Message)
		}
		contextBlock = fmt.Sprintf("CONTEXTO DA CONVERSA:\n%s\n", sb.String())
	}

	return fmt.Sprintf(`Analise esta conversa e a nova pergunta do usuário:

%sNOVA PERGUNTA: "%s"

REGRAS IMPORTANTES:
1. SÓ classifique como "search_person" se o usuário EXPLICITAMENTE pedir para buscar uma pessoa
2. SÓ use contexto para pronomes como "ele", "ela" quando há referência CLARA
3. Para cumprimentos, conversas casuais, ou perguntas vagas, use "general"
4. NÃO force buscas de pessoas se não for óbvio

Responda APENAS com JSON válido no formato:
{
  "needsData": false,
  "queryType": "general",
  "extractedData": {},
  "naturalResponse": true
}

Tipos possíveis:
- search_person: APENAS para buscas explícitas ("Tem João?", "Existe Maria?", "Buscar Pedro")
- count: contagens específicas ("Quantos mentorados?", "Total de formulários")
- list: listagens explícitas ("Lista mentorados", "Mostra todos")
- create: criação clara ("Cadastrar João Silva", "Adicionar mentorado")
- form_analysis: análise geral de formulários ("Analise formulários", "Quem respondeu?")
- person_forms: formulários de pessoa específica ("Formulários do João", "Respostas da Maria")
- general: qualquer coisa que não se encaixe claramente acima

Exemplos:
"Oi" → {"needsData": false, "queryType": "general", "extractedData": {}, "naturalResponse": true}
"Como vai?" → {"needsData": false, "queryType": "general", "extractedData": {}, "naturalResponse": true}
"Fala ae" → {"needsData": false, "queryType": "general", "extractedData": {}, "naturalResponse": true}
"Tem mentorado João?" → {"needsData": true, "queryType": "search_person", "extractedData": {"nome": "João"}, "naturalResponse": true}

SEJA CONSERVADOR: Em caso de dúvida, use "general" com needsData: false`, contextBlock, input)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
