package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
	"github.com/mentorhub/crm-assistant/internal/usecase/analysis"
	"github.com/mentorhub/crm-assistant/pkg/ai"
	"github.com/mentorhub/crm-assistant/pkg/config"
)

// downGateway simulates a dead model and counts the attempts
type downGateway struct {
	calls int
}

func (g *downGateway) Query(ctx context.Context, prompt string) ai.Result {
	g.calls++
	return ai.Result{Err: errors.New("connection refused")}
}

func (g *downGateway) Model() string { return "gemma3:1b" }

// cannedGateway replays fixed content for every prompt
type cannedGateway struct {
	content string
	prompts []string
}

func (g *cannedGateway) Query(ctx context.Context, prompt string) ai.Result {
	g.prompts = append(g.prompts, prompt)
	return ai.Result{Success: true, Content: g.content}
}

func (g *cannedGateway) Model() string { return "gemma3:1b" }

type fakeMenteeRepo struct {
	mentees   []*entities.Mentee
	created   []*entities.Mentee
	searchErr error
	countErr  error
	createErr error
}

func (r *fakeMenteeRepo) Create(ctx context.Context, m *entities.Mentee) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, m)
	r.mentees = append(r.mentees, m)
	return nil
}

func (r *fakeMenteeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Mentee, error) {
	for _, m := range r.mentees {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, entities.ErrMenteeNotFound
}

func (r *fakeMenteeRepo) Search(ctx context.Context, term string, limit int) ([]*entities.Mentee, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	lower := strings.ToLower(term)
	var out []*entities.Mentee
	for _, m := range r.mentees {
		if strings.Contains(strings.ToLower(m.FullName), lower) ||
			strings.Contains(strings.ToLower(m.Email), lower) {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeMenteeRepo) FindByName(ctx context.Context, name string) (*entities.Mentee, error) {
	matches, err := r.Search(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, entities.ErrMenteeNotFound
	}
	return matches[0], nil
}

func (r *fakeMenteeRepo) List(ctx context.Context, limit int) ([]*entities.Mentee, error) {
	if len(r.mentees) > limit {
		return r.mentees[:limit], nil
	}
	return r.mentees, nil
}

func (r *fakeMenteeRepo) Count(ctx context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.mentees)), nil
}

func (r *fakeMenteeRepo) CountByCohort(ctx context.Context) (map[string]int64, error) {
	if r.countErr != nil {
		return nil, r.countErr
	}
	out := map[string]int64{}
	for _, m := range r.mentees {
		out[m.Cohort]++
	}
	return out, nil
}

func (r *fakeMenteeRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if r.countErr != nil {
		return nil, r.countErr
	}
	out := map[string]int64{}
	for _, m := range r.mentees {
		out[m.Status]++
	}
	return out, nil
}

type fakeSurveyRepo struct {
	responses []*entities.SurveyResponse
	listErr   error
}

func (r *fakeSurveyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.SurveyResponse, error) {
	for _, resp := range r.responses {
		if resp.ID == id {
			return resp, nil
		}
	}
	return nil, entities.ErrResponseNotFound
}

func (r *fakeSurveyRepo) ListByMentee(ctx context.Context, menteeID uuid.UUID) ([]*entities.SurveyResponse, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*entities.SurveyResponse
	for _, resp := range r.responses {
		if resp.MenteeID == menteeID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *fakeSurveyRepo) ListRecent(ctx context.Context, limit int) ([]*entities.SurveyResponse, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	if len(r.responses) > limit {
		return r.responses[:limit], nil
	}
	return r.responses, nil
}

func (r *fakeSurveyRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.responses)), nil
}

func (r *fakeSurveyRepo) CountByKind(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, resp := range r.responses {
		out[resp.FormKind]++
	}
	return out, nil
}

type fakeAnalysisRepo struct {
	saved map[uuid.UUID]*entities.SurveyAnalysis
}

func (r *fakeAnalysisRepo) Save(ctx context.Context, a *entities.SurveyAnalysis) error {
	if r.saved == nil {
		r.saved = map[uuid.UUID]*entities.SurveyAnalysis{}
	}
	r.saved[a.ResponseID] = a
	return nil
}

func (r *fakeAnalysisRepo) FindByResponseID(ctx context.Context, responseID uuid.UUID) (*entities.SurveyAnalysis, error) {
	if a, ok := r.saved[responseID]; ok {
		return a, nil
	}
	return nil, entities.ErrAnalysisNotFound
}

type fakePendencyRepo struct {
	pendencies []*entities.Pendency
}

func (r *fakePendencyRepo) Create(ctx context.Context, p *entities.Pendency) error {
	r.pendencies = append(r.pendencies, p)
	return nil
}

func (r *fakePendencyRepo) ListPending(ctx context.Context) ([]*entities.Pendency, error) {
	return r.pendencies, nil
}

type fixture struct {
	service    *Service
	mentees    *fakeMenteeRepo
	surveys    *fakeSurveyRepo
	analyses   *fakeAnalysisRepo
	pendencies *fakePendencyRepo
}

func newFixture(gateway ai.Gateway) *fixture {
	mentees := &fakeMenteeRepo{}
	surveys := &fakeSurveyRepo{}
	analyses := &fakeAnalysisRepo{}
	pendencies := &fakePendencyRepo{}
	cfg := config.AssistantConfig{
		HistoryWindow: 5,
		ListLimit:     20,
		AggregatePage: 50,
		SampleSize:    10,
	}
	analyzer := analysis.NewFormAnalyzer(gateway, zap.NewNop())
	svc := NewService(gateway, analyzer, mentees, surveys, analyses, pendencies, nil, zap.NewNop(), cfg)
	return &fixture{service: svc, mentees: mentees, surveys: surveys, analyses: analyses, pendencies: pendencies}
}

func seedMentee(f *fixture, name, email, cohort string) *entities.Mentee {
	m := entities.NewMentee(name, email)
	m.Cohort = cohort
	f.mentees.mentees = append(f.mentees.mentees, m)
	return m
}

func TestProcessCommand_SearchMiss(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(), "Tem mentorado João?", nil)

	assert.Contains(t, reply, `❌ **Não existe** mentorado com o nome "João" no sistema.`)
	assert.Contains(t, reply, `Para cadastrar, use: "Cadastrar João, email usuario@email.com"`)
}

func TestProcessCommand_SearchHit(t *testing.T) {
	f := newFixture(&downGateway{})
	seedMentee(f, "João Silva", "joao@email.com", "2024-2")

	reply := f.service.ProcessCommand(context.Background(), "Tem mentorado João?", nil)

	assert.Contains(t, reply, `✅ **Encontrei 1 mentorado(s) com "João":**`)
	assert.Contains(t, reply, "joao@email.com")
	assert.Contains(t, reply, "Turma: 2024-2")
}

func TestProcessCommand_SearchShowsFirstPageOnly(t *testing.T) {
	f := newFixture(&downGateway{})
	for i := 0; i < 15; i++ {
		seedMentee(f, fmt.Sprintf("João Número %d", i), fmt.Sprintf("joao%d@email.com", i), "2024-2")
	}

	reply := f.service.ProcessCommand(context.Background(), "Tem mentorado João?", nil)

	assert.Contains(t, reply, `✅ **Encontrei 15 mentorado(s) com "João":**`)
	assert.Equal(t, 10, strings.Count(reply, "👤"))
	assert.Contains(t, reply, "... e mais 5 mentorados.")
}

func TestProcessCommand_SearchRuleSkipsModel(t *testing.T) {
	gw := &downGateway{}
	f := newFixture(gw)
	seedMentee(f, "João Silva", "joao@email.com", "2024-2")

	f.service.ProcessCommand(context.Background(), "Tem mentorado João?", nil)

	assert.Zero(t, gw.calls, "rule-classified search must not touch the model")
}

func TestProcessCommand_CountModelDownUsesTemplate(t *testing.T) {
	f := newFixture(&downGateway{})
	for i := 0; i < 3; i++ {
		seedMentee(f, "Mentorado Um", "m@email.com", "2024-2")
	}

	reply := f.service.ProcessCommand(context.Background(), "Quantos mentorados temos?", nil)

	assert.Contains(t, reply, "📊 **Total de Mentorados: 3**")
	assert.Contains(t, reply, "2024-2: 3")
}

func TestProcessCommand_CountStoreErrorSurfaces(t *testing.T) {
	f := newFixture(&downGateway{})
	f.mentees.countErr = errors.New("connection reset")

	reply := f.service.ProcessCommand(context.Background(), "Quantos mentorados temos?", nil)

	assert.Contains(t, reply, "Erro ao buscar dados:")
	assert.Contains(t, reply, "connection reset")
}

func TestProcessCommand_ListEmpty(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(), "Lista todos os mentorados", nil)

	assert.Equal(t, "📭 Não há mentorados cadastrados no sistema.", reply)
}

func TestProcessCommand_ListCapsAtTen(t *testing.T) {
	f := newFixture(&downGateway{})
	for i := 0; i < 15; i++ {
		seedMentee(f, "Mentorado Numero", "n@email.com", "2024-2")
	}

	reply := f.service.ProcessCommand(context.Background(), "Lista todos os mentorados", nil)

	assert.Contains(t, reply, "Mentorados cadastrados (15)")
	assert.Contains(t, reply, "... e mais 5 mentorados.")
	assert.NotContains(t, reply, "11.")
}

func TestProcessCommand_Create(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(),
		"Cadastrar mentorado João Silva, email joao@email.com, turma 2025-1", nil)

	assert.Contains(t, reply, "✅ **João Silva** cadastrado com sucesso!")
	require.Len(t, f.mentees.created, 1)
	assert.Equal(t, "joao@email.com", f.mentees.created[0].Email)
	assert.Equal(t, "2025-1", f.mentees.created[0].Cohort)
}

func TestProcessCommand_CreateMissingEmailAsksNaturally(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(), "Cadastrar mentorado João Silva", nil)

	assert.Contains(t, reply, "preciso de um email válido")
	assert.Empty(t, f.mentees.created)
}

func TestProcessCommand_PersonFormsNotFound(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(), "Formulários da Maria", nil)

	assert.Contains(t, reply, `Não encontrei mentorado com o nome "Maria".`)
}

func TestProcessCommand_PersonFormsNoResponses(t *testing.T) {
	f := newFixture(&downGateway{})
	seedMentee(f, "Maria Santos", "maria@email.com", "2024-2")

	reply := f.service.ProcessCommand(context.Background(), "Formulários da Maria", nil)

	assert.Equal(t, "Maria Santos ainda não respondeu nenhum formulário.", reply)
}

func TestProcessCommand_PersonFormsAnalyzesAndPersists(t *testing.T) {
	f := newFixture(&downGateway{})
	mentee := seedMentee(f, "Maria Santos", "maria@email.com", "2024-2")
	resp := entities.NewSurveyResponse(mentee.ID, "nps_mensal", map[string]interface{}{
		"nota_nps":   float64(2),
		"comentario": "Muito insatisfeita",
	})
	f.surveys.responses = append(f.surveys.responses, resp)

	reply := f.service.ProcessCommand(context.Background(), "Formulários da Maria", nil)

	assert.Contains(t, reply, "Formulários de Maria Santos")
	assert.Contains(t, reply, "Satisfação: 20%")
	assert.Contains(t, reply, "Risco de churn: 85%")

	saved, ok := f.analyses.saved[resp.ID]
	require.True(t, ok, "analysis must be persisted")
	assert.True(t, saved.Degraded)
	assert.Equal(t, "gemma3:1b", saved.ModelUsed)
}

func TestProcessCommand_AggregateEmpty(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(), "Análise dos formulários", nil)

	assert.Equal(t, "📄 Não há respostas de formulários para analisar.", reply)
}

func TestProcessCommand_AggregateModelDown(t *testing.T) {
	f := newFixture(&downGateway{})
	mentee := seedMentee(f, "Maria Santos", "maria@email.com", "2024-2")
	for _, score := range []float64{2, 6, 9} {
		f.surveys.responses = append(f.surveys.responses,
			entities.NewSurveyResponse(mentee.ID, "nps_mensal", map[string]interface{}{"nota_nps": score}))
	}

	reply := f.service.ProcessCommand(context.Background(), "Análise dos formulários", nil)

	assert.Contains(t, reply, "Respostas: 3 (amostra detalhada: 3)")
	assert.Contains(t, reply, "0-4: 1")
	assert.Contains(t, reply, "5-7: 1")
	assert.Contains(t, reply, "8-10: 1")
}

func TestProcessCommand_AddPendency(t *testing.T) {
	f := newFixture(&downGateway{})
	seedMentee(f, "João Silva", "joao@email.com", "2024-2")

	reply := f.service.ProcessCommand(context.Background(),
		"João Silva está devendo 5 mil reais do mês de outubro", nil)

	assert.Contains(t, reply, "✅ **Pendência registrada!**")
	assert.Contains(t, reply, "R$ 5.000,00")
	assert.Contains(t, reply, "outubro")
	require.Len(t, f.pendencies.pendencies, 1)
	assert.Equal(t, 5000.0, f.pendencies.pendencies[0].Amount)
}

func TestProcessCommand_AddPendencyMissingInfo(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(), "João está devendo", nil)

	assert.Contains(t, reply, "Preciso de mais informações.")
	assert.Contains(t, reply, "João Silva está devendo 5000 reais do mês de outubro")
}

func TestProcessCommand_ListPendencies(t *testing.T) {
	f := newFixture(&downGateway{})
	f.pendencies.pendencies = append(f.pendencies.pendencies,
		entities.NewPendency(uuid.New(), "João Silva", 5000, "outubro"),
		entities.NewPendency(uuid.New(), "Maria Santos", 1200.50, "setembro"),
	)

	reply := f.service.ProcessCommand(context.Background(), "Quem está devendo?", nil)

	assert.Contains(t, reply, "Pendências registradas (2)")
	assert.Contains(t, reply, "R$ 5.000,00")
	assert.Contains(t, reply, "R$ 1.200,50")
	assert.Contains(t, reply, "**Total devido:** R$ 6.200,50")
}

func TestProcessCommand_GreetingModelDown(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(), "Oi", nil)

	assert.Contains(t, reply, "assistente de Customer Success")
	assert.Contains(t, reply, "Quantos mentorados temos?")
}

func TestProcessCommand_GeneralNarrationIsGrounded(t *testing.T) {
	gw := &cannedGateway{content: `{"needsData": false, "queryType": "general", "extractedData": {}, "naturalResponse": true}`}
	f := newFixture(gw)
	seedMentee(f, "Maria Santos", "maria@email.com", "2024-2")

	f.service.ProcessCommand(context.Background(), "Como estamos?", nil)

	require.NotEmpty(t, gw.prompts)
	last := gw.prompts[len(gw.prompts)-1]
	assert.Contains(t, last, "Mentorados cadastrados: 1")
	assert.Contains(t, last, "Responda APENAS baseado nestes dados reais")
}

func TestProcessCommand_EmptyInput(t *testing.T) {
	f := newFixture(&downGateway{})

	reply := f.service.ProcessCommand(context.Background(), "   ", nil)

	assert.NotEmpty(t, reply)
	assert.Contains(t, reply, "reformular")
}

type panicMenteeRepo struct {
	fakeMenteeRepo
}

func (r *panicMenteeRepo) Search(ctx context.Context, term string, limit int) ([]*entities.Mentee, error) {
	panic("boom")
}

func TestProcessCommand_PanicBecomesApology(t *testing.T) {
	gw := &downGateway{}
	cfg := config.AssistantConfig{HistoryWindow: 5, ListLimit: 20, AggregatePage: 50, SampleSize: 10}
	svc := NewService(gw, analysis.NewFormAnalyzer(gw, zap.NewNop()),
		&panicMenteeRepo{}, &fakeSurveyRepo{}, &fakeAnalysisRepo{}, &fakePendencyRepo{},
		nil, zap.NewNop(), cfg)

	reply := svc.ProcessCommand(context.Background(), "Tem mentorado João?", nil)

	assert.Equal(t, replyInternalError, reply)
}
