package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
	"github.com/mentorhub/crm-assistant/internal/usecase/analysis"
	"github.com/mentorhub/crm-assistant/internal/usecase/assistant"
	"github.com/mentorhub/crm-assistant/pkg/ai"
	"github.com/mentorhub/crm-assistant/pkg/config"
	pkgvalidator "github.com/mentorhub/crm-assistant/pkg/validator"
)

type offlineGateway struct{}

func (offlineGateway) Query(ctx context.Context, prompt string) ai.Result {
	return ai.Result{Err: errors.New("connection refused")}
}

func (offlineGateway) Model() string { return "gemma3:1b" }

type memMenteeRepo struct {
	mentees []*entities.Mentee
}

func (r *memMenteeRepo) Create(ctx context.Context, m *entities.Mentee) error {
	r.mentees = append(r.mentees, m)
	return nil
}

func (r *memMenteeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Mentee, error) {
	for _, m := range r.mentees {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, entities.ErrMenteeNotFound
}

func (r *memMenteeRepo) Search(ctx context.Context, term string, limit int) ([]*entities.Mentee, error) {
	var out []*entities.Mentee
	for _, m := range r.mentees {
		if strings.Contains(strings.ToLower(m.FullName), strings.ToLower(term)) {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memMenteeRepo) FindByName(ctx context.Context, name string) (*entities.Mentee, error) {
	matches, _ := r.Search(ctx, name, 1)
	if len(matches) == 0 {
		return nil, entities.ErrMenteeNotFound
	}
	return matches[0], nil
}

func (r *memMenteeRepo) List(ctx context.Context, limit int) ([]*entities.Mentee, error) {
	return r.mentees, nil
}

func (r *memMenteeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.mentees)), nil
}

func (r *memMenteeRepo) CountByCohort(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (r *memMenteeRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type memSurveyRepo struct {
	responses []*entities.SurveyResponse
}

func (r *memSurveyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.SurveyResponse, error) {
	for _, resp := range r.responses {
		if resp.ID == id {
			return resp, nil
		}
	}
	return nil, entities.ErrResponseNotFound
}

func (r *memSurveyRepo) ListByMentee(ctx context.Context, menteeID uuid.UUID) ([]*entities.SurveyResponse, error) {
	return nil, nil
}

func (r *memSurveyRepo) ListRecent(ctx context.Context, limit int) ([]*entities.SurveyResponse, error) {
	return r.responses, nil
}

func (r *memSurveyRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.responses)), nil
}

func (r *memSurveyRepo) CountByKind(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type memAnalysisRepo struct {
	saved map[uuid.UUID]*entities.SurveyAnalysis
}

func (r *memAnalysisRepo) Save(ctx context.Context, a *entities.SurveyAnalysis) error {
	if r.saved == nil {
		r.saved = map[uuid.UUID]*entities.SurveyAnalysis{}
	}
	r.saved[a.ResponseID] = a
	return nil
}

func (r *memAnalysisRepo) FindByResponseID(ctx context.Context, id uuid.UUID) (*entities.SurveyAnalysis, error) {
	if a, ok := r.saved[id]; ok {
		return a, nil
	}
	return nil, entities.ErrAnalysisNotFound
}

type memPendencyRepo struct{}

func (memPendencyRepo) Create(ctx context.Context, p *entities.Pendency) error { return nil }
func (memPendencyRepo) ListPending(ctx context.Context) ([]*entities.Pendency, error) {
	return nil, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e
}

func newAssistantHandler(mentees *memMenteeRepo) *Assistant {
	gw := offlineGateway{}
	analyzer := analysis.NewFormAnalyzer(gw, zap.NewNop())
	cfg := config.AssistantConfig{HistoryWindow: 5, ListLimit: 20, AggregatePage: 50, SampleSize: 10}
	svc := assistant.NewService(gw, analyzer, mentees, &memSurveyRepo{}, &memAnalysisRepo{},
		memPendencyRepo{}, nil, zap.NewNop(), cfg)
	return NewAssistant(svc, zap.NewNop())
}

func postJSON(e *echo.Echo, path, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestAssistantCommand_Success(t *testing.T) {
	e := newEcho()
	mentees := &memMenteeRepo{}
	m := entities.NewMentee("João Silva", "joao@email.com")
	m.Cohort = "2024-2"
	mentees.mentees = append(mentees.mentees, m)
	h := newAssistantHandler(mentees)

	rec, c := postJSON(e, "/v1/assistant/command", `{"message": "Tem mentorado João?"}`)
	require.NoError(t, h.Command(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Reply string `json:"reply"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.Code)
	assert.Contains(t, body.Data.Reply, "João Silva")
}

func TestAssistantCommand_MissingMessage(t *testing.T) {
	e := newEcho()
	h := newAssistantHandler(&memMenteeRepo{})

	rec, c := postJSON(e, "/v1/assistant/command", `{"history": []}`)
	require.NoError(t, h.Command(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistantCommand_MalformedBody(t *testing.T) {
	e := newEcho()
	h := newAssistantHandler(&memMenteeRepo{})

	rec, c := postJSON(e, "/v1/assistant/command", `{"message": `)
	require.NoError(t, h.Command(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistantCommand_HistoryIsForwarded(t *testing.T) {
	e := newEcho()
	h := newAssistantHandler(&memMenteeRepo{})

	rec, c := postJSON(e, "/v1/assistant/command",
		`{"message": "Oi", "history": [{"type": "assistant", "message": "Olá!"}]}`)
	require.NoError(t, h.Command(c))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSurveyAnalyze_InvalidID(t *testing.T) {
	e := newEcho()
	gw := offlineGateway{}
	h := NewSurvey(&memSurveyRepo{}, &memMenteeRepo{}, &memAnalysisRepo{},
		analysis.NewFormAnalyzer(gw, zap.NewNop()), zap.NewNop())

	rec, c := postJSON(e, "/v1/surveys/nope/analyze", ``)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	require.NoError(t, h.Analyze(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSurveyAnalyze_NotFound(t *testing.T) {
	e := newEcho()
	gw := offlineGateway{}
	h := NewSurvey(&memSurveyRepo{}, &memMenteeRepo{}, &memAnalysisRepo{},
		analysis.NewFormAnalyzer(gw, zap.NewNop()), zap.NewNop())

	rec, c := postJSON(e, "/v1/surveys/x/analyze", ``)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	require.NoError(t, h.Analyze(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSurveyAnalyze_PersistsDegradedResult(t *testing.T) {
	e := newEcho()
	gw := offlineGateway{}
	surveys := &memSurveyRepo{}
	analyses := &memAnalysisRepo{}
	resp := entities.NewSurveyResponse(uuid.New(), "nps_mensal", map[string]interface{}{"nota_nps": float64(9)})
	surveys.responses = append(surveys.responses, resp)
	h := NewSurvey(surveys, &memMenteeRepo{}, analyses,
		analysis.NewFormAnalyzer(gw, zap.NewNop()), zap.NewNop())

	rec, c := postJSON(e, "/v1/surveys/x/analyze", ``)
	c.SetParamNames("id")
	c.SetParamValues(resp.ID.String())
	require.NoError(t, h.Analyze(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	saved, ok := analyses.saved[resp.ID]
	require.True(t, ok)
	assert.True(t, saved.Degraded)
	assert.Contains(t, string(saved.Result), `"emocao":"positivo"`)
}
