package handler

import (
	"encoding/json"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mentorhub/crm-assistant/errors"
	assistantdto "github.com/mentorhub/crm-assistant/internal/adapter/dto/assistant"
	"github.com/mentorhub/crm-assistant/internal/domain/entities"
	"github.com/mentorhub/crm-assistant/internal/domain/repositories"
	"github.com/mentorhub/crm-assistant/internal/usecase/analysis"
)

// Survey exposes on-demand analysis of stored survey responses
type Survey struct {
	surveys  repositories.SurveyRepository
	mentees  repositories.MenteeRepository
	analyses repositories.AnalysisRepository
	analyzer *analysis.FormAnalyzer
	logger   *zap.Logger
}

// NewSurvey creates the survey handler
func NewSurvey(
	surveys repositories.SurveyRepository,
	mentees repositories.MenteeRepository,
	analyses repositories.AnalysisRepository,
	analyzer *analysis.FormAnalyzer,
	logger *zap.Logger,
) *Survey {
	return &Survey{
		surveys:  surveys,
		mentees:  mentees,
		analyses: analyses,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Analyze runs the form analyzer on one response and persists the result.
// Re-running replaces the stored analysis for that response.
func (h *Survey) Analyze(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("response id must be a UUID"))
	}

	response, err := h.surveys.FindByID(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrResponseNotFound) {
			return HandleError(h.logger, c, errors.ErrResponseNotFound(id.String()))
		}
		return HandleError(h.logger, c, errors.ErrDataStore("find survey response", err))
	}

	// The mentee only enriches the prompt; a missing one is not fatal
	mentee, err := h.mentees.FindByID(c.Request().Context(), response.MenteeID)
	if err != nil {
		mentee = nil
	}

	report := h.analyzer.Analyze(c.Request().Context(), response, mentee)

	raw, err := json.Marshal(report.Result)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	record := entities.NewSurveyAnalysis(response.ID, response.MenteeID, raw, h.analyzer.ModelName(), report.Degraded)
	record.ProcessingMs = int(report.Elapsed.Milliseconds())
	if err := h.analyses.Save(c.Request().Context(), record); err != nil {
		return HandleError(h.logger, c, errors.ErrDataStore("save analysis", err))
	}

	return HandleSuccess(h.logger, c, assistantdto.AnalysisResponse{
		ResponseID:   response.ID.String(),
		Result:       raw,
		ModelUsed:    record.ModelUsed,
		Degraded:     record.Degraded,
		ProcessingMs: record.ProcessingMs,
	})
}
