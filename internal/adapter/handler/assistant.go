package handler

import (
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"

	"github.com/mentorhub/crm-assistant/errors"
	assistantdto "github.com/mentorhub/crm-assistant/internal/adapter/dto/assistant"
	"github.com/mentorhub/crm-assistant/internal/domain/entities"
	"github.com/mentorhub/crm-assistant/internal/usecase/assistant"
)

// Assistant exposes the conversational engine over HTTP
type Assistant struct {
	service *assistant.Service
	logger  *zap.Logger
}

// NewAssistant creates the assistant handler
func NewAssistant(service *assistant.Service, logger *zap.Logger) *Assistant {
	return &Assistant{
		service: service,
		logger:  logger,
	}
}

// Command processes one conversational command.
// The engine itself never fails; only a malformed request is an error here.
func (h *Assistant) Command(c echo.Context) error {
	var req assistantdto.CommandRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidationFailed("message"))
	}

	history := make([]entities.ConversationTurn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, entities.ConversationTurn{
			Type:    turn.Type,
			Message: turn.Message,
		})
	}

	reply := h.service.ProcessCommand(c.Request().Context(), req.Message, history)

	return HandleSuccess(h.logger, c, assistantdto.CommandResponse{Reply: reply})
}
