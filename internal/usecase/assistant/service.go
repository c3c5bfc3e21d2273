package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mentorhub/crm-assistant/internal/domain/entities"
	"github.com/mentorhub/crm-assistant/internal/domain/repositories"
	"github.com/mentorhub/crm-assistant/internal/usecase/analysis"
	"github.com/mentorhub/crm-assistant/pkg/ai"
	"github.com/mentorhub/crm-assistant/pkg/config"
	pkgvalidator "github.com/mentorhub/crm-assistant/pkg/validator"
)

// CountsCache caches the coarse totals the general handler leans on.
// A cache failure is never fatal; callers fall through to the store.
type CountsCache interface {
	GetCounts(ctx context.Context) (mentees, surveys int64, ok bool)
	SetCounts(ctx context.Context, mentees, surveys int64)
}

// Service is the conversational engine. One entry point, ProcessCommand,
// which always answers: model failures degrade, store failures surface as
// user-visible text, and panics become a generic apology.
type Service struct {
	gateway    ai.Gateway
	classifier *Classifier
	analyzer   *analysis.FormAnalyzer
	mentees    repositories.MenteeRepository
	surveys    repositories.SurveyRepository
	analyses   repositories.AnalysisRepository
	pendencies repositories.PendencyRepository
	counts     CountsCache
	validator  *pkgvalidator.CustomValidator
	logger     *zap.Logger
	cfg        config.AssistantConfig
}

// NewService creates the assistant Service. The counts cache is optional.
func NewService(
	gateway ai.Gateway,
	analyzer *analysis.FormAnalyzer,
	mentees repositories.MenteeRepository,
	surveys repositories.SurveyRepository,
	analyses repositories.AnalysisRepository,
	pendencies repositories.PendencyRepository,
	counts CountsCache,
	logger *zap.Logger,
	cfg config.AssistantConfig,
) *Service {
	return &Service{
		gateway:    gateway,
		classifier: NewClassifier(gateway, logger, cfg.HistoryWindow),
		analyzer:   analyzer,
		mentees:    mentees,
		surveys:    surveys,
		analyses:   analyses,
		pendencies: pendencies,
		counts:     counts,
		validator:  pkgvalidator.New(),
		logger:     logger,
		cfg:        cfg,
	}
}

const replyInternalError = "Desculpe, ocorreu um erro ao processar sua solicitação. Tente novamente."

// ProcessCommand answers one user message. It never panics outward and
// never returns an empty string.
func (s *Service) ProcessCommand(ctx context.Context, input string, history []entities.ConversationTurn) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("command processing panicked", zap.Any("panic", r))
			reply = replyInternalError
		}
	}()

	input = strings.TrimSpace(input)
	if input == "" {
		return "Não entendi sua mensagem. Pode reformular? 🤔"
	}

	s.logger.Info("processing command",
		zap.String("input", input),
		zap.Int("history_turns", len(history)),
	)

	// Payment phrases are pure rule territory, no model involved
	if cmd, ok := detectPendencyCommand(input); ok {
		switch cmd.kind {
		case commandAddPendency:
			return s.handleAddPendency(ctx, cmd)
		case commandListPendencies:
			return s.handleListPendencies(ctx)
		}
	}

	intent := s.classifier.Classify(ctx, input, history)
	s.logger.Debug("classified intent",
		zap.String("query_type", string(intent.QueryType)),
		zap.Bool("needs_data", intent.NeedsData),
	)

	switch intent.QueryType {
	case entities.QuerySearchPerson:
		return s.handleSearch(ctx, intent)
	case entities.QueryCount:
		return s.handleCount(ctx, input)
	case entities.QueryList:
		return s.handleList(ctx, input)
	case entities.QueryCreate:
		return s.handleCreate(ctx, input)
	case entities.QueryFormAnalysis:
		return s.handleAggregate(ctx, input)
	case entities.QueryPersonForms:
		return s.handlePersonForms(ctx, intent, input)
	default:
		return s.handleGeneral(ctx, input)
	}
}
