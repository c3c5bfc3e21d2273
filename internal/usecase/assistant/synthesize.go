package assistant

import (
	"context"

	"go.uber.org/zap"
)

// narrate turns a facts block into conversational text. The prompt pins the
// model to the supplied data; when the model is down the deterministic
// fallback goes out instead. Both paths carry the same facts, so nothing
// the user reads depends on the model being up.
func (s *Service) narrate(ctx context.Context, factsPrompt, fallback string) string {
	res := s.gateway.Query(ctx, factsPrompt)
	if res.Success {
		return res.Content
	}
	s.logger.Debug("narration degraded to template", zap.Error(res.Err))
	return fallback
}

// tryNarrate is narrate without a template: it returns empty on model
// failure so the caller can pick its own fallback
func (s *Service) tryNarrate(ctx context.Context, prompt string) string {
	res := s.gateway.Query(ctx, prompt)
	if res.Success {
		return res.Content
	}
	return ""
}

// groundedPrompt wraps a facts block with the grounding instruction that
// keeps small models from inventing numbers
func groundedPrompt(question, facts string) string {
	return "O usuário perguntou: \"" + question + "\"\n\n" +
		"DADOS REAIS DO SISTEMA:\n" + facts + "\n\n" +
		"Responda APENAS baseado nestes dados reais, de forma natural e conversacional. " +
		"Inclua os números exatos. Use markdown para formatação."
}
