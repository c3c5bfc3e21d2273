package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mentorhub/crm-assistant/pkg/config"
)

// Result is the outcome of one model call. Err is never surfaced to end
// users; callers degrade to deterministic output when Success is false.
type Result struct {
	Success bool
	Content string
	Err     error
}

// Gateway is the narrow surface the engine needs from the language model
type Gateway interface {
	Query(ctx context.Context, prompt string) Result
	// Model identifies the configured model, for audit fields
	Model() string
}

// GemmaClient is a minimal client for a local Ollama endpoint serving Gemma
type GemmaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewGemmaClient creates a Gemma client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGemmaClient(cfg *config.GemmaConfig) *GemmaClient {
	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("GEMMA_BASE_URL")
		if base == "" {
			base = "http://localhost:11434"
		}
	}

	model := "gemma3:1b"
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}

	timeout := 30 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &GemmaClient{
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Model returns the configured model name
func (g *GemmaClient) Model() string {
	return g.model
}

// generateRequest is the shape for Ollama generate requests
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is a minimal response shape
type generateResponse struct {
	Response string `json:"response"`
}

const systemPreamble = "Você é um assistente especializado em Customer Success. Responda de forma útil, prática e direta."

// Query sends one prompt to the model. A single attempt, no retries: a slow
// or dead model must degrade the answer, not stall the conversation.
func (g *GemmaClient) Query(ctx context.Context, prompt string) Result {
	reqBody := generateRequest{
		Model:  g.model,
		Prompt: fmt.Sprintf("%s\n\n%s\n\nResposta:", systemPreamble, prompt),
		Stream: false,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return Result{Err: err}
	}

	endpoint := g.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Result{Err: fmt.Errorf("gemma returned status %d", resp.StatusCode)}
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return Result{Err: err}
	}
	if gr.Response == "" {
		return Result{Err: fmt.Errorf("empty response from gemma")}
	}
	return Result{Success: true, Content: gr.Response}
}
