package assistant

import "encoding/json"

// CommandResponse carries the assistant's reply
type CommandResponse struct {
	Reply string `json:"reply"`
}

// AnalysisResponse is the body returned by the survey analyze endpoint
type AnalysisResponse struct {
	ResponseID   string          `json:"response_id"`
	Result       json.RawMessage `json:"result"`
	ModelUsed    string          `json:"model_used"`
	Degraded     bool            `json:"degraded"`
	ProcessingMs int             `json:"processing_ms"`
}
