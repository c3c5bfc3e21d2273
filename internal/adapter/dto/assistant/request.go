package assistant

// CommandRequest is the body for the conversational command endpoint.
// History is newest first, matching what chat frontends keep in memory.
type CommandRequest struct {
	Message string        `json:"message" validate:"required,min=1"`
	History []HistoryTurn `json:"history,omitempty" validate:"dive"`
}

// HistoryTurn is one prior message of the conversation
type HistoryTurn struct {
	Type    string `json:"type" validate:"required,oneof=user assistant"`
	Message string `json:"message" validate:"required"`
}
