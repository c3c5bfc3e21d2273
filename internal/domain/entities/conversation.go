package entities

import "time"

// Turn type constants
const (
	TurnTypeUser      = "user"
	TurnTypeAssistant = "assistant"
)

// ConversationTurn is one message in a chat session, used as classification
// context for follow-up questions ("e ele?", "quantos são?")
type ConversationTurn struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Window returns at most n of the most recent turns, oldest first.
// The input is expected newest first, as the chat UI stores it.
func Window(history []ConversationTurn, n int) []ConversationTurn {
	if len(history) > n {
		history = history[:n]
	}
	out := make([]ConversationTurn, len(history))
	for i, turn := range history {
		out[len(history)-1-i] = turn
	}
	return out
}
