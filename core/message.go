package core

import "github.com/google/uuid"

// Standard chat roles. The protocol has no distinct tool-output role; tool
// observations travel back to the model as RoleUser messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewID generates a unique identifier suitable for run correlation in logs.
func NewID() string { return uuid.NewString() }
