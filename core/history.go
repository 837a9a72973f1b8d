package core

// History is an ordered chat transcript. Index 0 is reserved for the system
// message derived from the currently active agent and is refreshed via
// SetSystem before every model call; all other entries are append-only.
//
// History is not safe for concurrent use. The orchestrator drives exactly
// one History per run.
type History struct {
	messages []Message
}

// NewHistory creates a History whose system slot holds the given content.
func NewHistory(system string) *History {
	return &History{messages: []Message{{Role: RoleSystem, Content: system}}}
}

// SetSystem replaces the content of the system slot.
func (h *History) SetSystem(content string) {
	h.messages[0] = Message{Role: RoleSystem, Content: content}
}

// Append adds a message after the existing entries.
func (h *History) Append(role, content string) {
	h.messages = append(h.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the transcript for safe hand-off to model
// clients.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages including the system slot.
func (h *History) Len() int { return len(h.messages) }
