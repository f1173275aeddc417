package usecase

import "carecoord/internal/domain"

// conversationLog is the ordered message history for the selected patient.
// It is append-only except for the single placeholder entry, which is
// resolved in place. Not safe for concurrent use; the interaction controller
// serializes access.
type conversationLog struct {
	messages []domain.Message
}

// Reset replaces the entire log with a fresh greeting for the named patient.
func (l *conversationLog) Reset(patientName string) {
	l.messages = []domain.Message{domain.Greeting(patientName)}
}

// Clear empties the log. Used when no patient is selected.
func (l *conversationLog) Clear() {
	l.messages = nil
}

// AppendUser appends a user message followed by the thinking placeholder.
func (l *conversationLog) AppendUser(text string) {
	l.messages = append(l.messages,
		domain.Message{Role: domain.RoleUser, Content: text},
		domain.Message{Role: domain.RoleAssistant, Content: domain.ThinkingPlaceholder},
	)
}

// Resolve replaces the outstanding placeholder with the assistant's content.
// It is a no-op when no placeholder exists, which happens when the log was
// reset while the request was in flight.
func (l *conversationLog) Resolve(content string) bool {
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].IsPlaceholder() {
			l.messages[i] = domain.Message{Role: domain.RoleAssistant, Content: content}
			return true
		}
	}
	return false
}

// HasPlaceholder reports whether a chat request is outstanding in the log.
func (l *conversationLog) HasPlaceholder() bool {
	for _, m := range l.messages {
		if m.IsPlaceholder() {
			return true
		}
	}
	return false
}

// OnlyGreeting reports whether the log contains nothing but the greeting.
func (l *conversationLog) OnlyGreeting() bool {
	return len(l.messages) <= 1
}

// Messages returns a copy safe to hand to the rendering layer.
func (l *conversationLog) Messages() []domain.Message {
	out := make([]domain.Message, len(l.messages))
	copy(out, l.messages)
	return out
}
