package usecase

import (
	"strings"

	"carecoord/internal/domain"
	"carecoord/internal/ports"
)

// transcriptFinalizer turns a raw transcription result into the text that
// lands in the pending input: trimmed, then passed through the optional
// substitution rules.
type transcriptFinalizer struct {
	rules  ports.RulesEngine
	events ports.EventSink
}

func newTranscriptFinalizer(rules ports.RulesEngine, events ports.EventSink) transcriptFinalizer {
	return transcriptFinalizer{rules: rules, events: events}
}

func (f transcriptFinalizer) Finalize(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if f.rules == nil {
		return text, nil
	}

	transformed, err := f.rules.Apply(text)
	if err != nil {
		f.events.SessionError(domain.ErrorCodeRules, err.Error())
		return "", err
	}
	return strings.TrimSpace(transformed), nil
}
