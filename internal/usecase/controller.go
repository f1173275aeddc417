package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"carecoord/internal/domain"
	"carecoord/internal/ports"
)

// examplePrompts seed the empty state shown before the first real exchange.
var examplePrompts = []string{
	"What is the patient's medical visit history?",
	"What insurances does PPTH Orthopedics accept?",
	"What other providers are available if Dr. House is not?",
	"What providers does the patient have?",
}

// InteractionController is the composition root of the client. It owns the
// roster, the selected patient, the conversation log and the pending input,
// and coordinates the capture, transcription, dispatch and playback
// sub-controllers. The rendering layer observes it only through Snapshot and
// the event sink.
type InteractionController struct {
	roster      ports.Roster
	assistant   ports.Assistant
	transcriber ports.Transcriber
	finalizer   transcriptFinalizer
	capture     *CaptureController
	playback    *PlaybackController
	clipboard   ports.Clipboard
	events      ports.EventSink

	mu           sync.Mutex
	patients     []domain.Patient
	selectedID   int
	log          conversationLog
	pendingInput string
	sending      bool
	transcribing bool
}

func NewInteractionController(
	roster ports.Roster,
	assistant ports.Assistant,
	transcriber ports.Transcriber,
	rules ports.RulesEngine,
	capture *CaptureController,
	playback *PlaybackController,
	clipboard ports.Clipboard,
	events ports.EventSink,
) *InteractionController {
	return &InteractionController{
		roster:      roster,
		assistant:   assistant,
		transcriber: transcriber,
		finalizer:   newTranscriptFinalizer(rules, events),
		capture:     capture,
		playback:    playback,
		clipboard:   clipboard,
		events:      events,
	}
}

// LoadPatients fetches the roster and selects its first entry. On failure the
// roster stays empty; calling it again is the manual reload path.
func (c *InteractionController) LoadPatients(ctx context.Context) error {
	patients, err := c.roster.ListPatients(ctx)
	if err != nil {
		c.events.SessionError(domain.ErrorCodeRoster, err.Error())
		c.events.StateChanged(domain.ReasonRosterFailed)
		return fmt.Errorf("load patients: %w", err)
	}

	c.mu.Lock()
	c.patients = patients
	if len(patients) > 0 {
		c.selectedID = patients[0].ID
		c.log.Reset(patients[0].Name)
	} else {
		c.selectedID = 0
		c.log.Clear()
	}
	c.mu.Unlock()

	c.events.StateChanged(domain.ReasonRosterLoaded)
	return nil
}

// SelectPatient switches the selection and replaces the conversation log with
// a fresh greeting. An id absent from the roster clears the selection.
func (c *InteractionController) SelectPatient(id int) {
	c.mu.Lock()
	var selected *domain.Patient
	for i := range c.patients {
		if c.patients[i].ID == id {
			selected = &c.patients[i]
			break
		}
	}
	if selected == nil {
		c.selectedID = 0
		c.log.Clear()
	} else {
		c.selectedID = selected.ID
		c.log.Reset(selected.Name)
	}
	c.mu.Unlock()

	c.events.StateChanged(domain.ReasonPatientSelected)
}

// SetPendingInput updates the draft text. The rendering layer calls this on
// every keystroke, so no event is emitted back.
func (c *InteractionController) SetPendingInput(text string) {
	c.mu.Lock()
	c.pendingInput = text
	c.mu.Unlock()
}

// SendMessage dispatches the pending input to the assistant. Empty input, no
// selection, or an in-flight send or transcription make it a silent no-op.
func (c *InteractionController) SendMessage(ctx context.Context) {
	c.mu.Lock()
	text := strings.TrimSpace(c.pendingInput)
	if text == "" || c.selectedID == 0 || c.sending || c.transcribing {
		c.mu.Unlock()
		return
	}
	patientID := c.selectedID
	c.log.AppendUser(text)
	c.pendingInput = ""
	c.sending = true
	c.mu.Unlock()

	c.events.StateChanged(domain.ReasonMessageDispatched)
	go c.dispatch(ctx, uuid.NewString(), text, patientID)
}

// dispatch resolves the placeholder with the assistant's reply or the fixed
// failure line. A reply that arrives after the selection changed is discarded
// rather than appended to the wrong patient's log.
func (c *InteractionController) dispatch(ctx context.Context, requestID, text string, patientID int) {
	reply, err := c.assistant.Reply(ctx, text, patientID)

	c.mu.Lock()
	stale := c.selectedID != patientID
	if !stale {
		if err != nil {
			c.log.Resolve(domain.ChatFailureMessage)
		} else {
			c.log.Resolve(reply)
		}
	}
	c.sending = false
	c.mu.Unlock()

	switch {
	case stale:
		c.events.StateChanged(domain.ReasonReplyDiscarded)
	case err != nil:
		c.events.SessionError(domain.ErrorCodeChat, fmt.Sprintf("request %s: %v", requestID, err))
		c.events.StateChanged(domain.ReasonReplyFailed)
	default:
		c.events.StateChanged(domain.ReasonReplyReceived)
	}
}

// ToggleRecording starts a recording when idle and finalizes it when
// recording. It is gated by the same composite that disables the voice
// control in the UI.
func (c *InteractionController) ToggleRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.sending || c.transcribing {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if c.capture.State() == domain.CaptureStateRecording {
		return c.stopRecording(ctx)
	}
	return c.startRecording(ctx)
}

func (c *InteractionController) startRecording(ctx context.Context) error {
	if err := c.capture.Start(ctx); err != nil {
		c.events.SessionError(domain.ErrorCodeAudioStart, err.Error())
		return err
	}
	c.events.StateChanged(domain.ReasonRecordingStarted)
	return nil
}

func (c *InteractionController) stopRecording(ctx context.Context) error {
	c.mu.Lock()
	patientID := c.selectedID
	c.mu.Unlock()

	clip, err := c.capture.Stop(ctx)
	if err != nil {
		c.events.SessionError(domain.ErrorCodeAudioStop, err.Error())
		c.events.StateChanged(domain.ReasonTranscriptFailed)
		return err
	}

	c.mu.Lock()
	c.transcribing = true
	c.mu.Unlock()
	c.events.StateChanged(domain.ReasonTranscribing)

	go c.transcribe(ctx, clip, patientID)
	return nil
}

// transcribe fills the pending input with the transcription result. Failures
// leave the draft untouched; a result for a stale selection is discarded.
func (c *InteractionController) transcribe(ctx context.Context, clip domain.AudioClip, patientID int) {
	text, err := c.transcriber.Transcribe(ctx, clip)
	if err != nil {
		c.clearTranscribing()
		c.events.SessionError(domain.ErrorCodeTranscription, fmt.Sprintf("clip %s: %v", clip.ID, err))
		c.events.StateChanged(domain.ReasonTranscriptFailed)
		return
	}

	final, err := c.finalizer.Finalize(text)
	if err != nil {
		// the finalizer already reported the rules failure
		c.clearTranscribing()
		c.events.StateChanged(domain.ReasonTranscriptFailed)
		return
	}

	c.mu.Lock()
	stale := c.selectedID != patientID
	if !stale {
		c.pendingInput = final
	}
	c.transcribing = false
	c.mu.Unlock()

	if stale {
		c.events.StateChanged(domain.ReasonTranscriptDiscarded)
		return
	}
	c.events.StateChanged(domain.ReasonTranscriptReady)
}

func (c *InteractionController) clearTranscribing() {
	c.mu.Lock()
	c.transcribing = false
	c.mu.Unlock()
}

// ToggleSpeak starts or stops spoken playback of an assistant message. The
// placeholder is never speakable.
func (c *InteractionController) ToggleSpeak(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == domain.ThinkingPlaceholder {
		return nil
	}
	return c.playback.Toggle(ctx, text)
}

// PatientDetail fetches the detailed record for the side panel.
func (c *InteractionController) PatientDetail(ctx context.Context, id int) (domain.PatientRecord, error) {
	record, err := c.roster.GetPatient(ctx, id)
	if err != nil {
		c.events.SessionError(domain.ErrorCodePatientDetail, err.Error())
		return nil, fmt.Errorf("patient detail: %w", err)
	}
	return record, nil
}

// CopyPatientName writes the selected patient's name to the clipboard.
func (c *InteractionController) CopyPatientName(ctx context.Context) error {
	c.mu.Lock()
	var name string
	for _, p := range c.patients {
		if p.ID == c.selectedID {
			name = p.Name
			break
		}
	}
	c.mu.Unlock()

	if name == "" {
		return nil
	}
	if err := c.clipboard.SetText(ctx, name); err != nil {
		c.events.SessionError(domain.ErrorCodeClipboard, err.Error())
		return fmt.Errorf("copy patient name: %w", err)
	}
	return nil
}

// ExamplePrompts returns the starter prompts for the empty state.
func (c *InteractionController) ExamplePrompts() []string {
	out := make([]string, len(examplePrompts))
	copy(out, examplePrompts)
	return out
}

// Shutdown stops any live audio resources.
func (c *InteractionController) Shutdown() {
	if c.capture.State() != domain.CaptureStateIdle {
		_ = c.capture.Abort()
	}
	c.playback.Stop()
}

// Snapshot returns the state the rendering layer draws from.
func (c *InteractionController) Snapshot() domain.Snapshot {
	c.mu.Lock()
	snap := domain.Snapshot{
		Patients:          append([]domain.Patient(nil), c.patients...),
		SelectedPatientID: c.selectedID,
		Messages:          c.log.Messages(),
		PendingInput:      c.pendingInput,
		SendDisabled:      c.sending || c.transcribing,
		VoiceDisabled:     c.sending || c.transcribing,
		EmptyState:        c.log.OnlyGreeting(),
	}
	c.mu.Unlock()

	snap.IsRecording = c.capture.State() == domain.CaptureStateRecording
	return snap
}
