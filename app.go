package main

import (
	"context"
	"fmt"
	"log"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"carecoord/internal/bootstrap"
	"carecoord/internal/config"
	"carecoord/internal/domain"
	"carecoord/internal/usecase"
)

const (
	eventState = "carecoord:state"
	eventError = "carecoord:error"
)

// App is the Wails application root. It binds the interaction controller's
// hooks to the frontend and forwards state-change and error events.
type App struct {
	ctx context.Context

	controller *usecase.InteractionController
	cfg        config.Config
	bootErr    error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a, &wailsClipboard{})
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.controller = services.Controller
	a.StateChanged(domain.ReasonStartup)

	go func() {
		_ = a.controller.LoadPatients(a.ctx)
	}()
}

func (a *App) shutdown(_ context.Context) {
	if a.controller != nil {
		a.controller.Shutdown()
	}
}

// GetSnapshot returns the current interaction state for rendering.
func (a *App) GetSnapshot() domain.Snapshot {
	if a.controller == nil {
		return domain.Snapshot{}
	}
	return a.controller.Snapshot()
}

// ReloadPatients retries the roster fetch after a startup failure.
func (a *App) ReloadPatients() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.LoadPatients(a.ctx)
}

// SelectPatient switches the selected patient and resets the conversation.
func (a *App) SelectPatient(id int) {
	if a.requireReady() != nil {
		return
	}
	a.controller.SelectPatient(id)
}

// SetPendingInput mirrors the draft text into the core.
func (a *App) SetPendingInput(text string) {
	if a.requireReady() != nil {
		return
	}
	a.controller.SetPendingInput(text)
}

// SendMessage dispatches the pending input to the assistant.
func (a *App) SendMessage() {
	if a.requireReady() != nil {
		return
	}
	a.controller.SendMessage(a.ctx)
}

// ToggleRecording starts or finalizes a microphone capture.
func (a *App) ToggleRecording() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.ToggleRecording(a.ctx)
}

// ToggleSpeak starts or stops spoken playback of an assistant message.
func (a *App) ToggleSpeak(text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.ToggleSpeak(a.ctx, text)
}

// PatientDetail returns the detailed backend record for the side panel.
func (a *App) PatientDetail(id int) (domain.PatientRecord, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	return a.controller.PatientDetail(a.ctx, id)
}

// CopyPatientName writes the selected patient's name to the clipboard.
func (a *App) CopyPatientName() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.CopyPatientName(a.ctx)
}

// ExamplePrompts returns the starter prompts shown in the empty state.
func (a *App) ExamplePrompts() []string {
	if a.requireReady() != nil {
		return nil
	}
	return a.controller.ExamplePrompts()
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"apiBase":          a.cfg.API.BaseURL,
		"rulesFile":        a.cfg.Rules.Path,
		"audioInput":       a.cfg.Audio.InputDevice,
		"audioInputFormat": a.cfg.Audio.InputFormat,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// StateChanged tells the frontend to re-pull the snapshot.
func (a *App) StateChanged(reason domain.StateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventState, map[string]string{
		"reason":  string(reason),
		"message": stateReasonMessage(reason),
	})
}

// SessionError emits client errors to the UI and the process log.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	log.Printf("carecoord: %s: %s", code, detail)
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func stateReasonMessage(reason domain.StateReason) string {
	switch reason {
	case domain.ReasonStartup:
		return "Ready"
	case domain.ReasonRosterLoaded:
		return "Patient roster loaded"
	case domain.ReasonRosterFailed:
		return "Patient roster unavailable"
	case domain.ReasonPatientSelected:
		return "Patient selected"
	case domain.ReasonMessageDispatched:
		return "Message sent"
	case domain.ReasonReplyReceived:
		return "Reply received"
	case domain.ReasonReplyFailed:
		return "Reply failed"
	case domain.ReasonReplyDiscarded:
		return "Reply for a previous patient discarded"
	case domain.ReasonRecordingStarted:
		return "Recording started"
	case domain.ReasonTranscribing:
		return "Recording stopped. Transcribing..."
	case domain.ReasonTranscriptReady:
		return "Transcript ready"
	case domain.ReasonTranscriptFailed:
		return "Transcription failed"
	case domain.ReasonTranscriptDiscarded:
		return "Transcript for a previous patient discarded"
	case domain.ReasonPlaybackStarted:
		return "Playback started"
	case domain.ReasonPlaybackStopped:
		return "Playback stopped"
	case domain.ReasonPlaybackFinished:
		return "Playback finished"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeRoster:
		return "Could not load patients"
	case domain.ErrorCodePatientDetail:
		return "Could not load patient details"
	case domain.ErrorCodeChat:
		return "Chat request failed"
	case domain.ErrorCodeAudioStart:
		return "Microphone unavailable"
	case domain.ErrorCodeAudioStop:
		return "Recording could not be finalized"
	case domain.ErrorCodeTranscription:
		return "Transcription error"
	case domain.ErrorCodeSynthesis:
		return "Speech synthesis failed"
	case domain.ErrorCodePlayback:
		return "Audio playback failed"
	case domain.ErrorCodeRules:
		return "Transcript rules processing failed"
	case domain.ErrorCodeClipboard:
		return "Clipboard write failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
