package domain

import "fmt"

// MessageRole identifies who authored a conversation entry.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ThinkingPlaceholder is the transient content of an assistant entry whose
// chat request is still in flight. It is always resolved in place.
const ThinkingPlaceholder = "Thinking..."

// ChatFailureMessage replaces the placeholder when a chat request fails.
const ChatFailureMessage = "Sorry, I encountered an error."

// Message is one entry in the conversation log.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// IsPlaceholder reports whether the entry marks an outstanding chat request.
func (m Message) IsPlaceholder() bool {
	return m.Role == RoleAssistant && m.Content == ThinkingPlaceholder
}

// Patient is one selectable roster entry.
type Patient struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	DOB  string `json:"dob,omitempty"`
	PCP  string `json:"pcp,omitempty"`
}

// PatientRecord is the detailed backend record for one patient. The backend
// owns its shape; the client passes it through to the rendering layer.
type PatientRecord map[string]any

// Greeting returns the assistant greeting that seeds a fresh conversation.
func Greeting(patientName string) Message {
	return Message{
		Role:    RoleAssistant,
		Content: fmt.Sprintf("Hello! I'm ready to assist with patient **%s**. How can I help?", patientName),
	}
}

// CaptureState models the microphone session lifecycle.
type CaptureState string

const (
	CaptureStateIdle       CaptureState = "idle"
	CaptureStateRecording  CaptureState = "recording"
	CaptureStateFinalizing CaptureState = "finalizing"
)

// AudioClip is one finalized microphone capture, ready for transcription.
type AudioClip struct {
	ID         string
	PCM        []byte
	SampleRate int
	Channels   int
}

// StateReason tells the rendering layer why the snapshot changed.
type StateReason string

const (
	ReasonStartup           StateReason = "startup"
	ReasonRosterLoaded      StateReason = "roster_loaded"
	ReasonRosterFailed      StateReason = "roster_failed"
	ReasonPatientSelected   StateReason = "patient_selected"
	ReasonMessageDispatched StateReason = "message_dispatched"
	ReasonReplyReceived     StateReason = "reply_received"
	ReasonReplyFailed       StateReason = "reply_failed"
	ReasonReplyDiscarded    StateReason = "reply_discarded"
	ReasonRecordingStarted  StateReason = "recording_started"
	ReasonTranscribing      StateReason = "transcribing"
	ReasonTranscriptReady     StateReason = "transcript_ready"
	ReasonTranscriptFailed    StateReason = "transcript_failed"
	ReasonTranscriptDiscarded StateReason = "transcript_discarded"
	ReasonPlaybackStarted     StateReason = "playback_started"
	ReasonPlaybackStopped     StateReason = "playback_stopped"
	ReasonPlaybackFinished    StateReason = "playback_finished"
)

// ErrorCode identifies non-fatal client errors surfaced to the UI.
type ErrorCode string

const (
	ErrorCodeStartup       ErrorCode = "startup"
	ErrorCodeRoster        ErrorCode = "roster"
	ErrorCodePatientDetail ErrorCode = "patient_detail"
	ErrorCodeChat          ErrorCode = "chat"
	ErrorCodeAudioStart    ErrorCode = "audio_start"
	ErrorCodeAudioStop     ErrorCode = "audio_stop"
	ErrorCodeTranscription ErrorCode = "transcription"
	ErrorCodeSynthesis     ErrorCode = "synthesis"
	ErrorCodePlayback      ErrorCode = "playback"
	ErrorCodeRules         ErrorCode = "rules"
	ErrorCodeClipboard     ErrorCode = "clipboard"
)

// Snapshot is the read-only view of the interaction state observed by the
// rendering layer. The gating booleans are derived, never stored.
type Snapshot struct {
	Patients          []Patient `json:"patients"`
	SelectedPatientID int       `json:"selectedPatientId"`
	Messages          []Message `json:"messages"`
	PendingInput      string    `json:"pendingInput"`
	SendDisabled      bool      `json:"sendDisabled"`
	VoiceDisabled     bool      `json:"voiceDisabled"`
	IsRecording       bool      `json:"isRecording"`
	EmptyState        bool      `json:"emptyState"`
}
