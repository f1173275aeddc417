package ports

import (
	"context"
	"io"

	"carecoord/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live microphone capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// Playback is one live synthesized-audio stream.
type Playback interface {
	// Stop halts playback and releases the stream.
	Stop() error
	// Done is closed when playback ends, naturally or via Stop.
	Done() <-chan struct{}
}

// AudioPlayer plays encoded audio clips.
type AudioPlayer interface {
	Play(ctx context.Context, audio []byte) (Playback, error)
}

// Roster lists selectable patients and their detailed records.
type Roster interface {
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	GetPatient(ctx context.Context, id int) (domain.PatientRecord, error)
}

// Assistant is the remote chat-completion collaborator.
type Assistant interface {
	Reply(ctx context.Context, prompt string, patientID int) (string, error)
}

// Transcriber converts a finalized audio clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, clip domain.AudioClip) (string, error)
}

// Synthesizer converts text into encoded spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// RulesEngine transforms transcripts using deterministic rules.
type RulesEngine interface {
	Apply(text string) (string, error)
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// EventSink notifies the rendering layer that the snapshot changed or that a
// non-fatal error occurred.
type EventSink interface {
	StateChanged(reason domain.StateReason)
	SessionError(code domain.ErrorCode, detail string)
}
