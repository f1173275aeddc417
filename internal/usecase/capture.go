package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"carecoord/internal/domain"
	"carecoord/internal/ports"
)

var (
	ErrNoActiveRecording = errors.New("no active recording session")
	ErrCaptureActive     = errors.New("a recording session is already active")
)

// CaptureController owns the lifecycle of one microphone recording:
// idle -> recording -> finalizing -> idle. The toggle contract is enforced at
// this boundary: Start fails while a session exists, Stop fails without one.
type CaptureController struct {
	audio     ports.AudioCapture
	cfg       ports.AudioConfig
	chunkSize int

	mu      sync.Mutex
	current *recordingSession
}

type recordingSession struct {
	id      string
	cancel  func()
	session ports.AudioSession

	stateMu sync.Mutex
	state   domain.CaptureState

	pumpDone chan struct{}
	chunksMu sync.Mutex
	chunks   [][]byte
	pumpErr  error
}

func (s *recordingSession) setState(state domain.CaptureState) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state = state
}

func (s *recordingSession) getState() domain.CaptureState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

func (s *recordingSession) append(chunk []byte) {
	s.chunksMu.Lock()
	defer s.chunksMu.Unlock()
	s.chunks = append(s.chunks, chunk)
}

func (s *recordingSession) assemble() []byte {
	s.chunksMu.Lock()
	defer s.chunksMu.Unlock()
	var total int
	for _, c := range s.chunks {
		total += len(c)
	}
	pcm := make([]byte, 0, total)
	for _, c := range s.chunks {
		pcm = append(pcm, c...)
	}
	return pcm
}

func NewCaptureController(audio ports.AudioCapture, cfg ports.AudioConfig, chunkSize int) *CaptureController {
	if chunkSize < 256 {
		chunkSize = 4096
	}
	return &CaptureController{audio: audio, cfg: cfg, chunkSize: chunkSize}
}

// Start begins a new recording session. It fails if one is already active or
// if the microphone cannot be opened; in both cases state stays as it was.
func (c *CaptureController) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return ErrCaptureActive
	}
	c.mu.Unlock()

	sessionCtx, cancel := context.WithCancel(ctx)
	audioSession, err := c.audio.Start(sessionCtx, c.cfg)
	if err != nil {
		cancel()
		return fmt.Errorf("open microphone: %w", err)
	}

	active := &recordingSession{
		id:       uuid.NewString(),
		cancel:   cancel,
		session:  audioSession,
		state:    domain.CaptureStateRecording,
		pumpDone: make(chan struct{}),
	}

	c.mu.Lock()
	if c.current != nil {
		// lost the race against a concurrent Start
		c.mu.Unlock()
		cancel()
		_ = audioSession.Stop()
		return ErrCaptureActive
	}
	c.current = active
	c.mu.Unlock()

	go c.pump(active)
	return nil
}

// pump accumulates raw audio from the session until it drains or fails.
func (c *CaptureController) pump(active *recordingSession) {
	defer close(active.pumpDone)

	buf := make([]byte, c.chunkSize)
	for {
		n, err := active.session.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			active.append(chunk)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				active.chunksMu.Lock()
				active.pumpErr = err
				active.chunksMu.Unlock()
			}
			return
		}
	}
}

// Stop finalizes the active session: the microphone is released, accumulated
// chunks are assembled into a single clip, and the controller returns to
// idle. The clip is handed back to the caller for transcription.
func (c *CaptureController) Stop(ctx context.Context) (domain.AudioClip, error) {
	c.mu.Lock()
	active := c.current
	c.mu.Unlock()
	if active == nil {
		return domain.AudioClip{}, ErrNoActiveRecording
	}

	active.setState(domain.CaptureStateFinalizing)
	stopErr := active.session.Stop()

	select {
	case <-active.pumpDone:
	case <-ctx.Done():
		active.cancel()
		<-active.pumpDone
	}

	pcm := active.assemble()
	c.finish(active)

	if len(pcm) == 0 {
		if stopErr != nil {
			return domain.AudioClip{}, fmt.Errorf("stop microphone: %w", stopErr)
		}
		if active.pumpErr != nil {
			return domain.AudioClip{}, fmt.Errorf("capture audio: %w", active.pumpErr)
		}
		return domain.AudioClip{}, errors.New("no audio captured")
	}

	return domain.AudioClip{
		ID:         active.id,
		PCM:        pcm,
		SampleRate: c.cfg.SampleRate,
		Channels:   c.cfg.Channels,
	}, nil
}

// Abort discards the active session without producing a clip.
func (c *CaptureController) Abort() error {
	c.mu.Lock()
	active := c.current
	c.mu.Unlock()
	if active == nil {
		return ErrNoActiveRecording
	}

	_ = active.session.Stop()
	<-active.pumpDone
	c.finish(active)
	return nil
}

// State reports the current capture lifecycle state.
func (c *CaptureController) State() domain.CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.CaptureStateIdle
	}
	return c.current.getState()
}

func (c *CaptureController) finish(active *recordingSession) {
	active.cancel()
	active.setState(domain.CaptureStateIdle)

	c.mu.Lock()
	if c.current == active {
		c.current = nil
	}
	c.mu.Unlock()
}
