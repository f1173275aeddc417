package usecase

import (
	"context"
	"fmt"
	"sync"

	"carecoord/internal/domain"
	"carecoord/internal/ports"
)

// PlaybackController owns at most one live synthesized-audio stream. A handle
// is keyed by the exact text it speaks: toggling the same text while it plays
// stops it, any other text interrupts and replaces it.
type PlaybackController struct {
	synth  ports.Synthesizer
	player ports.AudioPlayer
	events ports.EventSink

	mu      sync.Mutex
	current *playbackHandle
}

type playbackHandle struct {
	key      string
	playback ports.Playback
}

func NewPlaybackController(synth ports.Synthesizer, player ports.AudioPlayer, events ports.EventSink) *PlaybackController {
	return &PlaybackController{synth: synth, player: player, events: events}
}

// Toggle stops playback of text when it is already playing, otherwise it
// synthesizes text and starts playing it, interrupting anything else first.
// Synthesis or playback failures leave the controller silent: the previous
// handle was already stopped before the request went out.
func (p *PlaybackController) Toggle(ctx context.Context, text string) error {
	p.mu.Lock()
	if handle := p.current; handle != nil {
		p.current = nil
		_ = handle.playback.Stop()
		if handle.key == text {
			p.mu.Unlock()
			p.events.StateChanged(domain.ReasonPlaybackStopped)
			return nil
		}
	}
	p.mu.Unlock()

	audio, err := p.synth.Synthesize(ctx, text)
	if err != nil {
		p.events.SessionError(domain.ErrorCodeSynthesis, err.Error())
		return fmt.Errorf("synthesize speech: %w", err)
	}

	playback, err := p.player.Play(ctx, audio)
	if err != nil {
		p.events.SessionError(domain.ErrorCodePlayback, err.Error())
		return fmt.Errorf("start playback: %w", err)
	}

	handle := &playbackHandle{key: text, playback: playback}

	p.mu.Lock()
	if p.current != nil {
		// a concurrent toggle won the race; the newest request wins
		_ = p.current.playback.Stop()
	}
	p.current = handle
	p.mu.Unlock()

	p.events.StateChanged(domain.ReasonPlaybackStarted)
	go p.reap(handle)
	return nil
}

// reap releases the handle once playback ends on its own. This is hygiene,
// not correctness: a finished handle left in place would only turn the next
// same-text toggle into a stop instead of a replay.
func (p *PlaybackController) reap(handle *playbackHandle) {
	<-handle.playback.Done()

	p.mu.Lock()
	owned := p.current == handle
	if owned {
		p.current = nil
	}
	p.mu.Unlock()

	if owned {
		p.events.StateChanged(domain.ReasonPlaybackFinished)
	}
}

// Stop halts any live playback. Used on shutdown.
func (p *PlaybackController) Stop() {
	p.mu.Lock()
	handle := p.current
	p.current = nil
	p.mu.Unlock()

	if handle != nil {
		_ = handle.playback.Stop()
	}
}

// Speaking returns the content key of the live handle, if any.
func (p *PlaybackController) Speaking() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.key, true
}
