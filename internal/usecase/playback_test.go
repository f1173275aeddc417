package usecase

import (
	"context"
	"errors"
	"testing"

	"carecoord/internal/domain"
)

func newPlaybackFixture() (*PlaybackController, *fakeSynth, *fakePlayer, *fakeEventSink) {
	synth := &fakeSynth{audio: []byte("mpeg")}
	player := &fakePlayer{}
	events := &fakeEventSink{}
	return NewPlaybackController(synth, player, events), synth, player, events
}

func TestToggleSameTextStopsThenRestarts(t *testing.T) {
	t.Parallel()

	controller, synth, player, _ := newPlaybackFixture()

	if err := controller.Toggle(context.Background(), "take ibuprofen"); err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if key, ok := controller.Speaking(); !ok || key != "take ibuprofen" {
		t.Fatalf("expected live handle for text, got %q ok=%v", key, ok)
	}

	// same text while playing: pure toggle-off, no new synthesis
	if err := controller.Toggle(context.Background(), "take ibuprofen"); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if _, ok := controller.Speaking(); ok {
		t.Fatalf("expected no handle after toggle-off")
	}
	if player.playback(0).stopped() == 0 {
		t.Fatalf("expected playback to be stopped")
	}
	if synth.callCount() != 1 {
		t.Fatalf("toggle-off must not synthesize, got %d calls", synth.callCount())
	}

	// third toggle starts fresh
	if err := controller.Toggle(context.Background(), "take ibuprofen"); err != nil {
		t.Fatalf("third toggle failed: %v", err)
	}
	if _, ok := controller.Speaking(); !ok {
		t.Fatalf("expected fresh handle")
	}
	if synth.callCount() != 2 {
		t.Fatalf("expected second synthesis, got %d", synth.callCount())
	}
}

func TestToggleDifferentTextInterruptsAndReplaces(t *testing.T) {
	t.Parallel()

	controller, _, player, _ := newPlaybackFixture()

	if err := controller.Toggle(context.Background(), "first"); err != nil {
		t.Fatalf("toggle A failed: %v", err)
	}
	if err := controller.Toggle(context.Background(), "second"); err != nil {
		t.Fatalf("toggle B failed: %v", err)
	}

	if key, ok := controller.Speaking(); !ok || key != "second" {
		t.Fatalf("expected handle keyed by second text, got %q ok=%v", key, ok)
	}
	if player.playback(0).stopped() == 0 {
		t.Fatalf("expected first stream stopped before the second started")
	}
	if player.count() != 2 {
		t.Fatalf("expected exactly two streams total, got %d", player.count())
	}
}

func TestToggleSynthesisFailureResultsInSilence(t *testing.T) {
	t.Parallel()

	controller, synth, player, events := newPlaybackFixture()

	if err := controller.Toggle(context.Background(), "first"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	synth.err = errors.New("tts down")
	if err := controller.Toggle(context.Background(), "second"); err == nil {
		t.Fatalf("expected synthesis error")
	}

	if _, ok := controller.Speaking(); ok {
		t.Fatalf("expected silence after synthesis failure")
	}
	if player.playback(0).stopped() == 0 {
		t.Fatalf("old stream must be stopped before the request goes out")
	}
	if !events.hasError(domain.ErrorCodeSynthesis) {
		t.Fatalf("expected synthesis error event")
	}
}

func TestNaturalPlaybackEndReleasesHandle(t *testing.T) {
	t.Parallel()

	controller, synth, player, events := newPlaybackFixture()

	if err := controller.Toggle(context.Background(), "text"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	player.playback(0).finish()
	waitFor(t, func() bool {
		_, ok := controller.Speaking()
		return !ok
	})
	if !events.hasReason(domain.ReasonPlaybackFinished) {
		t.Fatalf("expected playback_finished event")
	}

	// with the handle released, the same text plays again instead of toggling off
	if err := controller.Toggle(context.Background(), "text"); err != nil {
		t.Fatalf("replay toggle failed: %v", err)
	}
	if synth.callCount() != 2 {
		t.Fatalf("expected a fresh synthesis after natural end")
	}
}

func TestStopHaltsLivePlayback(t *testing.T) {
	t.Parallel()

	controller, _, player, _ := newPlaybackFixture()

	if err := controller.Toggle(context.Background(), "text"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	controller.Stop()

	if _, ok := controller.Speaking(); ok {
		t.Fatalf("expected no handle after Stop")
	}
	if player.playback(0).stopped() == 0 {
		t.Fatalf("expected stream stopped")
	}
}
