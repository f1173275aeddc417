package audio

import (
	"context"
	"testing"
	"time"
)

func TestFFPlayPlayerNaturalExit(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "play.sh", "#!/usr/bin/env bash\ncat > /dev/null\nexit 0\n")
	player := NewFFPlayPlayer(script)

	playback, err := player.Play(context.Background(), []byte("mpeg-bytes"))
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}

	select {
	case <-playback.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("playback never finished")
	}

	if err := playback.Stop(); err != nil {
		t.Fatalf("stop after exit failed: %v", err)
	}
}

func TestFFPlayPlayerStopInterruptsPlayback(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "hang.sh", "#!/usr/bin/env bash\nsleep 10\n")
	player := NewFFPlayPlayer(script)

	playback, err := player.Play(context.Background(), []byte("mpeg-bytes"))
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}

	if err := playback.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	select {
	case <-playback.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("stop did not end playback")
	}
}

func TestFFPlayPlayerSpawnFailure(t *testing.T) {
	t.Parallel()

	player := NewFFPlayPlayer("/nonexistent/ffplay")
	if _, err := player.Play(context.Background(), []byte("x")); err == nil {
		t.Fatalf("expected spawn error")
	}
}
