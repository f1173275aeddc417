package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"carecoord/internal/ports"
)

// FFPlayPlayer plays encoded audio by piping it into an ffplay process. Each
// Play spawns one process; the returned handle stops it or reports when it
// exits on its own after the clip ends.
type FFPlayPlayer struct {
	command string
}

func NewFFPlayPlayer(command string) *FFPlayPlayer {
	if command == "" {
		command = "ffplay"
	}
	return &FFPlayPlayer{command: command}
}

func (p *FFPlayPlayer) Play(ctx context.Context, audio []byte) (ports.Playback, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nodisp",
		"-autoexit",
		"-i", "-",
	}

	cmd := exec.CommandContext(ctx, p.command, args...)
	cmd.Stdin = bytes.NewReader(audio)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn player: %w", err)
	}

	pb := &ffplayPlayback{
		process: cmd.Process,
		done:    make(chan struct{}),
	}

	go func() {
		err := cmd.Wait()
		pb.setExitErr(ignoreExitStatus(err), stderrTail(&stderr))
		close(pb.done)
	}()

	return pb, nil
}

type ffplayPlayback struct {
	process *os.Process
	done    chan struct{}

	stopOnce sync.Once

	mu      sync.Mutex
	exitErr error
}

func (p *ffplayPlayback) setExitErr(err error, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil && detail != "" {
		err = fmt.Errorf("%w: %s", err, detail)
	}
	p.exitErr = err
}

// Stop halts playback. Stopping an already finished stream is a no-op.
func (p *ffplayPlayback) Stop() error {
	p.stopOnce.Do(func() {
		select {
		case <-p.done:
		default:
			_ = p.process.Signal(os.Interrupt)
			select {
			case <-p.done:
			case <-time.After(1200 * time.Millisecond):
				_ = p.process.Kill()
			}
		}
	})
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}

func (p *ffplayPlayback) Done() <-chan struct{} {
	return p.done
}
