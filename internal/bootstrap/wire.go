package bootstrap

import (
	"carecoord/internal/audio"
	"carecoord/internal/config"
	"carecoord/internal/ports"
	"carecoord/internal/providers/careapi"
	"carecoord/internal/rules"
	"carecoord/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.InteractionController
	Config     config.Config
}

// Build wires all client dependencies for the current runtime.
func Build(events ports.EventSink, clipboard ports.Clipboard) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	rulesEngine, err := rules.New(cfg.Rules.Path, cfg.Rules.IterationLimit)
	if err != nil {
		return Services{}, err
	}

	api := careapi.NewClient(careapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})

	capture := usecase.NewCaptureController(
		audio.NewMicCapture(cfg.Audio.RecorderCommand),
		ports.AudioConfig{
			SampleRate:  cfg.Audio.SampleRate,
			Channels:    cfg.Audio.Channels,
			InputFormat: cfg.Audio.InputFormat,
			InputDevice: cfg.Audio.InputDevice,
		},
		cfg.Audio.ChunkSize,
	)

	playback := usecase.NewPlaybackController(
		api,
		audio.NewFFPlayPlayer(cfg.Audio.PlayerCommand),
		events,
	)

	controller := usecase.NewInteractionController(
		api,
		api,
		api,
		rulesEngine,
		capture,
		playback,
		clipboard,
		events,
	)

	return Services{Controller: controller, Config: cfg}, nil
}
