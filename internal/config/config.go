package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the client.
type Config struct {
	API   APIConfig
	Audio AudioConfig
	Rules RulesConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AudioConfig struct {
	RecorderCommand string
	PlayerCommand   string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
	ChunkSize       int
}

type RulesConfig struct {
	Path           string
	IterationLimit int
}

// Load resolves configuration from a local .env file, environment variables
// and defaults, in that order of increasing precedence for the latter two.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		API: APIConfig{
			BaseURL: envOrDefault("CARECOORD_API_BASE", "http://localhost:5000"),
			Timeout: time.Duration(envOrDefaultInt("CARECOORD_API_TIMEOUT_MS", 60000)) * time.Millisecond,
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("CARECOORD_FFMPEG_COMMAND", "ffmpeg"),
			PlayerCommand:   envOrDefault("CARECOORD_FFPLAY_COMMAND", "ffplay"),
			InputFormat:     envOrDefault("CARECOORD_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("CARECOORD_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("CARECOORD_SAMPLE_RATE", 16000),
			Channels:        envOrDefaultInt("CARECOORD_CHANNELS", 1),
			ChunkSize:       envOrDefaultInt("CARECOORD_AUDIO_CHUNK_SIZE", 4096),
		},
		Rules: RulesConfig{
			Path:           rulesPath(),
			IterationLimit: envOrDefaultInt("CARECOORD_RULE_ITERATION_LIMIT", 30),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Audio.ChunkSize < 256 {
		cfg.Audio.ChunkSize = 4096
	}
	if cfg.Rules.IterationLimit <= 0 {
		cfg.Rules.IterationLimit = 30
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 60 * time.Second
	}

	return cfg, nil
}

// rulesPath resolves the optional transcript substitution rules file. An
// explicit env setting wins; otherwise the conventional location is used when
// it exists.
func rulesPath() string {
	if path := strings.TrimSpace(os.Getenv("CARECOORD_RULES_FILE")); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	conventional := filepath.Join(home, ".config", "carecoord", "substitutions.rules")
	if _, err := os.Stat(conventional); err == nil {
		return conventional
	}
	return ""
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
