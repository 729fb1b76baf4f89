package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultModel        = "large"
	DefaultChunkMinutes = 5
	DefaultBackend      = BackendWhisper
	DefaultLogLevel     = "info"
	DefaultWhisperBin   = "whisper"
	DefaultFFmpegBin    = "ffmpeg"
	DefaultOpenAIModel  = "whisper-1"
	DefaultOpenAIFormat = "verbose_json"
)

// Recognition backends.
const (
	BackendWhisper = "whisper"
	BackendOpenAI  = "openai"
	BackendStub    = "stub"
)

// ErrInvalidConfiguration is wrapped by every validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Models is the fixed set of selectable recognition model sizes, smallest first.
var Models = []string{"base", "small", "medium", "large"}

// Config captures the application settings merged from defaults, the YAML
// config file and environment variables.
type Config struct {
	Model        string `yaml:"model"`
	ChunkMinutes int    `yaml:"chunk_length_minutes"`
	Backend      string `yaml:"backend"`
	LogLevel     string `yaml:"log_level"`

	WhisperBin string `yaml:"whisper_bin"`
	FFmpegBin  string `yaml:"ffmpeg_bin"`
	CacheDir   string `yaml:"cache_dir"`
	TempDir    string `yaml:"temp_dir"`
	PrefsPath  string `yaml:"prefs_path"`

	OpenAIKey    string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`
	OpenAIFormat string `yaml:"openai_response_format"`

	// OffsetTimestamps shifts each segment by its chunk's start time.
	// Off by default: segment times stay chunk-local.
	OffsetTimestamps bool `yaml:"offset_timestamps"`
}

// Validate applies defaults, checks required fields, and rejects out-of-range
// values.
func (c *Config) Validate() error {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.WhisperBin == "" {
		c.WhisperBin = DefaultWhisperBin
	}
	if c.FFmpegBin == "" {
		c.FFmpegBin = DefaultFFmpegBin
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir()
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = DefaultOpenAIModel
	}
	if c.OpenAIFormat == "" {
		c.OpenAIFormat = DefaultOpenAIFormat
	}
	if c.ChunkMinutes <= 0 {
		return fmt.Errorf("%w: chunk length must be a positive integer, got %d", ErrInvalidConfiguration, c.ChunkMinutes)
	}
	if !ValidModel(c.Model) {
		return fmt.Errorf("%w: unknown model %q (want one of %s)", ErrInvalidConfiguration, c.Model, strings.Join(Models, ", "))
	}
	switch c.Backend {
	case BackendWhisper, BackendStub:
	case BackendOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("%w: openai backend requires an API key", ErrInvalidConfiguration)
		}
		switch c.OpenAIFormat {
		case "verbose_json", "json", "text":
		default:
			return fmt.Errorf("%w: unsupported openai response format %q", ErrInvalidConfiguration, c.OpenAIFormat)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfiguration, c.Backend)
	}
	return nil
}

// ValidModel reports whether name is one of Models.
func ValidModel(name string) bool {
	for _, m := range Models {
		if m == name {
			return true
		}
	}
	return false
}

// ParseChunkMinutes converts user input into a positive chunk length in
// minutes.
func ParseChunkMinutes(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: chunk length %q is not a whole number", ErrInvalidConfiguration, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: chunk length must be positive, got %d", ErrInvalidConfiguration, n)
	}
	return n, nil
}

// DefaultCacheDir returns the directory the whisper CLI downloads models to.
func DefaultCacheDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "whisper")
}

// DefaultDir returns the application's configuration directory.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "interview-analyzer")
}
