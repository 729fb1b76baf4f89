package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader loads configuration from an optional YAML file and environment
// variables. Tests can override Lookup and ReadFile to inject deterministic
// inputs.
type Loader struct {
	Lookup   func(string) (string, bool)
	ReadFile func(string) ([]byte, error)
}

// Load merges defaults, the YAML file named by ANALYZER_CONFIG (or
// DefaultPath when unset) and ANALYZER_* environment overrides, then
// validates the result. A missing config file is not an error.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}
	if l.ReadFile == nil {
		l.ReadFile = os.ReadFile
	}

	cfg := Config{
		Model:        DefaultModel,
		ChunkMinutes: DefaultChunkMinutes,
		Backend:      DefaultBackend,
	}

	path := DefaultPath()
	explicit := false
	if p, ok := l.Lookup("ANALYZER_CONFIG"); ok && strings.TrimSpace(p) != "" {
		path = strings.TrimSpace(p)
		explicit = true
	}
	if err := l.applyFile(path, explicit, &cfg); err != nil {
		return Config{}, err
	}

	overrideString(l.Lookup, "ANALYZER_MODEL", &cfg.Model)
	overrideString(l.Lookup, "ANALYZER_BACKEND", &cfg.Backend)
	overrideString(l.Lookup, "ANALYZER_LOG_LEVEL", &cfg.LogLevel)
	overrideString(l.Lookup, "ANALYZER_WHISPER_BIN", &cfg.WhisperBin)
	overrideString(l.Lookup, "ANALYZER_FFMPEG_BIN", &cfg.FFmpegBin)
	overrideString(l.Lookup, "ANALYZER_CACHE_DIR", &cfg.CacheDir)
	overrideString(l.Lookup, "ANALYZER_TEMP_DIR", &cfg.TempDir)
	overrideString(l.Lookup, "ANALYZER_PREFS_PATH", &cfg.PrefsPath)
	overrideString(l.Lookup, "OPENAI_API_KEY", &cfg.OpenAIKey)
	overrideString(l.Lookup, "ANALYZER_OPENAI_MODEL", &cfg.OpenAIModel)
	overrideString(l.Lookup, "ANALYZER_OPENAI_FORMAT", &cfg.OpenAIFormat)

	if raw, ok := l.Lookup("ANALYZER_CHUNK_MINUTES"); ok && strings.TrimSpace(raw) != "" {
		n, err := ParseChunkMinutes(raw)
		if err != nil {
			return Config{}, err
		}
		cfg.ChunkMinutes = n
	}
	if raw, ok := l.Lookup("ANALYZER_OFFSET_TIMESTAMPS"); ok && strings.TrimSpace(raw) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("%w: ANALYZER_OFFSET_TIMESTAMPS: %v", ErrInvalidConfiguration, err)
		}
		cfg.OffsetTimestamps = b
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns the YAML config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

func (l Loader) applyFile(path string, explicit bool, cfg *Config) error {
	data, err := l.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidConfiguration, path, err)
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}
