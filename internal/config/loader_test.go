package config_test

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/saminlion/interview-analyzer/internal/config"
)

func noFile(string) ([]byte, error) { return nil, fs.ErrNotExist }

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestLoaderDefaults(t *testing.T) {
	loader := config.Loader{Lookup: envLookup(nil), ReadFile: noFile}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	assertEqual(t, config.DefaultModel, cfg.Model, "model")
	assertEqual(t, config.DefaultBackend, cfg.Backend, "backend")
	assertEqual(t, config.DefaultLogLevel, cfg.LogLevel, "log level")
	assertEqual(t, config.DefaultWhisperBin, cfg.WhisperBin, "whisper bin")
	assertEqual(t, config.DefaultFFmpegBin, cfg.FFmpegBin, "ffmpeg bin")
	assertEqual(t, config.DefaultCacheDir(), cfg.CacheDir, "cache dir")
	assertEqual(t, os.TempDir(), cfg.TempDir, "temp dir")
	if cfg.ChunkMinutes != config.DefaultChunkMinutes {
		t.Fatalf("expected chunk minutes %d, got %d", config.DefaultChunkMinutes, cfg.ChunkMinutes)
	}
	if cfg.OffsetTimestamps {
		t.Fatalf("expected offset timestamps disabled by default")
	}
}

func TestLoaderFileThenEnv(t *testing.T) {
	yamlDoc := []byte(`
model: small
chunk_length_minutes: 10
backend: stub
log_level: debug
offset_timestamps: true
`)
	env := map[string]string{
		"ANALYZER_CONFIG":   "/etc/analyzer.yaml",
		"ANALYZER_MODEL":    "medium",
		"ANALYZER_TEMP_DIR": "/var/tmp/analyzer",
	}
	var readPath string
	loader := config.Loader{
		Lookup: envLookup(env),
		ReadFile: func(p string) ([]byte, error) {
			readPath = p
			return yamlDoc, nil
		},
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	assertEqual(t, "/etc/analyzer.yaml", readPath, "config path")
	assertEqual(t, "medium", cfg.Model, "model")
	assertEqual(t, "stub", cfg.Backend, "backend")
	assertEqual(t, "debug", cfg.LogLevel, "log level")
	assertEqual(t, "/var/tmp/analyzer", cfg.TempDir, "temp dir")
	if cfg.ChunkMinutes != 10 {
		t.Fatalf("expected chunk minutes 10, got %d", cfg.ChunkMinutes)
	}
	if !cfg.OffsetTimestamps {
		t.Fatalf("expected offset timestamps from file")
	}
}

func TestLoaderExplicitFileMissing(t *testing.T) {
	loader := config.Loader{
		Lookup:   envLookup(map[string]string{"ANALYZER_CONFIG": "/nope.yaml"}),
		ReadFile: noFile,
	}
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoaderRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown model", map[string]string{"ANALYZER_MODEL": "tiny"}},
		{"unknown backend", map[string]string{"ANALYZER_BACKEND": "vosk"}},
		{"openai without key", map[string]string{"ANALYZER_BACKEND": "openai"}},
		{"non-numeric chunk", map[string]string{"ANALYZER_CHUNK_MINUTES": "five"}},
		{"zero chunk", map[string]string{"ANALYZER_CHUNK_MINUTES": "0"}},
		{"bad bool", map[string]string{"ANALYZER_OFFSET_TIMESTAMPS": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Loader{Lookup: envLookup(tt.env), ReadFile: noFile}.Load()
			if !errors.Is(err, config.ErrInvalidConfiguration) {
				t.Fatalf("Load() = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestLoaderRejectsNonPositiveChunkInFile(t *testing.T) {
	for _, doc := range []string{"chunk_length_minutes: 0\n", "chunk_length_minutes: -2\n"} {
		loader := config.Loader{
			Lookup:   envLookup(map[string]string{"ANALYZER_CONFIG": "/etc/analyzer.yaml"}),
			ReadFile: func(string) ([]byte, error) { return []byte(doc), nil },
		}
		if _, err := loader.Load(); !errors.Is(err, config.ErrInvalidConfiguration) {
			t.Errorf("Load() with %q = %v, want ErrInvalidConfiguration", doc, err)
		}
	}
}

func TestLoaderFileWithoutChunkKeepsDefault(t *testing.T) {
	loader := config.Loader{
		Lookup:   envLookup(map[string]string{"ANALYZER_CONFIG": "/etc/analyzer.yaml"}),
		ReadFile: func(string) ([]byte, error) { return []byte("model: base\n"), nil },
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ChunkMinutes != config.DefaultChunkMinutes {
		t.Fatalf("expected chunk minutes %d, got %d", config.DefaultChunkMinutes, cfg.ChunkMinutes)
	}
}

func TestLoaderOpenAI(t *testing.T) {
	env := map[string]string{
		"ANALYZER_BACKEND": "openai",
		"OPENAI_API_KEY":   "sk-test",
	}
	cfg, err := config.Loader{Lookup: envLookup(env), ReadFile: noFile}.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	assertEqual(t, "sk-test", cfg.OpenAIKey, "openai key")
	assertEqual(t, config.DefaultOpenAIModel, cfg.OpenAIModel, "openai model")
	assertEqual(t, config.DefaultOpenAIFormat, cfg.OpenAIFormat, "openai format")
}

func TestParseChunkMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{" 12 ", 12, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"2.5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := config.ParseChunkMinutes(tt.in)
		if tt.wantErr {
			if !errors.Is(err, config.ErrInvalidConfiguration) {
				t.Errorf("ParseChunkMinutes(%q) error = %v, want ErrInvalidConfiguration", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseChunkMinutes(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestValidModel(t *testing.T) {
	for _, m := range config.Models {
		if !config.ValidModel(m) {
			t.Errorf("ValidModel(%q) = false", m)
		}
	}
	if config.ValidModel("tiny") {
		t.Error("ValidModel(tiny) = true")
	}
}

func assertEqual(t *testing.T, want, got, label string) {
	t.Helper()
	if want != got {
		t.Fatalf("unexpected %s: want %q, got %q", label, want, got)
	}
}
