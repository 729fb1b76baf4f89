package transcribe

import (
	"fmt"
	"log/slog"

	"github.com/saminlion/interview-analyzer/internal/config"
)

// New returns the recognizer selected by cfg.Backend for model. The device
// is detected, not configured.
func New(cfg config.Config, model string, logger *slog.Logger) (Recognizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !config.ValidModel(model) {
		return nil, fmt.Errorf("%w: unknown model %q", config.ErrInvalidConfiguration, model)
	}

	switch cfg.Backend {
	case config.BackendWhisper:
		device := DetectDevice()
		logger.Info("loading whisper model", "model", model, "device", device, "model_dir", cfg.CacheDir)
		return NewWhisperCLI(cfg.WhisperBin, model, device, cfg.CacheDir, cfg.TempDir, logger)
	case config.BackendOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("%w: openai backend requires an API key", config.ErrInvalidConfiguration)
		}
		logger.Info("using openai transcription", "api_model", cfg.OpenAIModel, "requested_model", model)
		return NewOpenAI(cfg.OpenAIKey, "", cfg.OpenAIModel, cfg.OpenAIFormat, logger), nil
	case config.BackendStub:
		logger.Warn("stub recognizer selected by configuration")
		return NewStubRecognizer(logger, model), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfiguration, cfg.Backend)
	}
}
