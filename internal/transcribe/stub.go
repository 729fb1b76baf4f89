package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// StubRecognizer produces deterministic flat transcripts without invoking
// any model.
type StubRecognizer struct {
	log   *slog.Logger
	model string
	calls int
}

// NewStubRecognizer returns a Recognizer that echoes the file name.
func NewStubRecognizer(logger *slog.Logger, model string) *StubRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubRecognizer{
		log:   logger.With("component", "transcribe.stub", "model", model),
		model: model,
	}
}

// Recognize implements Recognizer.
func (s *StubRecognizer) Recognize(ctx context.Context, audioPath string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.calls++
	text := fmt.Sprintf("[stub:%s] %s", s.model, filepath.Base(audioPath))
	s.log.Debug("stub transcript", "path", audioPath, "call", s.calls)
	return Result{Text: text}, nil
}

// Close implements Recognizer.
func (s *StubRecognizer) Close() error { return nil }
