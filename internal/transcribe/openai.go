package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/saminlion/interview-analyzer/internal/transcript"
)

// OpenAI sends each file to the hosted transcription endpoint. With the
// verbose_json format segments carry timings; json and text return flat
// text only.
type OpenAI struct {
	client *openai.Client
	model  string
	format openai.AudioResponseFormat
	log    *slog.Logger
}

// NewOpenAI returns a recognizer for the given API model and response
// format. baseURL overrides the API endpoint when non-empty.
func NewOpenAI(apiKey, baseURL, model, format string, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		format: openai.AudioResponseFormat(format),
		log:    logger.With("component", "transcribe.openai", "model", model),
	}
}

// Recognize implements Recognizer.
func (o *OpenAI) Recognize(ctx context.Context, audioPath string) (Result, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Format:   o.format,
	})
	if err != nil {
		return Result{}, fmt.Errorf("openai transcription: %w", err)
	}

	res := Result{Text: strings.TrimSpace(resp.Text)}
	if o.format != openai.AudioResponseFormatVerboseJSON {
		return res, nil
	}
	res.Timed = true
	for _, s := range resp.Segments {
		res.Segments = append(res.Segments, transcript.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	o.log.Debug("chunk recognized", "path", audioPath, "segments", len(res.Segments))
	return res, nil
}

// Close implements Recognizer.
func (o *OpenAI) Close() error { return nil }
