package transcribe

import (
	"context"
	"log/slog"

	"github.com/saminlion/interview-analyzer/internal/chunk"
	"github.com/saminlion/interview-analyzer/internal/transcript"
)

// Runner feeds chunks to a Recognizer strictly in order.
type Runner struct {
	rec Recognizer
	log *slog.Logger

	// OffsetTimestamps shifts each chunk's segments by the chunk's start
	// time. When false, timings stay relative to their own chunk.
	OffsetTimestamps bool
}

// NewRunner returns a Runner over rec.
func NewRunner(rec Recognizer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{rec: rec, log: logger.With("component", "transcribe.runner")}
}

// TranscribeChunk recognizes a single chunk. Flat results become one
// zero-timed segment holding the whole text.
func (r *Runner) TranscribeChunk(ctx context.Context, c chunk.Chunk) ([]transcript.Segment, error) {
	res, err := r.rec.Recognize(ctx, c.Path)
	if err != nil {
		r.log.Error("recognition failed", "chunk", c.Index, "path", c.Path, "error", err)
		return nil, &RecognitionError{ChunkIndex: c.Index, Err: err}
	}

	segs := res.Segments
	if !res.Timed {
		segs = []transcript.Segment{{Start: 0, End: 0, Text: res.Text}}
	}
	if r.OffsetTimestamps {
		segs = transcript.Offset(segs, c.Start.Seconds())
	}
	r.log.Debug("chunk transcribed", "chunk", c.Index, "segments", len(segs))
	return segs, nil
}

// Transcribe runs every chunk in order and concatenates their segments.
// progress, when non-nil, is called after each chunk with the number done.
// The first failure aborts the run.
func (r *Runner) Transcribe(ctx context.Context, chunks []chunk.Chunk, progress func(done, total int)) ([]transcript.Segment, error) {
	var all []transcript.Segment
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, &RecognitionError{ChunkIndex: c.Index, Err: err}
		}
		segs, err := r.TranscribeChunk(ctx, c)
		if err != nil {
			return nil, err
		}
		all = append(all, segs...)
		if progress != nil {
			progress(i+1, len(chunks))
		}
	}
	return all, nil
}
