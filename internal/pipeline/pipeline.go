// Package pipeline runs a media file through extraction, chunking and
// recognition to produce a timestamped transcript.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saminlion/interview-analyzer/internal/chunk"
	"github.com/saminlion/interview-analyzer/internal/config"
	"github.com/saminlion/interview-analyzer/internal/media"
	"github.com/saminlion/interview-analyzer/internal/transcribe"
	"github.com/saminlion/interview-analyzer/internal/transcript"
)

// Progress milestones reported while a job runs.
const (
	FractionModelLoaded = 0.1
	FractionSplit       = 0.2
	FractionDone        = 1.0
)

// ChunkFraction is the overall progress after done of total chunks.
func ChunkFraction(done, total int) float64 {
	if total <= 0 {
		return FractionDone
	}
	return FractionSplit + 0.7*float64(done)/float64(total)
}

// Extractor pulls the audio track out of a video file.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) (string, error)
}

// RecognizerFactory loads a recognizer for a named model.
type RecognizerFactory func(model string) (transcribe.Recognizer, error)

// Pipeline holds the collaborators shared by every job.
type Pipeline struct {
	Extractor     Extractor
	Decoder       chunk.Decoder
	NewRecognizer RecognizerFactory
	TempDir       string
	Logger        *slog.Logger

	// OffsetTimestamps shifts segment timings by their chunk's start.
	OffsetTimestamps bool
}

// FromConfig wires the ffmpeg-backed extractor and decoder and the
// configured recognition backend.
func FromConfig(cfg config.Config, logger *slog.Logger) *Pipeline {
	ff := media.NewFFmpeg(cfg.FFmpegBin)
	return &Pipeline{
		Extractor: ff,
		Decoder:   ff,
		NewRecognizer: func(model string) (transcribe.Recognizer, error) {
			return transcribe.New(cfg, model, logger)
		},
		TempDir:          cfg.TempDir,
		Logger:           logger,
		OffsetTimestamps: cfg.OffsetTimestamps,
	}
}

// ErrJobClosed is returned by steps called after Cleanup.
var ErrJobClosed = errors.New("job already cleaned up")

// Options are the per-run settings chosen by the user.
type Options struct {
	Model       string
	ChunkLength time.Duration
}

// Result is a finished transcription.
type Result struct {
	Segments   []transcript.Segment
	Transcript string
	Lines      int
}

// Job is a single run, advanced one step at a time. Steps must be called
// in order: LoadModel, Prepare, Split, TranscribeNext until done. Cleanup
// must be called once the job is finished or abandoned. Steps and Cleanup
// are serialized, so Cleanup waits for an in-flight step to return.
type Job struct {
	ID      string
	Source  media.File
	Options Options

	p         *Pipeline
	log       *slog.Logger
	mu        sync.Mutex
	dir       string
	audioPath string
	chunks    []chunk.Chunk
	next      int
	segments  []transcript.Segment
	rec       transcribe.Recognizer
	runner    *transcribe.Runner
	cleaned   bool
}

// NewJob validates path and opts. Unsupported files are rejected here,
// before any collaborator runs or anything touches the filesystem.
func (p *Pipeline) NewJob(path string, opts Options) (*Job, error) {
	src := media.Classify(path)
	if err := src.Check(); err != nil {
		return nil, err
	}
	if opts.ChunkLength <= 0 {
		return nil, fmt.Errorf("%w: chunk length must be positive", config.ErrInvalidConfiguration)
	}
	if opts.Model == "" {
		opts.Model = config.DefaultModel
	}
	if !config.ValidModel(opts.Model) {
		return nil, fmt.Errorf("%w: unknown model %q", config.ErrInvalidConfiguration, opts.Model)
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Job{
		ID:      id,
		Source:  src,
		Options: opts,
		p:       p,
		log: logger.With(
			"component", "pipeline",
			"job", id,
			"source", filepath.Base(path),
		),
	}, nil
}

// LoadModel creates the recognizer for the job's model.
func (j *Job) LoadModel() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cleaned {
		return ErrJobClosed
	}
	if j.p.NewRecognizer == nil {
		return errors.New("no recognizer configured")
	}
	rec, err := j.p.NewRecognizer(j.Options.Model)
	if err != nil {
		return fmt.Errorf("load model %s: %w", j.Options.Model, err)
	}
	j.rec = rec
	j.runner = transcribe.NewRunner(rec, j.log)
	j.runner.OffsetTimestamps = j.p.OffsetTimestamps
	j.log.Info("model loaded", "model", j.Options.Model)
	return nil
}

// NeedsExtraction reports whether Prepare will extract a video track.
func (j *Job) NeedsExtraction() bool { return j.Source.Kind == media.KindVideo }

// Prepare creates the job's temp directory and, for video sources,
// extracts the audio track into it.
func (j *Job) Prepare(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cleaned {
		return ErrJobClosed
	}
	tempDir := j.p.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	j.dir = filepath.Join(tempDir, "analyzer-"+j.ID)
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("create job dir: %w", err)
	}

	if !j.NeedsExtraction() {
		j.audioPath = j.Source.Path
		return nil
	}

	base := strings.TrimSuffix(filepath.Base(j.Source.Path), filepath.Ext(j.Source.Path))
	out := filepath.Join(j.dir, base+"_extracted.wav")
	start := time.Now()
	path, err := j.p.Extractor.ExtractAudio(ctx, j.Source.Path, out)
	if err != nil {
		return err
	}
	j.audioPath = path
	j.log.Info("audio extracted", "path", path, "elapsed", time.Since(start))
	return nil
}

// Split cuts the prepared audio into chunks and returns how many there are.
func (j *Job) Split(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cleaned {
		return 0, ErrJobClosed
	}
	if j.audioPath == "" {
		return 0, errors.New("job not prepared")
	}
	s := chunk.NewSplitter(j.p.Decoder, j.dir, j.log)
	chunks, err := s.Split(ctx, j.audioPath, j.Options.ChunkLength)
	if err != nil {
		return 0, err
	}
	j.chunks = chunks
	j.log.Info("audio split", "chunks", len(chunks), "chunk_length", j.Options.ChunkLength)
	return len(chunks), nil
}

// TranscribeNext recognizes the next pending chunk. It reports done once
// every chunk has been transcribed; with no chunks it is done immediately.
func (j *Job) TranscribeNext(ctx context.Context) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cleaned {
		return false, ErrJobClosed
	}
	if j.next >= len(j.chunks) {
		return true, nil
	}
	if j.runner == nil {
		return false, errors.New("model not loaded")
	}
	if err := ctx.Err(); err != nil {
		return false, &transcribe.RecognitionError{ChunkIndex: j.chunks[j.next].Index, Err: err}
	}
	segs, err := j.runner.TranscribeChunk(ctx, j.chunks[j.next])
	if err != nil {
		return false, err
	}
	j.segments = append(j.segments, segs...)
	j.next++
	return j.next >= len(j.chunks), nil
}

// Progress returns transcribed and total chunk counts.
func (j *Job) Progress() (done, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.next, len(j.chunks)
}

// Result assembles the transcript from the segments gathered so far.
func (j *Job) Result() Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Result{
		Segments:   j.segments,
		Transcript: transcript.Format(j.segments),
		Lines:      len(j.segments),
	}
}

// Cleanup releases the recognizer and removes every temporary file the job
// created. Safe to call more than once.
func (j *Job) Cleanup() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cleaned {
		return
	}
	j.cleaned = true
	if j.rec != nil {
		if err := j.rec.Close(); err != nil {
			j.log.Warn("close recognizer", "error", err)
		}
	}
	chunk.Remove(j.chunks, j.log)
	if j.dir != "" {
		if err := os.RemoveAll(j.dir); err != nil {
			j.log.Warn("remove job dir", "dir", j.dir, "error", err)
		}
	}
	j.log.Debug("job cleaned up")
}

// Run performs every step for path and returns the transcript. progress,
// when non-nil, receives the milestone fractions. Temporary files are
// removed on every path.
func (p *Pipeline) Run(ctx context.Context, path string, opts Options, progress func(float64)) (Result, error) {
	report := func(f float64) {
		if progress != nil {
			progress(f)
		}
	}

	job, err := p.NewJob(path, opts)
	if err != nil {
		return Result{}, err
	}
	defer job.Cleanup()

	if err := job.LoadModel(); err != nil {
		return Result{}, err
	}
	report(FractionModelLoaded)

	if err := job.Prepare(ctx); err != nil {
		return Result{}, err
	}
	n, err := job.Split(ctx)
	if err != nil {
		return Result{}, err
	}
	report(FractionSplit)

	for {
		done, err := job.TranscribeNext(ctx)
		if err != nil {
			return Result{}, err
		}
		if n > 0 {
			finished, _ := job.Progress()
			report(ChunkFraction(finished, n))
		}
		if done {
			break
		}
	}
	report(FractionDone)

	res := job.Result()
	job.log.Info("transcription complete", "lines", res.Lines)
	return res, nil
}
