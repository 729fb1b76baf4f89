package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/saminlion/interview-analyzer/internal/config"
	"github.com/saminlion/interview-analyzer/internal/media"
	"github.com/saminlion/interview-analyzer/internal/transcribe"
)

type fakeExtractor struct {
	calls []string
	err   error
}

func (f *fakeExtractor) ExtractAudio(_ context.Context, videoPath, audioPath string) (string, error) {
	f.calls = append(f.calls, videoPath)
	if f.err != nil {
		return "", f.err
	}
	return audioPath, os.WriteFile(audioPath, []byte("RIFF"), 0o644)
}

type fakeDecoder struct {
	seconds int
	paths   []string
	err     error
}

func (d *fakeDecoder) DecodePCM(_ context.Context, path string) ([]int16, error) {
	d.paths = append(d.paths, path)
	if d.err != nil {
		return nil, d.err
	}
	return make([]int16, d.seconds*media.SampleRate), nil
}

// wordRecognizer answers each call with the next word.
type wordRecognizer struct {
	words  []string
	failAt int
	calls  int
	closed bool
}

func (r *wordRecognizer) Recognize(_ context.Context, path string) (transcribe.Result, error) {
	if _, err := os.Stat(path); err != nil {
		return transcribe.Result{}, err
	}
	i := r.calls
	r.calls++
	if r.failAt >= 0 && i == r.failAt {
		return transcribe.Result{}, errors.New("decoder exploded")
	}
	return transcribe.Result{Text: r.words[i]}, nil
}

func (r *wordRecognizer) Close() error {
	r.closed = true
	return nil
}

type harness struct {
	p         *Pipeline
	extractor *fakeExtractor
	decoder   *fakeDecoder
	rec       *wordRecognizer
	loads     int
	tempDir   string
}

func newHarness(t *testing.T, seconds int, words ...string) *harness {
	t.Helper()
	h := &harness{
		extractor: &fakeExtractor{},
		decoder:   &fakeDecoder{seconds: seconds},
		rec:       &wordRecognizer{words: words, failAt: -1},
		tempDir:   t.TempDir(),
	}
	h.p = &Pipeline{
		Extractor: h.extractor,
		Decoder:   h.decoder,
		NewRecognizer: func(model string) (transcribe.Recognizer, error) {
			h.loads++
			return h.rec, nil
		},
		TempDir: h.tempDir,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h
}

func (h *harness) assertTempEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(h.tempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("temp dir not empty: %v", names)
	}
}

func TestRunThreeChunks(t *testing.T) {
	h := newHarness(t, 12, "hello", "world", "end")

	var fractions []float64
	res, err := h.p.Run(context.Background(), "/data/interview.mp3",
		Options{Model: "base", ChunkLength: 5 * time.Second},
		func(f float64) { fractions = append(fractions, f) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "[0.0 ~ 0.0] hello\n[0.0 ~ 0.0] world\n[0.0 ~ 0.0] end"
	if res.Transcript != want {
		t.Errorf("Transcript = %q, want %q", res.Transcript, want)
	}
	if res.Lines != 3 {
		t.Errorf("Lines = %d, want 3", res.Lines)
	}
	if len(h.extractor.calls) != 0 {
		t.Errorf("extractor called for audio input")
	}
	if len(h.decoder.paths) != 1 || h.decoder.paths[0] != "/data/interview.mp3" {
		t.Errorf("decoder paths = %v", h.decoder.paths)
	}
	if !h.rec.closed {
		t.Error("recognizer not closed")
	}

	wantFractions := []float64{0.1, 0.2, 0.2 + 0.7/3, 0.2 + 1.4/3, 0.9, 1.0}
	if len(fractions) != len(wantFractions) {
		t.Fatalf("fractions = %v, want %v", fractions, wantFractions)
	}
	for i := range fractions {
		if math.Abs(fractions[i]-wantFractions[i]) > 1e-9 {
			t.Errorf("fraction[%d] = %v, want %v", i, fractions[i], wantFractions[i])
		}
	}
	h.assertTempEmpty(t)
}

func TestRunVideoExtractsFirst(t *testing.T) {
	h := newHarness(t, 3, "only")

	res, err := h.p.Run(context.Background(), "/data/Panel.MOV",
		Options{Model: "small", ChunkLength: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Transcript != "[0.0 ~ 0.0] only" {
		t.Errorf("Transcript = %q", res.Transcript)
	}
	if len(h.extractor.calls) != 1 || h.extractor.calls[0] != "/data/Panel.MOV" {
		t.Fatalf("extractor calls = %v", h.extractor.calls)
	}
	if len(h.decoder.paths) != 1 || !strings.HasSuffix(h.decoder.paths[0], "Panel_extracted.wav") {
		t.Errorf("decoder paths = %v, want extracted wav", h.decoder.paths)
	}
	h.assertTempEmpty(t)
}

func TestRunUnsupportedTypeTouchesNothing(t *testing.T) {
	h := newHarness(t, 12, "x")

	_, err := h.p.Run(context.Background(), "/data/notes.txt",
		Options{Model: "base", ChunkLength: 5 * time.Second}, nil)
	if !errors.Is(err, media.ErrUnsupportedFileType) {
		t.Fatalf("err = %v, want ErrUnsupportedFileType", err)
	}
	if h.loads != 0 || len(h.extractor.calls) != 0 || len(h.decoder.paths) != 0 || h.rec.calls != 0 {
		t.Errorf("collaborators invoked: loads=%d extract=%d decode=%d recognize=%d",
			h.loads, len(h.extractor.calls), len(h.decoder.paths), h.rec.calls)
	}
	h.assertTempEmpty(t)
}

func TestRunZeroDuration(t *testing.T) {
	h := newHarness(t, 0)

	var fractions []float64
	res, err := h.p.Run(context.Background(), "/data/silence.wav",
		Options{Model: "base", ChunkLength: time.Minute},
		func(f float64) { fractions = append(fractions, f) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Transcript != "" || res.Lines != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
	if h.rec.calls != 0 {
		t.Errorf("recognizer called %d times", h.rec.calls)
	}
	if fractions[len(fractions)-1] != FractionDone {
		t.Errorf("last fraction = %v, want 1.0", fractions[len(fractions)-1])
	}
	h.assertTempEmpty(t)
}

func TestRunRecognitionErrorCleansUp(t *testing.T) {
	h := newHarness(t, 12, "hello", "world", "end")
	h.rec.failAt = 1

	_, err := h.p.Run(context.Background(), "/data/interview.m4a",
		Options{Model: "large", ChunkLength: 5 * time.Second}, nil)
	if !errors.Is(err, transcribe.ErrRecognition) {
		t.Fatalf("err = %v, want ErrRecognition", err)
	}
	var recErr *transcribe.RecognitionError
	if !errors.As(err, &recErr) || recErr.ChunkIndex != 1 {
		t.Errorf("err = %v, want chunk 1", err)
	}
	if !h.rec.closed {
		t.Error("recognizer not closed after failure")
	}
	h.assertTempEmpty(t)
}

func TestRunDecodeErrorCleansUp(t *testing.T) {
	h := newHarness(t, 12)
	h.decoder.err = &media.DecodeError{Path: "/data/broken.mp3", Err: errors.New("moov atom not found")}

	_, err := h.p.Run(context.Background(), "/data/broken.mp3",
		Options{Model: "base", ChunkLength: 5 * time.Second}, nil)
	if !errors.Is(err, media.ErrMediaDecode) {
		t.Fatalf("err = %v, want ErrMediaDecode", err)
	}
	h.assertTempEmpty(t)
}

func TestRunModelLoadError(t *testing.T) {
	h := newHarness(t, 12)
	h.p.NewRecognizer = func(string) (transcribe.Recognizer, error) {
		return nil, errors.New("whisper not installed")
	}

	_, err := h.p.Run(context.Background(), "/data/a.wav",
		Options{Model: "base", ChunkLength: 5 * time.Second}, nil)
	if err == nil || !strings.Contains(err.Error(), "load model base") {
		t.Fatalf("err = %v", err)
	}
	if len(h.decoder.paths) != 0 {
		t.Error("decoder ran after model load failure")
	}
	h.assertTempEmpty(t)
}

func TestNewJobValidatesOptions(t *testing.T) {
	h := newHarness(t, 1)

	if _, err := h.p.NewJob("/a.wav", Options{Model: "base"}); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("zero chunk length: err = %v", err)
	}
	if _, err := h.p.NewJob("/a.wav", Options{Model: "tiny", ChunkLength: time.Minute}); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("unknown model: err = %v", err)
	}
	job, err := h.p.NewJob("/a.wav", Options{ChunkLength: time.Minute})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if job.Options.Model != config.DefaultModel {
		t.Errorf("model = %q, want default", job.Options.Model)
	}
	if job.NeedsExtraction() {
		t.Error("wav should not need extraction")
	}
}

func TestJobStepwise(t *testing.T) {
	h := newHarness(t, 10, "one", "two")
	ctx := context.Background()

	job, err := h.p.NewJob("/data/talk.wav", Options{Model: "medium", ChunkLength: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	defer job.Cleanup()

	if err := job.LoadModel(); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if err := job.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	n, err := job.Split(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Split = %d, %v", n, err)
	}

	done, err := job.TranscribeNext(ctx)
	if err != nil || done {
		t.Fatalf("first TranscribeNext = %v, %v", done, err)
	}
	if d, total := job.Progress(); d != 1 || total != 2 {
		t.Errorf("Progress = %d/%d, want 1/2", d, total)
	}
	done, err = job.TranscribeNext(ctx)
	if err != nil || !done {
		t.Fatalf("second TranscribeNext = %v, %v", done, err)
	}
	done, err = job.TranscribeNext(ctx)
	if err != nil || !done {
		t.Errorf("extra TranscribeNext = %v, %v", done, err)
	}

	if got := job.Result().Transcript; got != "[0.0 ~ 0.0] one\n[0.0 ~ 0.0] two" {
		t.Errorf("Transcript = %q", got)
	}

	job.Cleanup()
	job.Cleanup()
	h.assertTempEmpty(t)
}

func TestChunkFraction(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 4, 0.2},
		{2, 4, 0.55},
		{4, 4, 0.9},
		{0, 0, 1.0},
	}
	for _, tc := range tests {
		if got := ChunkFraction(tc.done, tc.total); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ChunkFraction(%d, %d) = %v, want %v", tc.done, tc.total, got, tc.want)
		}
	}
}

func TestJobDirUnderTemp(t *testing.T) {
	h := newHarness(t, 1, "x")
	job, err := h.p.NewJob("/data/a.wav", Options{Model: "base", ChunkLength: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer job.Cleanup()
	if err := job.Prepare(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(h.tempDir, "analyzer-"+job.ID)); err != nil {
		t.Errorf("job dir missing: %v", err)
	}
}

func TestFromConfigWiresBackend(t *testing.T) {
	cfg := config.Config{
		Backend:          config.BackendStub,
		FFmpegBin:        "ffmpeg-custom",
		TempDir:          t.TempDir(),
		OffsetTimestamps: true,
	}
	p := FromConfig(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, ok := p.Extractor.(*media.FFmpeg); !ok {
		t.Errorf("Extractor = %T, want *media.FFmpeg", p.Extractor)
	}
	if _, ok := p.Decoder.(*media.FFmpeg); !ok {
		t.Errorf("Decoder = %T, want *media.FFmpeg", p.Decoder)
	}
	if p.TempDir != cfg.TempDir || !p.OffsetTimestamps {
		t.Errorf("pipeline settings not copied: %+v", p)
	}

	rec, err := p.NewRecognizer("small")
	if err != nil {
		t.Fatalf("NewRecognizer: %v", err)
	}
	defer rec.Close()
	if _, ok := rec.(*transcribe.StubRecognizer); !ok {
		t.Errorf("recognizer = %T, want *transcribe.StubRecognizer", rec)
	}

	if _, err := p.NewRecognizer("huge"); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("unknown model err = %v", err)
	}
}

// gatedDecoder blocks until release is closed, ignoring cancellation.
type gatedDecoder struct {
	seconds int
	started chan struct{}
	release chan struct{}
}

func (d *gatedDecoder) DecodePCM(context.Context, string) ([]int16, error) {
	close(d.started)
	<-d.release
	return make([]int16, d.seconds*media.SampleRate), nil
}

func TestCleanupWaitsForInFlightStep(t *testing.T) {
	h := newHarness(t, 0, "one", "two")
	dec := &gatedDecoder{seconds: 10, started: make(chan struct{}), release: make(chan struct{})}
	h.p.Decoder = dec
	ctx := context.Background()

	job, err := h.p.NewJob("/data/talk.wav", Options{Model: "base", ChunkLength: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if err := job.LoadModel(); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if err := job.Prepare(ctx); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	splitDone := make(chan error, 1)
	go func() {
		_, err := job.Split(ctx)
		splitDone <- err
	}()
	<-dec.started

	cleaned := make(chan struct{})
	go func() {
		job.Cleanup()
		close(cleaned)
	}()

	select {
	case <-cleaned:
		t.Fatal("Cleanup returned while Split was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(dec.release)
	if err := <-splitDone; err != nil {
		t.Fatalf("Split: %v", err)
	}
	<-cleaned

	if !h.rec.closed {
		t.Error("recognizer not closed")
	}
	h.assertTempEmpty(t)

	if err := job.LoadModel(); !errors.Is(err, ErrJobClosed) {
		t.Errorf("LoadModel after Cleanup = %v, want ErrJobClosed", err)
	}
	if err := job.Prepare(ctx); !errors.Is(err, ErrJobClosed) {
		t.Errorf("Prepare after Cleanup = %v, want ErrJobClosed", err)
	}
	if _, err := job.TranscribeNext(ctx); !errors.Is(err, ErrJobClosed) {
		t.Errorf("TranscribeNext after Cleanup = %v, want ErrJobClosed", err)
	}
	h.assertTempEmpty(t)
}
