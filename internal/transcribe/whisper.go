package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/saminlion/interview-analyzer/internal/transcript"
)

// WhisperCLI runs the openai-whisper command line tool once per file.
// Model weights are downloaded by the tool into modelDir, which is also
// the directory the cache purge removes.
type WhisperCLI struct {
	bin      string
	model    string
	device   string
	modelDir string
	workDir  string
	log      *slog.Logger
}

// NewWhisperCLI verifies that bin is runnable and returns a recognizer
// for model on device. Weights live in modelDir (the tool's default cache
// when empty); JSON output is staged under workDir.
func NewWhisperCLI(bin, model, device, modelDir, workDir string, logger *slog.Logger) (*WhisperCLI, error) {
	if logger == nil {
		logger = slog.Default()
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &WhisperCLI{
		bin:      resolved,
		model:    model,
		device:   device,
		modelDir: modelDir,
		workDir:  workDir,
		log: logger.With(
			"component", "transcribe.whisper",
			"model", model,
			"device", device,
			"model_dir", modelDir,
		),
	}, nil
}

// Recognize implements Recognizer.
func (w *WhisperCLI) Recognize(ctx context.Context, audioPath string) (Result, error) {
	outDir, err := os.MkdirTemp(w.workDir, "whisper-*")
	if err != nil {
		return Result{}, fmt.Errorf("whisper: output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	cmd := exec.CommandContext(ctx, w.bin, w.args(audioPath, outDir)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, fmt.Errorf("whisper failed: %w: %s", err, lastLine(stderr.String()))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return Result{}, fmt.Errorf("whisper: read output: %w", err)
	}
	res, err := parseWhisperJSON(data)
	if err != nil {
		return Result{}, err
	}
	w.log.Debug("chunk recognized", "path", audioPath, "segments", len(res.Segments), "timed", res.Timed)
	return res, nil
}

func (w *WhisperCLI) args(audioPath, outDir string) []string {
	args := []string{
		audioPath,
		"--model", w.model,
		"--device", w.device,
	}
	if w.modelDir != "" {
		args = append(args, "--model_dir", w.modelDir)
	}
	return append(args,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
	)
}

// Close implements Recognizer.
func (w *WhisperCLI) Close() error { return nil }

type whisperOut struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments *[]struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func parseWhisperJSON(data []byte) (Result, error) {
	var out whisperOut
	if err := json.Unmarshal(data, &out); err != nil {
		return Result{}, fmt.Errorf("whisper: parse output: %w", err)
	}
	res := Result{Text: strings.TrimSpace(out.Text)}
	if out.Segments == nil {
		return res, nil
	}
	res.Timed = true
	for _, s := range *out.Segments {
		res.Segments = append(res.Segments, transcript.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return res, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
