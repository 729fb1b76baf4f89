package app

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/saminlion/interview-analyzer/internal/media"
	"github.com/saminlion/interview-analyzer/internal/pipeline"
	"github.com/saminlion/interview-analyzer/internal/transcribe"

	tea "github.com/charmbracelet/bubbletea"
)

// TestLiveTUIFlow runs a real clip through ffmpeg and the stub recognizer,
// driving the model the way the bubbletea runtime would.
// Skipped if ffmpeg isn't installed.
func TestLiveTUIFlow(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	dir := t.TempDir()
	clip := filepath.Join(dir, "tone.mp4")
	gen := exec.Command("ffmpeg", "-y", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=3",
		"-f", "lavfi", "-i", "color=c=black:s=64x64:d=3",
		"-shortest", clip)
	if out, err := gen.CombinedOutput(); err != nil {
		t.Skipf("cannot generate clip: %v: %s", err, out)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ff := media.NewFFmpeg("")
	work := t.TempDir()
	p := &pipeline.Pipeline{
		Extractor: ff,
		Decoder:   ff,
		NewRecognizer: func(model string) (transcribe.Recognizer, error) {
			return transcribe.NewStubRecognizer(logger, model), nil
		},
		TempDir: work,
		Logger:  logger,
	}

	m := New(Deps{Pipeline: p, Device: "cpu", CacheDir: filepath.Join(dir, "cache"), Logger: logger})
	m, _ = applyUpdate(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	fmt.Println("=== Initial View ===")
	fmt.Println(m.View())

	m, cmd := applyUpdate(m, FileSelectedMsg{Path: clip})
	fmt.Printf("Started: status=%q\n", m.statusText)

	m = drive(t, m, cmd)
	fmt.Println("\n=== Final View ===")
	fmt.Println(m.View())

	if m.statusText != "Transcription Complete (1 Lines)." {
		t.Fatalf("status = %q", m.statusText)
	}
	if m.transcript != "[0.0 ~ 0.0] [stub:large] tone_extracted_chunk_0.wav" {
		t.Errorf("transcript = %q", m.transcript)
	}
	assertDirEmpty(t, work)

	m.Close()
}

func applyUpdate(m Model, msg tea.Msg) (Model, tea.Cmd) {
	newModel, cmd := m.Update(msg)
	return newModel.(Model), cmd
}
