// Package transcribe drives speech recognition over audio chunks.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/saminlion/interview-analyzer/internal/transcript"
)

// Recognizer is an external speech-to-text collaborator. Recognize blocks
// until the whole file has been processed.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string) (Result, error)
	Close() error
}

// Result is what a recognizer returns for one file. Timed reports whether
// Segments carries per-utterance timings; otherwise only Text is meaningful.
type Result struct {
	Text     string
	Segments []transcript.Segment
	Timed    bool
}

// ErrRecognition matches every *RecognitionError.
var ErrRecognition = errors.New("recognition failed")

// RecognitionError reports the chunk whose recognition aborted a run.
type RecognitionError struct {
	ChunkIndex int
	Err        error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.ChunkIndex, e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrRecognition) match any RecognitionError.
func (e *RecognitionError) Is(target error) bool { return target == ErrRecognition }

// Compute devices passed to the whisper CLI.
const (
	DeviceCUDA = "cuda"
	DeviceCPU  = "cpu"
)

// DetectDevice returns DeviceCUDA when an NVIDIA driver is present and
// DeviceCPU otherwise.
func DetectDevice() string {
	if _, err := exec.LookPath("nvidia-smi"); err == nil {
		return DeviceCUDA
	}
	return DeviceCPU
}
