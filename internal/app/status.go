package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/saminlion/interview-analyzer/internal/cache"
	"github.com/saminlion/interview-analyzer/internal/config"
	"github.com/saminlion/interview-analyzer/internal/media"
	"github.com/saminlion/interview-analyzer/internal/transcribe"
)

// Status lines shown under the progress bar.
const (
	statusIdle          = "Select An Audio/Video File To Begin."
	statusUnsupported   = "Unsupported File Type!"
	statusBusy          = "A Transcription Is Already Running."
	statusExtracting    = "Extracting Audio From Video..."
	statusCacheDeleted  = "Whisper cache deleted."
	statusCacheCanceled = "Cache Deletion Cancelled."
	statusNothingToSave = "Nothing To Save Yet."
	statusCancelled     = "Cancelled."

	statusLoadingModel  = "Loading Whisper Model (%s) On %s"
	statusLoadingOpenAI = "Connecting To OpenAI Transcription..."
	statusLoadingStub   = "Loading Stub Recognizer (%s)"
	statusSplitting     = "Splitting Audio (%d min Per Chunk)..."
	statusTranscribing  = "Transcribing %d Chunk(s) With Whisper..."
	statusChunk         = "Transcribing Chunk %d/%d..."
	statusComplete      = "Transcription Complete (%d Lines)."
	statusSaved         = "Transcript Saved: %s"
	statusChunkSet      = "Chunk Length Set To %d min."
	statusModelSet      = "Whisper Model: %s"
)

// statusForError renders err as a one-line status message.
func statusForError(err error) string {
	var recErr *transcribe.RecognitionError
	switch {
	case errors.Is(err, media.ErrUnsupportedFileType):
		return statusUnsupported
	case errors.Is(err, context.Canceled):
		return statusCancelled
	case errors.As(err, &recErr):
		return fmt.Sprintf("Transcription Failed On Chunk %d: %v", recErr.ChunkIndex+1, recErr.Err)
	case errors.Is(err, media.ErrMediaDecode):
		return fmt.Sprintf("Could Not Decode Media: %v", err)
	case errors.Is(err, config.ErrInvalidConfiguration):
		return fmt.Sprintf("Invalid Settings: %v", err)
	case errors.Is(err, cache.ErrCacheDelete):
		return fmt.Sprintf("Delete Failed: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
