package app

import (
	"github.com/saminlion/interview-analyzer/internal/db"
	"github.com/saminlion/interview-analyzer/internal/pipeline"
)

// PrefsLoadedMsg carries the last-used settings read from SQLite.
type PrefsLoadedMsg struct {
	Prefs *db.Preferences
}

// FileSelectedMsg is sent when a media file has been chosen.
type FileSelectedMsg struct {
	Path string
}

// ModelLoadedMsg is sent when the job's recognizer is ready.
type ModelLoadedMsg struct {
	Job *pipeline.Job
}

// JobPreparedMsg is sent once the job's audio is ready to split.
type JobPreparedMsg struct {
	Job *pipeline.Job
}

// JobSplitMsg reports how many chunks the audio was cut into.
type JobSplitMsg struct {
	Job    *pipeline.Job
	Chunks int
}

// ChunkTranscribedMsg is sent after each chunk is recognized.
type ChunkTranscribedMsg struct {
	Job      *pipeline.Job
	Done     int
	Total    int
	Finished bool
}

// JobFailedMsg aborts the current run.
type JobFailedMsg struct {
	Job *pipeline.Job
	Err error
}

// TranscriptSavedMsg is sent after the transcript is written to disk.
type TranscriptSavedMsg struct {
	Path string
}

// SaveFailedMsg is sent when writing the transcript fails.
type SaveFailedMsg struct {
	Err error
}

// CachePurgedMsg reports the outcome of deleting the model cache.
type CachePurgedMsg struct {
	Err error
}
