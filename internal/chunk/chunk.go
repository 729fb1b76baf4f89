// Package chunk splits decoded audio into fixed-duration WAV files.
package chunk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/saminlion/interview-analyzer/internal/config"
	"github.com/saminlion/interview-analyzer/internal/media"
)

// Chunk is one window of the source audio materialized to its own file.
// The pipeline owns Path until cleanup.
type Chunk struct {
	Index int
	Path  string
	Start time.Duration
	End   time.Duration
}

// Duration returns the length of the chunk.
func (c Chunk) Duration() time.Duration {
	return c.End - c.Start
}

// Decoder loads a whole audio file as mono samples at media.SampleRate.
type Decoder interface {
	DecodePCM(ctx context.Context, path string) ([]int16, error)
}

// Splitter writes chunks of decoded audio into a directory.
type Splitter struct {
	decoder Decoder
	dir     string
	log     *slog.Logger
}

// NewSplitter returns a Splitter writing chunk files into dir.
func NewSplitter(decoder Decoder, dir string, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{
		decoder: decoder,
		dir:     dir,
		log:     logger.With("component", "chunk.Splitter"),
	}
}

// Split loads audioPath into memory and partitions it into consecutive,
// non-overlapping windows of length; the last window may be shorter.
// Zero-length audio yields no chunks and no error. On failure any chunk
// files already written are removed.
func (s *Splitter) Split(ctx context.Context, audioPath string, length time.Duration) ([]Chunk, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: chunk length must be positive, got %s", config.ErrInvalidConfiguration, length)
	}

	samples, err := s.decoder.DecodePCM(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	per := SamplesFor(length)
	chunks := make([]Chunk, 0, Count(len(samples), per))
	for i, start := 0, 0; start < len(samples); i, start = i+1, start+per {
		if err := ctx.Err(); err != nil {
			Remove(chunks, s.log)
			return nil, err
		}
		end := min(start+per, len(samples))
		path := Path(s.dir, audioPath, i)
		if err := writeWAV(path, samples[start:end]); err != nil {
			_ = os.Remove(path)
			Remove(chunks, s.log)
			return nil, &media.DecodeError{Path: audioPath, Err: err}
		}
		chunks = append(chunks, Chunk{
			Index: i,
			Path:  path,
			Start: sampleTime(start),
			End:   sampleTime(end),
		})
	}

	s.log.Debug("audio split",
		"source", audioPath,
		"samples", len(samples),
		"chunk_length", length,
		"chunks", len(chunks),
	)
	return chunks, nil
}

// Count returns ceil(total/per), the number of windows Split produces.
func Count(total, per int) int {
	if total <= 0 || per <= 0 {
		return 0
	}
	return (total + per - 1) / per
}

// SamplesFor converts a duration to a sample count at media.SampleRate,
// never less than one.
func SamplesFor(d time.Duration) int {
	n := int(int64(d) * media.SampleRate / int64(time.Second))
	return max(n, 1)
}

// Path names chunk i of audioPath inside dir.
func Path(dir, audioPath string, i int) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(dir, fmt.Sprintf("%s_chunk_%d.wav", base, i))
}

// Remove deletes chunk files, logging and otherwise ignoring failures.
func Remove(chunks []Chunk, logger *slog.Logger) {
	for _, c := range chunks {
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			if logger != nil {
				logger.Debug("chunk cleanup failed", "path", c.Path, "error", err)
			}
		}
	}
}

func sampleTime(n int) time.Duration {
	return time.Duration(int64(n) * int64(time.Second) / media.SampleRate)
}

func writeWAV(path string, samples []int16) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(v)
	}
	enc := wav.NewEncoder(f, media.SampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: media.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
