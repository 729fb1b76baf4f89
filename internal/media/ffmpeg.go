package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg runs the ffmpeg binary for extraction and decoding.
type FFmpeg struct {
	Bin string
}

// NewFFmpeg returns an FFmpeg using bin, or "ffmpeg" from PATH when empty.
func NewFFmpeg(bin string) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{Bin: bin}
}

// ExtractAudio writes the audio track of videoPath to audioPath as 16-bit
// PCM WAV, overwriting any existing file. Returns audioPath.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) (string, error) {
	// ffmpeg -y -i input -vn -acodec pcm_s16le output.wav
	_, err := f.run(ctx,
		"-y", "-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-loglevel", "error",
		audioPath,
	)
	if err != nil {
		return "", &DecodeError{Path: videoPath, Err: err}
	}
	return audioPath, nil
}

// DecodePCM loads the whole of path into memory as mono 16 kHz int16
// samples. A readable file with no audio frames yields zero samples.
func (f *FFmpeg) DecodePCM(ctx context.Context, path string) ([]int16, error) {
	out, err := f.run(ctx,
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return BytesToSamples(out), nil
}

func (f *FFmpeg) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, f.Bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("ffmpeg: %w", err)
		}
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, msg)
	}
	return stdout.Bytes(), nil
}

// Available reports whether the ffmpeg binary can be found.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.Bin)
	return err == nil
}

// BytesToSamples converts little-endian s16 bytes to samples, dropping a
// trailing odd byte.
func BytesToSamples(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return samples
}
