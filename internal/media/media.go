// Package media classifies input files and wraps ffmpeg for audio
// extraction and decoding.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the inferred type of a selected file.
type Kind string

const (
	KindAudio       Kind = "audio"
	KindVideo       Kind = "video"
	KindUnsupported Kind = "unsupported"
)

// SampleRate is the rate, in Hz, that decoded audio is resampled to.
const SampleRate = 16000

var (
	// ErrUnsupportedFileType is returned for extensions outside the allow-list.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrMediaDecode matches every *DecodeError.
	ErrMediaDecode = errors.New("media decode failed")
)

var (
	audioExts = []string{".mp3", ".wav", ".m4a"}
	videoExts = []string{".mp4", ".avi", ".mov"}
)

// File is a selected input path and its kind.
type File struct {
	Path string
	Kind Kind
}

// Classify infers the kind of path from its extension, case-insensitively.
func Classify(path string) File {
	ext := strings.ToLower(filepath.Ext(path))
	kind := KindUnsupported
	switch {
	case contains(audioExts, ext):
		kind = KindAudio
	case contains(videoExts, ext):
		kind = KindVideo
	}
	return File{Path: path, Kind: kind}
}

// Check returns ErrUnsupportedFileType when the file cannot be processed.
func (f File) Check() error {
	if f.Kind == KindUnsupported {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Ext(f.Path))
	}
	return nil
}

// SupportedExtensions lists every accepted extension, audio first.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(audioExts)+len(videoExts))
	exts = append(exts, audioExts...)
	return append(exts, videoExts...)
}

// DecodeError reports a failure to read or convert a media file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMediaDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrMediaDecode }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
