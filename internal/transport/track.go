package transport

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Track is a decoded audio file ready to play.
type Track struct {
	Path     string
	Streamer beep.StreamSeekCloser
	Format   beep.Format

	file *os.File
}

// Decode opens path and picks a decoder from its extension. It does not touch
// the speaker and may run off the render thread.
func Decode(path string) (*Track, error) {
	if path == "" {
		return nil, ErrNoInput
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".mp3", ".flac":
	default:
		return nil, errors.Wrapf(ErrUnsupported, "%q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%v", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(ErrDecode, "%s: %v", filepath.Base(path), err)
	}

	return &Track{Path: path, Streamer: streamer, Format: format, file: f}, nil
}

// Duration is the playing time of the whole track.
func (t *Track) Duration() time.Duration {
	return t.Format.SampleRate.D(t.Streamer.Len())
}

// Close releases the decoder and the file.
func (t *Track) Close() error {
	err := t.Streamer.Close()
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
	return err
}
