package transport

import "github.com/pkg/errors"

var (
	// ErrNoInput means the user asked to play before choosing anything.
	ErrNoInput = errors.New("no audio input selected")
	// ErrPermissionDenied means the microphone could not be opened.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrDecode means the file could not be read as audio.
	ErrDecode = errors.New("cannot decode audio")
	// ErrUnsupported means the file extension has no decoder.
	ErrUnsupported = errors.New("unsupported file type")
)
