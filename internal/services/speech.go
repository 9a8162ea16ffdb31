package services

import (
	"context"
	"errors"
	"strings"
)

// Audio is an encoded clip together with its MIME type.
type Audio struct {
	Data     []byte
	MimeType string
}

type TextToSpeech interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

// SpeechToText returns an empty string when the clip holds no speech.
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

var ErrNoAudio = errors.New("no audio data")

const defaultAnswerMimeType = "audio/webm"

func normalizeMimeType(mimeType string) string {
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))
	if mimeType == "" {
		return defaultAnswerMimeType
	}
	// browsers send "audio/webm;codecs=opus"
	if i := strings.Index(mimeType, ";"); i > 0 {
		mimeType = mimeType[:i]
	}
	return mimeType
}

func extensionForMime(mimeType string) string {
	switch normalizeMimeType(mimeType) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	case "audio/flac":
		return ".flac"
	default:
		return ".webm"
	}
}
