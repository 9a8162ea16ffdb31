package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/ai-interview-platform/internal/config"
	"alfredoptarigan/ai-interview-platform/internal/metrics"
)

const transcriptionInstruction = `Transcribe the candidate's spoken answer in this audio clip verbatim.
Return only the transcript text. If the clip contains no intelligible speech, return an empty response.`

// GeminiSpeech covers both directions with Gemini models: a TTS model
// for questions and a multimodal model for answers.
type GeminiSpeech struct {
	client   *genai.Client
	ttsModel string
	sttModel string
	voice    string
	breaker  *Breaker[*genai.GenerateContentResponse]
	logger   *zap.Logger
}

func NewGeminiSpeech(client *genai.Client, cfg config.GeminiConfig, logger *zap.Logger) *GeminiSpeech {
	return &GeminiSpeech{
		client:   client,
		ttsModel: cfg.TTSModel,
		sttModel: cfg.STTModel,
		voice:    cfg.Voice,
		breaker:  NewBreaker[*genai.GenerateContentResponse]("speech", cfg.Breaker, logger),
		logger:   logger,
	}
}

func (s *GeminiSpeech) Synthesize(ctx context.Context, text string) (*Audio, error) {
	start := time.Now()
	audio, err := s.synthesize(ctx, text)
	metrics.ObserveStage("tts", start, err)
	return audio, err
}

func (s *GeminiSpeech) synthesize(ctx context.Context, text string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	}

	resp, err := s.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return s.client.Models.GenerateContent(ctx, s.ttsModel, genai.Text(text), cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	blob := firstInlineData(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("speech response contained no audio")
	}

	if strings.HasPrefix(strings.ToLower(blob.MIMEType), "audio/l16") || strings.Contains(blob.MIMEType, "pcm") {
		return &Audio{
			Data:     pcmToWAV(blob.Data, sampleRateFromMime(blob.MIMEType)),
			MimeType: "audio/wav",
		}, nil
	}

	return &Audio{Data: blob.Data, MimeType: blob.MIMEType}, nil
}

func (s *GeminiSpeech) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	start := time.Now()
	text, err := s.transcribe(ctx, audio, mimeType)
	metrics.ObserveStage("stt", start, err)
	return text, err
}

func (s *GeminiSpeech) transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoAudio
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcriptionInstruction),
			genai.NewPartFromBytes(audio, normalizeMimeType(mimeType)),
		}, genai.RoleUser),
	}

	temperature := float32(0)
	resp, err := s.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return s.client.Models.GenerateContent(ctx, s.sttModel, contents, &genai.GenerateContentConfig{
			Temperature: &temperature,
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	if resp == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Text()), nil
}

func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}
