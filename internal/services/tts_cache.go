package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/metrics"
)

// CachedTextToSpeech keeps synthesized questions in Redis, keyed by voice and text.
type CachedTextToSpeech struct {
	inner  TextToSpeech
	rdb    *redis.Client
	ttl    time.Duration
	voice  string
	logger *zap.Logger
}

type cachedAudio struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mime_type"`
}

func NewCachedTextToSpeech(inner TextToSpeech, rdb *redis.Client, ttl time.Duration, voice string, logger *zap.Logger) *CachedTextToSpeech {
	return &CachedTextToSpeech{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		voice:  voice,
		logger: logger,
	}
}

func (c *CachedTextToSpeech) Synthesize(ctx context.Context, text string) (*Audio, error) {
	key := c.cacheKey(text)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedAudio
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil && len(cached.Data) > 0 {
			metrics.TTSCacheLookups.WithLabelValues("hit").Inc()
			return &Audio{Data: cached.Data, MimeType: cached.MimeType}, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("TTS cache read failed", zap.Error(err))
	}
	metrics.TTSCacheLookups.WithLabelValues("miss").Inc()

	audio, err := c.inner.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedAudio{Data: audio.Data, MimeType: audio.MimeType})
	if err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("TTS cache write failed", zap.Error(err))
		}
	}

	return audio, nil
}

func (c *CachedTextToSpeech) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.voice + "\x00" + text))
	return "tts:" + hex.EncodeToString(sum[:])
}
