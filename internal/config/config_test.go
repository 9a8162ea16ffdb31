package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "gemini", cfg.Speech.STTProvider)
	assert.Equal(t, 5, cfg.Interview.QuestionCount)
	assert.Equal(t, 120*time.Second, cfg.Interview.AnswerTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, uint64(768), cfg.Qdrant.VectorSize)
	assert.True(t, cfg.Gemini.Breaker.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("STT_PROVIDER", "Whisper")
	t.Setenv("INTERVIEW_ANSWER_TIMEOUT", "45s")
	t.Setenv("AUTH_ADMIN_EMAILS", " Boss@Example.com, ops@example.com ,")
	t.Setenv("WORKER_CONCURRENCY", "7")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "whisper", cfg.Speech.STTProvider)
	assert.Equal(t, 45*time.Second, cfg.Interview.AnswerTimeout)
	assert.Equal(t, []string{"boss@example.com", "ops@example.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, 7, cfg.Worker.Concurrency)
}

func TestValidate(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := Load()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg.Gemini.APIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.Speech.STTProvider = "whisper"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WHISPER_API_KEY")
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "require",
	}}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=require", cfg.GetDatabaseDSN())
}
