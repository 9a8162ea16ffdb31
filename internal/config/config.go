package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Speech    SpeechConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Interview InterviewConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type GeminiConfig struct {
	APIKey         string
	TextModel      string
	EmbeddingModel string
	TTSModel       string
	STTModel       string
	Voice          string
	Breaker        BreakerConfig
}

type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	MinRequests      uint32
	FailureThreshold float64
	Interval         time.Duration
	Timeout          time.Duration
}

type SpeechConfig struct {
	// STTProvider is "gemini" or "whisper".
	STTProvider   string
	WhisperURL    string
	WhisperAPIKey string
	WhisperModel  string
	TTSCacheTTL   time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MediaPath   string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency       int
	QueueSize         int
	PollInterval      time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

type InterviewConfig struct {
	QuestionCount   int
	AnswerTimeout   time.Duration
	LockTTL         time.Duration
	MaxAnswerBytes  int
	GenerateSummary bool
}

type AuthConfig struct {
	TokenTTL    time.Duration
	AdminEmails []string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

var defaults = map[string]interface{}{
	"PORT":      "3000",
	"ENV":       "development",
	"LOG_LEVEL": "info",
	// json in production, console otherwise
	"LOG_FORMAT": "",

	"DB_HOST":     "localhost",
	"DB_PORT":     "5432",
	"DB_USER":     "postgres",
	"DB_PASSWORD": "postgres",
	"DB_NAME":     "ai_interview_platform",
	"DB_SSLMODE":  "disable",
	"DB_MAX_OPEN": 25,
	"DB_MAX_IDLE": 5,

	"REDIS_ADDRESS":  "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"QDRANT_URL":         "http://localhost:6333",
	"QDRANT_API_KEY":     "",
	"QDRANT_COLLECTION":  "interview_knowledge",
	"QDRANT_VECTOR_SIZE": 768,

	"GEMINI_API_KEY":                   "",
	"GEMINI_TEXT_MODEL":                "gemini-2.5-flash",
	"GEMINI_EMBEDDING_MODEL":           "text-embedding-004",
	"GEMINI_TTS_MODEL":                 "gemini-2.5-flash-preview-tts",
	"GEMINI_STT_MODEL":                 "gemini-2.5-flash",
	"GEMINI_VOICE":                     "Kore",
	"GEMINI_BREAKER_ENABLED":           true,
	"GEMINI_BREAKER_MAX_REQUESTS":      3,
	"GEMINI_BREAKER_MIN_REQUESTS":      5,
	"GEMINI_BREAKER_FAILURE_THRESHOLD": 0.6,
	"GEMINI_BREAKER_INTERVAL":          "60s",
	"GEMINI_BREAKER_TIMEOUT":           "30s",

	"STT_PROVIDER":    "gemini",
	"WHISPER_URL":     "https://api.openai.com/v1",
	"WHISPER_API_KEY": "",
	"WHISPER_MODEL":   "whisper-1",
	"TTS_CACHE_TTL":   "168h",

	"UPLOAD_PATH":   "./uploads",
	"MEDIA_PATH":    "./uploads/media",
	"MAX_FILE_SIZE": 10485760,

	"WORKER_CONCURRENCY":   3,
	"WORKER_QUEUE_SIZE":    100,
	"WORKER_POLL_INTERVAL": "10s",
	"RETRY_MAX_ATTEMPTS":   3,
	"RETRY_INITIAL_DELAY":  "2s",

	"INTERVIEW_QUESTION_COUNT":    5,
	"INTERVIEW_ANSWER_TIMEOUT":    "120s",
	"INTERVIEW_LOCK_TTL":          "30s",
	"INTERVIEW_MAX_ANSWER_BYTES":  10485760,
	"INTERVIEW_GENERATE_SUMMARY":  true,
	"AUTH_TOKEN_TTL":              "24h",
	"AUTH_ADMIN_EMAILS":           "",
	"RATE_LIMIT_ENABLED":          true,
	"RATE_LIMIT_REQUESTS_PER_MIN": 30,
	"RATE_LIMIT_BURST":            10,
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and defaults.")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	env := v.GetString("ENV")
	logFormat := v.GetString("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
		if env == "production" {
			logFormat = "json"
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  env,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: logFormat,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxOpen:  v.GetInt("DB_MAX_OPEN"),
			MaxIdle:  v.GetInt("DB_MAX_IDLE"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Qdrant: QdrantConfig{
			URL:        v.GetString("QDRANT_URL"),
			APIKey:     v.GetString("QDRANT_API_KEY"),
			Collection: v.GetString("QDRANT_COLLECTION"),
			VectorSize: v.GetUint64("QDRANT_VECTOR_SIZE"),
		},
		Gemini: GeminiConfig{
			APIKey:         v.GetString("GEMINI_API_KEY"),
			TextModel:      v.GetString("GEMINI_TEXT_MODEL"),
			EmbeddingModel: v.GetString("GEMINI_EMBEDDING_MODEL"),
			TTSModel:       v.GetString("GEMINI_TTS_MODEL"),
			STTModel:       v.GetString("GEMINI_STT_MODEL"),
			Voice:          v.GetString("GEMINI_VOICE"),
			Breaker: BreakerConfig{
				Enabled:          v.GetBool("GEMINI_BREAKER_ENABLED"),
				MaxRequests:      v.GetUint32("GEMINI_BREAKER_MAX_REQUESTS"),
				MinRequests:      v.GetUint32("GEMINI_BREAKER_MIN_REQUESTS"),
				FailureThreshold: v.GetFloat64("GEMINI_BREAKER_FAILURE_THRESHOLD"),
				Interval:         v.GetDuration("GEMINI_BREAKER_INTERVAL"),
				Timeout:          v.GetDuration("GEMINI_BREAKER_TIMEOUT"),
			},
		},
		Speech: SpeechConfig{
			STTProvider:   strings.ToLower(v.GetString("STT_PROVIDER")),
			WhisperURL:    v.GetString("WHISPER_URL"),
			WhisperAPIKey: v.GetString("WHISPER_API_KEY"),
			WhisperModel:  v.GetString("WHISPER_MODEL"),
			TTSCacheTTL:   v.GetDuration("TTS_CACHE_TTL"),
		},
		Storage: StorageConfig{
			UploadPath:  v.GetString("UPLOAD_PATH"),
			MediaPath:   v.GetString("MEDIA_PATH"),
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE"),
		},
		Worker: WorkerConfig{
			Concurrency:       v.GetInt("WORKER_CONCURRENCY"),
			QueueSize:         v.GetInt("WORKER_QUEUE_SIZE"),
			PollInterval:      v.GetDuration("WORKER_POLL_INTERVAL"),
			RetryMaxAttempts:  v.GetInt("RETRY_MAX_ATTEMPTS"),
			RetryInitialDelay: v.GetDuration("RETRY_INITIAL_DELAY"),
		},
		Interview: InterviewConfig{
			QuestionCount:   v.GetInt("INTERVIEW_QUESTION_COUNT"),
			AnswerTimeout:   v.GetDuration("INTERVIEW_ANSWER_TIMEOUT"),
			LockTTL:         v.GetDuration("INTERVIEW_LOCK_TTL"),
			MaxAnswerBytes:  v.GetInt("INTERVIEW_MAX_ANSWER_BYTES"),
			GenerateSummary: v.GetBool("INTERVIEW_GENERATE_SUMMARY"),
		},
		Auth: AuthConfig{
			TokenTTL:    v.GetDuration("AUTH_TOKEN_TTL"),
			AdminEmails: splitList(v.GetString("AUTH_ADMIN_EMAILS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:           v.GetBool("RATE_LIMIT_ENABLED"),
			RequestsPerMinute: v.GetInt("RATE_LIMIT_REQUESTS_PER_MIN"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.Gemini.APIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if c.Speech.STTProvider != "gemini" && c.Speech.STTProvider != "whisper" {
		errs = append(errs, fmt.Errorf("unsupported STT_PROVIDER %q", c.Speech.STTProvider))
	}
	if c.Speech.STTProvider == "whisper" && c.Speech.WhisperAPIKey == "" {
		errs = append(errs, errors.New("WHISPER_API_KEY is required for the whisper provider"))
	}
	if c.Worker.Concurrency <= 0 {
		errs = append(errs, errors.New("WORKER_CONCURRENCY must be positive"))
	}
	if c.Interview.QuestionCount <= 0 {
		errs = append(errs, errors.New("INTERVIEW_QUESTION_COUNT must be positive"))
	}
	if c.Interview.AnswerTimeout <= 0 {
		errs = append(errs, errors.New("INTERVIEW_ANSWER_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(strings.ToLower(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
