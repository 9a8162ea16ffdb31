package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/metrics"
	"alfredoptarigan/ai-interview-platform/internal/models"
)

const answerEvaluationSchema = `{
  "type": "object",
  "required": ["sentiment", "clarity", "confidence", "summary", "score"],
  "properties": {
    "sentiment":  {"type": "string", "enum": ["Positive", "Neutral", "Negative"]},
    "clarity":    {"type": "number", "minimum": 0, "maximum": 10},
    "confidence": {"type": "number", "minimum": 0, "maximum": 10},
    "relevance":  {"type": "string"},
    "summary":    {"type": "string", "minLength": 1},
    "score":      {"type": "number", "minimum": 0, "maximum": 10}
  }
}`

var evaluationSchema = gojsonschema.NewStringLoader(answerEvaluationSchema)

type EvaluationInput struct {
	QuestionIndex int
	Question      string
	Answer        string
	JobTitle      string
	ParsedCV      models.JSONMap
}

// AnswerEvaluator scores answers. Evaluate never fails: unusable model output
// comes back as an evaluation with Error and RawResponse set.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, in EvaluationInput) models.AnswerEvaluation
	Summarize(ctx context.Context, jobTitle string, transcript models.Transcript, evaluations models.Evaluations, averageScore float64) (string, error)
}

type answerEvaluator struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
	logger        *zap.Logger
}

func NewAnswerEvaluator(gemini GeminiService, maxRetries int, logger *zap.Logger) AnswerEvaluator {
	return &answerEvaluator{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		logger:        logger,
	}
}

func (e *answerEvaluator) Evaluate(ctx context.Context, in EvaluationInput) models.AnswerEvaluation {
	start := time.Now()
	prompt := e.promptBuilder.BuildAnswerEvaluationPrompt(in.Question, in.Answer, in.JobTitle, in.ParsedCV)

	response, err := e.gemini.GenerateJSONWithRetry(ctx, prompt, 0.2, e.maxRetries)
	if err != nil {
		metrics.ObserveStage("evaluate", start, err)
		return models.AnswerEvaluation{
			QuestionIndex: in.QuestionIndex,
			Error:         fmt.Sprintf("evaluation failed: %v", err),
			Timestamp:     time.Now().UTC(),
		}
	}

	eval, err := decodeEvaluation(response)
	metrics.ObserveStage("evaluate", start, err)
	if err != nil {
		e.logger.Warn("Unusable evaluation response",
			zap.Int("question_index", in.QuestionIndex),
			zap.Error(err))
		return models.AnswerEvaluation{
			QuestionIndex: in.QuestionIndex,
			Error:         err.Error(),
			RawResponse:   response,
			Timestamp:     time.Now().UTC(),
		}
	}

	eval.QuestionIndex = in.QuestionIndex
	eval.Timestamp = time.Now().UTC()
	return *eval
}

func (e *answerEvaluator) Summarize(ctx context.Context, jobTitle string, transcript models.Transcript, evaluations models.Evaluations, averageScore float64) (string, error) {
	prompt := e.promptBuilder.BuildInterviewSummaryPrompt(jobTitle, transcript, evaluations, averageScore)

	summary, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.5, e.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	return strings.TrimSpace(summary), nil
}

// decodeEvaluation extracts the JSON object from model output and checks it
// against answerEvaluationSchema.
func decodeEvaluation(response string) (*models.AnswerEvaluation, error) {
	var doc map[string]interface{}
	if err := parseJSONResponse(response, &doc); err != nil {
		return nil, fmt.Errorf("invalid evaluation JSON: %w", err)
	}

	if s, ok := doc["sentiment"].(string); ok {
		doc["sentiment"] = normalizeSentiment(s)
	}

	result, err := gojsonschema.Validate(evaluationSchema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("evaluation does not match schema: %s", strings.Join(msgs, "; "))
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var eval models.AnswerEvaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		return nil, fmt.Errorf("invalid evaluation JSON: %w", err)
	}

	return &eval, nil
}

func normalizeSentiment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
