package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/metrics"
	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
)

// CVProcessor turns an uploaded CV into parsed fields and interview questions.
type CVProcessor interface {
	ProcessCV(ctx context.Context, cvID uuid.UUID) error
}

var errNoQuestions = errors.New("model returned no questions")

type cvProcessor struct {
	cvRepo        repositories.CVRepository
	applicantRepo repositories.ApplicantRepository
	jobRepo       repositories.JobRepository
	gemini        GeminiService
	knowledge     KnowledgeService
	pdfParser     PDFParserService
	promptBuilder *PromptBuilder
	questionCount int
	maxRetries    int
	logger        *zap.Logger
}

func NewCVProcessor(
	cvRepo repositories.CVRepository,
	applicantRepo repositories.ApplicantRepository,
	jobRepo repositories.JobRepository,
	gemini GeminiService,
	knowledge KnowledgeService,
	pdfParser PDFParserService,
	questionCount int,
	maxRetries int,
	logger *zap.Logger,
) CVProcessor {
	return &cvProcessor{
		cvRepo:        cvRepo,
		applicantRepo: applicantRepo,
		jobRepo:       jobRepo,
		gemini:        gemini,
		knowledge:     knowledge,
		pdfParser:     pdfParser,
		promptBuilder: NewPromptBuilder(),
		questionCount: questionCount,
		maxRetries:    maxRetries,
		logger:        logger,
	}
}

// ProcessCV implements CVProcessor. Any failure marks the CV failed with the reason.
func (p *cvProcessor) ProcessCV(ctx context.Context, cvID uuid.UUID) (err error) {
	start := time.Now()
	log := p.logger.With(zap.String("cv_id", cvID.String()))

	defer func() {
		metrics.CVProcessingDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.CVProcessed.WithLabelValues("failed").Inc()
			return
		}
		metrics.CVProcessed.WithLabelValues("completed").Inc()
	}()

	if err := p.cvRepo.UpdateStatus(cvID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Info("🔄 Processing CV")

	fail := func(stage string, cause error) error {
		msg := fmt.Sprintf("%s: %v", stage, cause)
		if updateErr := p.cvRepo.UpdateError(cvID, msg); updateErr != nil {
			log.Error("Failed to record CV error", zap.Error(updateErr))
		}
		return fmt.Errorf("%s: %w", strings.ToLower(stage), cause)
	}

	cv, err := p.cvRepo.FindByID(cvID)
	if err != nil {
		return fail("CV not found", err)
	}

	applicant, err := p.applicantRepo.FindByID(cv.ApplicantID)
	if err != nil {
		return fail("Applicant not found", err)
	}

	job, err := p.jobRepo.FindByID(applicant.JobID)
	if err != nil {
		return fail("Job not found", err)
	}

	log.Info("📄 Extracting CV text")
	content, err := p.pdfParser.ExtractText(cv.FilePath)
	if err != nil {
		return fail("Failed to parse CV", err)
	}
	if content.SkippedPages > 0 {
		log.Warn("Some CV pages could not be read",
			zap.Int("skipped", content.SkippedPages),
			zap.Int("pages", content.PageCount),
		)
	}

	log.Info("🤖 Extracting CV fields")
	parsed, err := p.parseFields(ctx, content.Text)
	if err != nil {
		return fail("Failed to extract CV fields", err)
	}

	log.Info("🔍 Retrieving job context")
	query := p.promptBuilder.BuildRetrievalQuery(job, parsed)
	ragContext, err := p.knowledge.RetrieveContext(ctx, job, query, 3)
	if err != nil {
		log.Warn("⚠️  Failed to retrieve job context", zap.Error(err))
		ragContext = FormatRAGContext(nil)
	}

	log.Info("🤖 Generating interview questions")
	questions, err := p.generateQuestions(ctx, parsed, job, ragContext)
	if err != nil {
		return fail("Failed to generate questions", err)
	}

	if err := p.cvRepo.UpdateResult(cvID, parsed, questions); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Info("✅ CV processed", zap.Int("questions", len(questions)))
	return nil
}

func (p *cvProcessor) parseFields(ctx context.Context, cvText string) (models.JSONMap, error) {
	prompt := p.promptBuilder.BuildCVParsePrompt(cvText)

	response, err := p.gemini.GenerateJSONWithRetry(ctx, prompt, 0.1, p.maxRetries)
	if err != nil {
		return nil, err
	}

	var parsed models.JSONMap
	if err := parseJSONResponse(response, &parsed); err != nil {
		return nil, err
	}

	return parsed, nil
}

func (p *cvProcessor) generateQuestions(ctx context.Context, parsed models.JSONMap, job *models.Job, ragContext string) ([]string, error) {
	prompt := p.promptBuilder.BuildQuestionGenerationPrompt(parsed, job, ragContext, p.questionCount)

	response, err := p.gemini.GenerateJSONWithRetry(ctx, prompt, 0.7, p.maxRetries)
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := parseJSONResponse(response, &raw); err != nil {
		return nil, err
	}

	questions := make([]string, 0, len(raw))
	for _, q := range raw {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}

	if len(questions) == 0 {
		return nil, errNoQuestions
	}
	if len(questions) > p.questionCount {
		questions = questions[:p.questionCount]
	}

	return questions, nil
}
