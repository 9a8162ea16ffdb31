package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/ai-interview-platform/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVParsePrompt asks for the structured fields of a resume.
func (pb *PromptBuilder) BuildCVParsePrompt(cvText string) string {
	return fmt.Sprintf(`You are an expert HR assistant extracting structured data from a candidate's CV.

CANDIDATE CV:
%s

Extract the following fields:
- name: full name of the candidate
- email: email address
- phone: phone number
- education: list of degrees or schools with years when available
- experience: list of roles with company, title and period
- skills: list of technical and soft skills

Return ONLY a JSON object in the following format:
{
  "name": "<string>",
  "email": "<string>",
  "phone": "<string>",
  "education": ["<string>"],
  "experience": ["<string>"],
  "skills": ["<string>"]
}

Use an empty string or empty list when a field is not present. Do not invent information.`, cvText)
}

// BuildQuestionGenerationPrompt asks for interview questions tailored to the CV and job.
func (pb *PromptBuilder) BuildQuestionGenerationPrompt(parsedCV models.JSONMap, job *models.Job, ragContext string, count int) string {
	return fmt.Sprintf(`You are an experienced technical interviewer preparing a spoken interview for a %s position.

JOB BRIEF:
%s

JOB REQUIREMENTS:
%s

REFERENCE MATERIAL (job knowledge and interview guides):
%s

CANDIDATE PROFILE (extracted from CV):
%s

Write exactly %d interview questions that:
1. Probe the candidate's real experience listed in the profile
2. Check the most important requirements of the job
3. Mix technical depth with behavioural questions
4. Can be answered out loud in one to two minutes

Return ONLY a JSON array of %d strings, one question per element, in the order they should be asked.`,
		job.Title, orNone(job.Brief), orNone(job.Requirements), ragContext, toJSON(parsedCV), count, count)
}

// BuildAnswerEvaluationPrompt asks for a structured verdict on one spoken answer.
func (pb *PromptBuilder) BuildAnswerEvaluationPrompt(question, answer, jobTitle string, parsedCV models.JSONMap) string {
	return fmt.Sprintf(`You are an interview evaluation assistant. Analyze the following answer from a candidate for the position of '%s'.

Candidate background:
%s

Question:
%s

Answer (transcribed from speech):
%s

Perform the following:
- Sentiment analysis (Positive/Neutral/Negative)
- Clarity (score 1-10)
- Confidence (score 1-10)
- Relevance to the job title and the candidate's experience
- Summary of the key points
- Rating of the answer from 1 to 10 based on quality and match with the job

Return ONLY valid JSON without code fences:
{
  "sentiment": "Positive" | "Neutral" | "Negative",
  "clarity": <1-10>,
  "confidence": <1-10>,
  "relevance": "<one or two sentences>",
  "summary": "<one or two sentences>",
  "score": <1-10>
}`, jobTitle, toJSON(parsedCV), question, answer)
}

// BuildInterviewSummaryPrompt creates the prompt for the closing summary of a session.
func (pb *PromptBuilder) BuildInterviewSummaryPrompt(jobTitle string, transcript models.Transcript, evaluations models.Evaluations, averageScore float64) string {
	scores := make(map[int]models.AnswerEvaluation, len(evaluations))
	for _, e := range evaluations {
		scores[e.QuestionIndex] = e
	}

	var b strings.Builder
	for _, entry := range transcript {
		fmt.Fprintf(&b, "Q%d: %s\nA: %s\n", entry.QuestionIndex, entry.Question, entry.Answer)
		if e, ok := scores[entry.QuestionIndex]; ok && !e.Failed() {
			fmt.Fprintf(&b, "Score: %.1f/10. %s\n", e.Score, e.Summary)
		}
		b.WriteString("\n")
	}

	return fmt.Sprintf(`You are an expert hiring manager reviewing a completed spoken interview for a %s position.

INTERVIEW TRANSCRIPT AND PER-ANSWER EVALUATIONS:
%s
Average answer score: %.2f (out of 10)

Provide a concise overall summary (3-5 sentences) that includes:
1. Overall strengths of the candidate
2. Key gaps or areas for improvement
3. Final recommendation (Strong Hire / Hire / Maybe / No Hire)

Return ONLY the summary text, no JSON format needed.`, jobTitle, b.String(), averageScore)
}

// BuildRetrievalQuery creates the query text used for RAG retrieval.
func (pb *PromptBuilder) BuildRetrievalQuery(job *models.Job, parsedCV models.JSONMap) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Interview questions and requirements for %s", job.Title))
	if skills, ok := parsedCV["skills"]; ok {
		parts = append(parts, fmt.Sprintf("Candidate skills: %v", skills))
	}
	if job.Requirements != "" {
		parts = append(parts, job.Requirements)
	}
	return strings.Join(parts, "\n")
}

// FormatRAGContext renders retrieved chunks for inclusion in a prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (%s, score: %.2f) ---\n%s",
			i+1, result.DocType, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func toJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not provided."
	}
	return s
}
