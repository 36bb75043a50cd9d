package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"chaincv/resume-analyzer/internal/models"
)

// AnalyzerService turns extracted resume text into a validated analysis
// object via the generative model.
type AnalyzerService interface {
	AnalyzeResume(ctx context.Context, resumeText string) (*models.AnalysisData, error)
}

type analyzerService struct {
	geminiService GeminiService
	qdrantService QdrantService // nil when guidance retrieval is disabled
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewAnalyzerService(
	geminiService GeminiService,
	qdrantService QdrantService,
	maxRetries int,
) AnalyzerService {
	return &analyzerService{
		geminiService: geminiService,
		qdrantService: qdrantService,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// AnalyzeResume implements AnalyzerService. Model and sanitizer failures
// come back as errors for the task executor to convert into a terminal
// Failure payload; sanitizer errors are returned verbatim so the stored
// message names the actual failure.
func (a *analyzerService) AnalyzeResume(ctx context.Context, resumeText string) (*models.AnalysisData, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text is required for analysis")
	}

	guidanceContext := a.retrieveGuidance(ctx, resumeText)

	prompt := a.promptBuilder.BuildResumeAnalysisPrompt(resumeText, guidanceContext)

	response, err := a.geminiService.GenerateTextWithRetry(ctx, prompt, a.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("AI analysis failed: %w", err)
	}

	data, err := SanitizeAnalysisResponse(response)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// retrieveGuidance looks up reviewer-guidance chunks similar to the
// resume. Retrieval is best effort: any failure degrades to an empty
// context, never to a pipeline failure.
func (a *analyzerService) retrieveGuidance(ctx context.Context, resumeText string) string {
	if a.qdrantService == nil {
		return ""
	}

	embedding, err := a.geminiService.GenerateEmbedding(ctx, resumeText)
	if err != nil {
		log.Printf("⚠️  Failed to embed resume for guidance retrieval: %v\n", err)
		return ""
	}

	results, err := a.qdrantService.SearchSimilar(ctx, embedding, "reviewer_guidance", 3)
	if err != nil {
		log.Printf("⚠️  Failed to search guidance collection: %v\n", err)
		return ""
	}

	return FormatGuidanceContext(results)
}
