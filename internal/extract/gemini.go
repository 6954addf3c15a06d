package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel balances extraction quality against latency and cost.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiExtractor implements the entity-extractor contract on top of the
// Gemini API. It is optional: the pipeline uses the rule-based extractor
// unless an API key is configured.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates an LLM-backed extractor. The model name may be
// empty to use the default.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (e *GeminiExtractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

const extractionPrompt = `You are an expert resume analyst. Extract structured entities from the resume text below.

Respond with a single JSON object only:
{"skills": ["..."], "experience_years": <int or null>, "locations": ["..."], "current_role": "..."}

- skills: technical skill tokens as written ("python", "k8s", "react")
- experience_years: total years of professional experience, null if not stated
- locations: cities or "Remote" the candidate mentions as preferred
- current_role: the candidate's current job title, empty string if unclear

Resume text:
`

// Extract asks the model for entities and parses the JSON reply.
func (e *GeminiExtractor) Extract(ctx context.Context, text string) (*Entities, error) {
	model := e.client.GenerativeModel(e.model)
	model.SetTemperature(0.1) // low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(extractionPrompt+text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	raw, err := textFromResponse(resp)
	if err != nil {
		return nil, err
	}

	var entities Entities
	if err := json.Unmarshal([]byte(cleanJSONBlock(raw)), &entities); err != nil {
		return nil, fmt.Errorf("failed to parse extractor response: %w", err)
	}
	if entities.ExperienceYears != nil && *entities.ExperienceYears > maxExperienceYears {
		capped := maxExperienceYears
		entities.ExperienceYears = &capped
	}
	return &entities, nil
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock strips markdown code fences the model sometimes wraps
// around JSON output.
func cleanJSONBlock(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
