// Package suggestions turns a job description and CV into tailored career
// advice using a language model, with static fallbacks when the model output
// is unusable or the model is unreachable.
package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/prompts"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
	log "github.com/sirupsen/logrus"
)

// SystemInstruction frames every request to the model.
var SystemInstruction = prompts.MustGet(prompts.Suggestions, "system")

var (
	// ErrMissingInput is returned when neither a description nor a URL was supplied.
	ErrMissingInput = errors.New("job description or job URL is required")
	// ErrFetch wraps failures retrieving the job posting from jobUrl.
	ErrFetch = errors.New("failed to fetch job description")
	// ErrGeneration wraps failures reaching the model.
	ErrGeneration = errors.New("failed to generate suggestions")
	// ErrUnconfigured is returned when no model client is available.
	ErrUnconfigured = errors.New("AI client is not configured")
)

// DescriptionFetcher retrieves the text of a job posting.
type DescriptionFetcher func(ctx context.Context, url string) (string, error)

// Service generates CV suggestions.
type Service struct {
	client llm.Client
	fetch  DescriptionFetcher
	logger log.FieldLogger
}

// NewService creates a suggestion service. client may be nil, in which case
// every generation fails with ErrGeneration. fetch may be nil to disable jobUrl.
func NewService(client llm.Client, fetch DescriptionFetcher, logger log.FieldLogger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{client: client, fetch: fetch, logger: logger}
}

// ParseFallback is returned when the model replied with something unusable.
func ParseFallback() types.CVSuggestion {
	return types.CVSuggestion{
		Skills:       []string{"Communication", "Problem Solving", "Teamwork"},
		Keywords:     []string{"Experience", "Leadership", "Innovation"},
		Improvements: []string{"Add more specific achievements", "Include relevant metrics"},
		MatchScore:   70,
	}
}

// CallFailureFallback accompanies the error body when the model could not be reached.
func CallFailureFallback() types.CVSuggestion {
	return types.CVSuggestion{
		Skills:       []string{"Communication", "Problem Solving"},
		Keywords:     []string{"Experience", "Leadership"},
		Improvements: []string{"Add specific achievements"},
		MatchScore:   60,
	}
}

// Generate produces suggestions for req. A reply that cannot be parsed yields
// ParseFallback with a nil error; a failed model call yields an error wrapping
// ErrGeneration.
func (s *Service) Generate(ctx context.Context, req types.CVSuggestionRequest) (*types.CVSuggestion, error) {
	description, err := s.resolveDescription(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.client == nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, ErrUnconfigured)
	}

	raw, err := s.client.GenerateJSON(ctx, SystemInstruction, BuildPrompt(description, req.CurrentCV))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	suggestion, err := ParseResponse(raw)
	if err != nil {
		s.logger.WithError(err).Warn("unusable model reply, returning fallback suggestions")
		fallback := ParseFallback()
		return &fallback, nil
	}
	return suggestion, nil
}

// resolveDescription returns the description to analyze, fetching jobUrl when
// the description is blank.
func (s *Service) resolveDescription(ctx context.Context, req types.CVSuggestionRequest) (string, error) {
	if strings.TrimSpace(req.JobDescription) != "" {
		return req.JobDescription, nil
	}
	if req.JobURL == "" || s.fetch == nil {
		return "", ErrMissingInput
	}

	text, err := s.fetch(ctx, req.JobURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrFetch
	}
	return text, nil
}

// suggestionSchema is the output structure requested from the model.
var suggestionSchema = llm.OutputSchema{
	Description: prompts.MustGet(prompts.Suggestions, "task"),
	Fields: []llm.SchemaField{
		{Name: "skills", Type: `["string"]`, Description: prompts.MustGet(prompts.Suggestions, "field-skills")},
		{Name: "keywords", Type: `["string"]`, Description: prompts.MustGet(prompts.Suggestions, "field-keywords")},
		{Name: "improvements", Type: `["string"]`, Description: prompts.MustGet(prompts.Suggestions, "field-improvements")},
		{Name: "matchScore", Type: "number", Description: prompts.MustGet(prompts.Suggestions, "field-match-score")},
	},
}

var noCV = prompts.MustGet(prompts.Suggestions, "no-cv")

// BuildPrompt renders the user prompt for a description and CV.
func BuildPrompt(jobDescription, currentCV string) string {
	cv := strings.TrimSpace(currentCV)
	if cv == "" {
		cv = noCV
	}
	return llm.BuildJSONPrompt(suggestionSchema,
		llm.Section{Label: "Job Description", Body: strings.TrimSpace(jobDescription)},
		llm.Section{Label: "Current CV", Body: cv},
	)
}

// wireSuggestion accepts fractional scores from the model.
type wireSuggestion struct {
	Skills       []string `json:"skills"`
	Keywords     []string `json:"keywords"`
	Improvements []string `json:"improvements"`
	MatchScore   float64  `json:"matchScore"`
}

// ParseResponse extracts and validates a suggestion from raw model text.
func ParseResponse(raw string) (*types.CVSuggestion, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model reply")
	}

	if err := schemas.Validate(schemas.CVSuggestion, []byte(cleaned)); err != nil {
		return nil, fmt.Errorf("model reply does not match schema: %w", err)
	}

	var wire wireSuggestion
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("failed to decode model reply: %w", err)
	}

	suggestion := &types.CVSuggestion{
		Skills:       wire.Skills,
		Keywords:     wire.Keywords,
		Improvements: wire.Improvements,
		MatchScore:   int(math.Round(math.Max(math.Min(wire.MatchScore, 100), 0))),
	}
	suggestion.Clamp()
	return suggestion, nil
}
