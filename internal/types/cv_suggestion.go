package types

// CVSuggestion is the AI-generated advice for tailoring a CV to a job description.
// It is produced per request and never stored.
type CVSuggestion struct {
	Skills       []string `json:"skills"`
	Keywords     []string `json:"keywords"`
	Improvements []string `json:"improvements"`
	MatchScore   int      `json:"matchScore"`
}

// Clamp bounds MatchScore to [0, 100] and replaces nil lists with empty ones.
func (s *CVSuggestion) Clamp() {
	if s.MatchScore < 0 {
		s.MatchScore = 0
	}
	if s.MatchScore > 100 {
		s.MatchScore = 100
	}
	if s.Skills == nil {
		s.Skills = []string{}
	}
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	if s.Improvements == nil {
		s.Improvements = []string{}
	}
}

// CVSuggestionRequest is the body of POST /api/ai/cv-suggestions.
type CVSuggestionRequest struct {
	JobDescription string `json:"jobDescription"`
	CurrentCV      string `json:"currentCV"`
	// JobURL is fetched when JobDescription is empty.
	JobURL string `json:"jobUrl,omitempty" validate:"omitempty,url"`
}

// Validate validates the CVSuggestionRequest using the validator.
func (r *CVSuggestionRequest) Validate() error {
	return validate.Struct(r)
}

// CVSuggestionFailure is returned with HTTP 500 when the model could not be reached.
type CVSuggestionFailure struct {
	Error    string       `json:"error"`
	Fallback CVSuggestion `json:"fallback"`
}
