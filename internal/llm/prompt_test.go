package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildJSONPrompt(t *testing.T) {
	schema := OutputSchema{
		Description: "Analyze the input.",
		Fields: []SchemaField{
			{Name: "skills", Type: `["string"]`, Description: "skills to add"},
			{Name: "score", Type: "number"},
		},
	}

	prompt := BuildJSONPrompt(schema,
		Section{Label: "Job Description", Body: "Build Go services"},
		Section{Label: "Current CV", Body: "Five years of Python"},
	)

	assert.True(t, strings.HasPrefix(prompt, "Analyze the input.\n\n"))
	assert.Contains(t, prompt, "Job Description:\nBuild Go services\n")
	assert.Contains(t, prompt, "Current CV:\nFive years of Python\n")
	assert.Contains(t, prompt, `"skills": ["string"], // skills to add`)
	assert.Contains(t, prompt, `"score": number`+"\n")
	assert.Less(t, strings.Index(prompt, "Job Description"), strings.Index(prompt, "Current CV"))
	assert.Less(t, strings.Index(prompt, "Current CV"), strings.Index(prompt, `"skills"`))
}

func TestBuildJSONPrompt_DefaultType(t *testing.T) {
	prompt := BuildJSONPrompt(OutputSchema{Fields: []SchemaField{{Name: "title"}}})
	assert.Contains(t, prompt, `"title": "string"`)
}
