package llm

import (
	"fmt"
	"strings"
)

// OutputSchema describes the JSON object a prompt asks the model to return.
type OutputSchema struct {
	Description string        // Task statement placed at the top of the prompt
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the requested output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint, e.g. ["string"] or number
	Description string // Description for the LLM
}

// Section is a labelled block of input text.
type Section struct {
	Label string
	Body  string
}

// BuildJSONPrompt constructs a prompt from the task description, the labelled
// input sections and the expected output structure.
func BuildJSONPrompt(schema OutputSchema, sections ...Section) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	for _, s := range sections {
		sb.WriteString(s.Label)
		sb.WriteString(":\n")
		sb.WriteString(s.Body)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Return ONLY a valid JSON object with this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		sb.WriteString(fmt.Sprintf("  %q: %s", field.Name, typeHint))
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("Do not include markdown, code fences or any text outside the JSON object.\n")

	return sb.String()
}
