// Package prompts holds the language model prompt text, embedded at compile
// time from JSON files keyed by prompt name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

// Suggestions is the prompt file for CV suggestion requests.
const Suggestions = "suggestions.json"

//go:embed *.json
var promptFiles embed.FS

// Set is the parsed contents of one prompt file.
type Set map[string]string

var (
	sets   = make(map[string]Set)
	setsMu sync.RWMutex
)

// Load returns the prompts in filename, parsing it on first use.
func Load(filename string) (Set, error) {
	setsMu.RLock()
	set, ok := sets[filename]
	setsMu.RUnlock()
	if ok {
		return set, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	setsMu.Lock()
	sets[filename] = set
	setsMu.Unlock()
	return set, nil
}

// Get retrieves a prompt by filename and key.
func Get(filename, key string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts required at package initialization.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

func resetCache() {
	setsMu.Lock()
	sets = make(map[string]Set)
	setsMu.Unlock()
}
