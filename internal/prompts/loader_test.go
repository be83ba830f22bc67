package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_SuggestionPrompts(t *testing.T) {
	resetCache()

	for _, key := range []string{"system", "task", "no-cv"} {
		prompt, err := Get(Suggestions, key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}

	noCV, err := Get(Suggestions, "no-cv")
	require.NoError(t, err)
	assert.Equal(t, "No current CV provided", noCV)
}

func TestGet_Errors(t *testing.T) {
	resetCache()

	_, err := Get("nonexistent.json", "system")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")

	_, err = Get(Suggestions, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	resetCache()

	assert.Panics(t, func() { MustGet("nonexistent.json", "system") })
	assert.NotPanics(t, func() { MustGet(Suggestions, "system") })
}

func TestLoad_Caches(t *testing.T) {
	resetCache()

	first, err := Load(Suggestions)
	require.NoError(t, err)
	first["injected"] = "cached"

	second, err := Load(Suggestions)
	require.NoError(t, err)
	assert.Equal(t, "cached", second["injected"])

	resetCache()
	third, err := Load(Suggestions)
	require.NoError(t, err)
	assert.NotContains(t, third, "injected")
}
