package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testTemplate = `Context:
{context}

Question:
{question}`

func TestBuildPromptSubstitutesBothPlaceholders(t *testing.T) {
	got := BuildPrompt(testTemplate, "Soup needs carrots and onions.", "What ingredients for soup?")

	require.Contains(t, got, "Soup needs carrots and onions.")
	require.Contains(t, got, "What ingredients for soup?")
	require.NotContains(t, got, "{context}")
	require.NotContains(t, got, "{question}")
}

func TestBuildPromptIsPure(t *testing.T) {
	first := BuildPrompt(testTemplate, "some context", "some question")
	second := BuildPrompt(testTemplate, "some context", "some question")

	require.Equal(t, first, second)
}

func TestBuildPromptDoesNotReExpandPlaceholders(t *testing.T) {
	// Placeholder tokens inside the inputs are literal text; substitution
	// is single-pass.
	got := BuildPrompt(testTemplate, "context with {question} inside", "question with {context} inside")

	require.Contains(t, got, "context with {question} inside")
	require.Contains(t, got, "question with {context} inside")
}

func TestBuildPromptEmptyInputs(t *testing.T) {
	got := BuildPrompt(testTemplate, "", "")

	require.NotContains(t, got, "{context}")
	require.NotContains(t, got, "{question}")
}
