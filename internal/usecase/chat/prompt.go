package chat

import "strings"

// BuildPrompt fills the template's {context} and {question} placeholders.
// Substitution is literal and single-pass: placeholder tokens appearing
// inside the context or the question are inserted as plain text and never
// expanded again.
func BuildPrompt(template, context, question string) string {
	return strings.NewReplacer(
		"{context}", context,
		"{question}", question,
	).Replace(template)
}
