// Package nlp implements the language-understanding capability: a minimal
// LLM client interface, a Gemini HTTP implementation, and the Model that
// exposes the five operations the pipeline consumes.
package nlp

import "context"

// LLMClient defines the minimal interface the model uses to call an LLM.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
