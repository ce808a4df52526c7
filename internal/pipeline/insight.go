package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// GenerationFailed is the designated failure string for insight generation.
// The Orchestrator treats it as a normal, non-aborting value.
const GenerationFailed = "Insight generation failed"

// LocalInsightGenerator is the default InsightGenerator: pure and local, it
// formats the meta-concept into a sentence. Real deployments may substitute a
// capability-backed implementation.
type LocalInsightGenerator struct{}

// NewLocalInsightGenerator returns the default generator.
func NewLocalInsightGenerator() *LocalInsightGenerator {
	return &LocalInsightGenerator{}
}

// Generate formats the meta-concept into a draft insight.
func (g *LocalInsightGenerator) Generate(_ context.Context, metaConcept string) string {
	if strings.TrimSpace(metaConcept) == "" {
		return GenerationFailed
	}
	return fmt.Sprintf("Insight from %s", metaConcept)
}

// ModelInsightGenerator is a capability-backed generator that reuses the
// refinement call to expand the meta-concept. Any capability failure is
// converted into the designated failure string.
type ModelInsightGenerator struct {
	model LanguageModel
}

// NewModelInsightGenerator returns a generator backed by the language
// capability.
func NewModelInsightGenerator(model LanguageModel) *ModelInsightGenerator {
	return &ModelInsightGenerator{model: model}
}

// Generate asks the capability to produce an insight from the meta-concept.
func (g *ModelInsightGenerator) Generate(ctx context.Context, metaConcept string) string {
	if strings.TrimSpace(metaConcept) == "" {
		return GenerationFailed
	}
	insight, err := g.model.RefineInsight(ctx, fmt.Sprintf("Insight from %s", metaConcept))
	if err != nil || strings.TrimSpace(insight) == "" {
		return GenerationFailed
	}
	return insight
}
