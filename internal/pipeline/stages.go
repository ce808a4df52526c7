package pipeline

import (
	"context"

	"genesis/internal/logging"
)

// The capability-backed stages below each wrap exactly one call into the
// language capability. Contract: on underlying failure, catch it locally and
// return a stage-appropriate result value; no raw error crosses the stage
// boundary.

// DomainAnalyzer turns raw text into structured domain data.
type DomainAnalyzer struct {
	model LanguageModel
}

// NewDomainAnalyzer wraps the language capability's extraction call.
func NewDomainAnalyzer(model LanguageModel) *DomainAnalyzer {
	return &DomainAnalyzer{model: model}
}

// Analyze extracts domain data. A capability failure yields a result with the
// error marker populated and no data.
func (a *DomainAnalyzer) Analyze(ctx context.Context, description string) AnalysisResult {
	logging.PipelineDebug("analyzing domain: %q", description)
	data, err := a.model.ExtractDomainData(ctx, description)
	if err != nil {
		logging.PipelineError("domain analysis failed: %v", err)
		return AnalysisResult{Err: err.Error()}
	}
	return AnalysisResult{Data: data}
}

// ElementIdentifier ranks critical elements from domain data, most critical
// first.
type ElementIdentifier struct {
	model LanguageModel
}

// NewElementIdentifier wraps the language capability's prioritization call.
func NewElementIdentifier(model LanguageModel) *ElementIdentifier {
	return &ElementIdentifier{model: model}
}

// Identify returns the ordered critical elements. Capability failure yields
// an empty result with Err set so callers can tell it apart from a
// legitimately empty ranking in logs.
func (i *ElementIdentifier) Identify(ctx context.Context, data DomainData) ElementsResult {
	elements, err := i.model.PrioritizeElements(ctx, data)
	if err != nil {
		logging.PipelineError("element identification failed: %v", err)
		return ElementsResult{Err: err.Error()}
	}
	return ElementsResult{Elements: elements}
}

// PrimitiveGenerator produces candidate solution primitives from critical
// elements.
type PrimitiveGenerator struct {
	model LanguageModel
}

// NewPrimitiveGenerator wraps the language capability's primitive call.
func NewPrimitiveGenerator(model LanguageModel) *PrimitiveGenerator {
	return &PrimitiveGenerator{model: model}
}

// Generate returns candidate primitives. Capability failure yields an empty
// result with Err set.
func (g *PrimitiveGenerator) Generate(ctx context.Context, elements []string) PrimitivesResult {
	primitives, err := g.model.GenerateSolutionPrimitives(ctx, elements)
	if err != nil {
		logging.PipelineError("primitive generation failed: %v", err)
		return PrimitivesResult{Err: err.Error()}
	}
	return PrimitivesResult{Primitives: primitives}
}

// SynthesisFailed is the designated failure string for concept synthesis.
const SynthesisFailed = "Synthesis failed"

// ConceptSynthesizer combines scaffold and tools into a single meta-concept
// string.
type ConceptSynthesizer struct {
	model LanguageModel
}

// NewConceptSynthesizer wraps the language capability's synthesis call.
func NewConceptSynthesizer(model LanguageModel) *ConceptSynthesizer {
	return &ConceptSynthesizer{model: model}
}

// Synthesize always produces some string: the synthesized meta-concept, or
// the designated failure string on capability failure.
func (s *ConceptSynthesizer) Synthesize(ctx context.Context, scaffold Scaffold, tools []Tool) string {
	concept, err := s.model.SynthesizeConcept(ctx, scaffold, tools)
	if err != nil {
		logging.PipelineError("meta-concept synthesis failed: %v", err)
		return SynthesisFailed
	}
	return concept
}

// InsightRefiner asks the language capability to refine a draft insight.
type InsightRefiner struct {
	model LanguageModel
}

// NewInsightRefiner wraps the language capability's refinement call.
func NewInsightRefiner(model LanguageModel) *InsightRefiner {
	return &InsightRefiner{model: model}
}

// Refine returns the refined insight, or the draft unchanged if refinement
// fails. The fallback is byte-identical to the input.
func (r *InsightRefiner) Refine(ctx context.Context, insight string) string {
	refined, err := r.model.RefineInsight(ctx, insight)
	if err != nil {
		logging.PipelineWarn("insight refinement failed, returning draft: %v", err)
		return insight
	}
	return refined
}
