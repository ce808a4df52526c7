// Package pipeline implements the staged insight-generation pipeline: a fixed
// eight-step transformation from a natural-language domain description to a
// short refined insight. All collaborators (language capability, tool search,
// feedback store) are constructor-injected interfaces; the Orchestrator owns
// the short-circuit and fallback policy between stages.
package pipeline

import "context"

// DomainData holds structured fields extracted from a domain description.
type DomainData map[string]string

// Primitive is a candidate solution building block. Key is the scaffold
// keyword; Metadata carries whatever else the capability returned.
type Primitive struct {
	Key      string            `json:"key"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Scaffold is the deterministic assembly of primitives: one keyword per
// primitive, in order, plus a structural tag for the current version.
type Scaffold struct {
	Keywords  []string `json:"keywords"`
	Structure string   `json:"structure"`
}

// Empty reports whether the scaffold carries no keywords.
func (s Scaffold) Empty() bool {
	return len(s.Keywords) == 0
}

// Tool is an externally discovered tool candidate. Both fields may be empty
// strings but are always present.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LanguageModel is the language-understanding capability consumed by the
// capability-backed stages. Any provider implementing this shape is
// acceptable; failures are raw errors here and are converted to stage-local
// results at the stage boundary, never propagated past it.
type LanguageModel interface {
	ExtractDomainData(ctx context.Context, text string) (DomainData, error)
	PrioritizeElements(ctx context.Context, data DomainData) ([]string, error)
	GenerateSolutionPrimitives(ctx context.Context, elements []string) ([]Primitive, error)
	SynthesizeConcept(ctx context.Context, scaffold Scaffold, tools []Tool) (string, error)
	RefineInsight(ctx context.Context, insight string) (string, error)
}

// ToolDiscoverer is the tool-search capability. Discover must not block
// indefinitely and must convert network/parse failures into an empty result
// with the cause in err; the Orchestrator treats both the same (non-fatal).
type ToolDiscoverer interface {
	Discover(ctx context.Context, scaffold Scaffold) ([]Tool, error)
}

// FeedbackRecorder appends successful (domain, insight) pairs to persistent
// storage. Recording failure is reported but never escalated.
type FeedbackRecorder interface {
	Record(ctx context.Context, domain, insight string) error
}

// InsightGenerator turns a meta-concept into a draft insight. The default
// implementation is pure and local; capability-backed implementations may be
// substituted.
type InsightGenerator interface {
	Generate(ctx context.Context, metaConcept string) string
}

// AnalysisResult is the outcome of domain analysis. Exactly one of Data and
// Err is populated.
type AnalysisResult struct {
	Data DomainData
	Err  string
}

// Failed reports whether analysis carried an error marker.
func (r AnalysisResult) Failed() bool {
	return r.Err != ""
}

// ElementsResult is the outcome of critical-element identification. Err
// records an underlying capability failure for observability; the gate
// triggers on empty Elements regardless of cause.
type ElementsResult struct {
	Elements []string
	Err      string
}

// PrimitivesResult is the outcome of primitive generation.
type PrimitivesResult struct {
	Primitives []Primitive
	Err        string
}
