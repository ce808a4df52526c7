package pipeline

import (
	"context"

	"github.com/google/uuid"

	"genesis/internal/logging"
)

// Orchestrator drives the eight stages strictly in order and owns the
// short-circuit/fallback policy. It is the sole component with multi-stage
// knowledge; it holds no state beyond the current run's intermediate values.
type Orchestrator struct {
	analyzer    *DomainAnalyzer
	identifier  *ElementIdentifier
	primitives  *PrimitiveGenerator
	scaffolder  *ScaffoldBuilder
	discoverer  ToolDiscoverer
	synthesizer *ConceptSynthesizer
	generator   InsightGenerator
	refiner     *InsightRefiner
	recorder    FeedbackRecorder
}

// Options configures optional collaborators. A nil Generator selects the
// local default.
type Options struct {
	Generator InsightGenerator
}

// NewOrchestrator wires the stages around the given collaborators. The
// discoverer and recorder may not be nil; substitute no-op implementations in
// tests instead.
func NewOrchestrator(model LanguageModel, discoverer ToolDiscoverer, recorder FeedbackRecorder, opts Options) *Orchestrator {
	generator := opts.Generator
	if generator == nil {
		generator = NewLocalInsightGenerator()
	}
	return &Orchestrator{
		analyzer:    NewDomainAnalyzer(model),
		identifier:  NewElementIdentifier(model),
		primitives:  NewPrimitiveGenerator(model),
		scaffolder:  NewScaffoldBuilder(),
		discoverer:  discoverer,
		synthesizer: NewConceptSynthesizer(model),
		generator:   generator,
		refiner:     NewInsightRefiner(model),
		recorder:    recorder,
	}
}

// Run executes the pipeline for one domain description. On success it returns
// the refined insight; on abort it returns a StageError tagged with the
// originating stage. Gates:
//
//	stage 1: error marker        -> "Analysis Error: <detail>"
//	stage 2: no elements         -> "Error: No critical elements identified"
//	stage 3: no primitives       -> "Error: Failed to generate primitives"
//	stage 4: empty scaffold      -> "Error: Scaffold construction failed"
//	stage 5: empty tools         -> warn, continue with none
//	stages 6-7: degrade to designated strings, never abort
//	stage 8: failure reported, insight still returned
func (o *Orchestrator) Run(ctx context.Context, domainDescription string) (string, error) {
	runID := uuid.NewString()
	logging.Pipeline("[%s] run started: %q", runID, domainDescription)

	// Stage 1: domain analysis
	analysis := o.analyzer.Analyze(ctx, domainDescription)
	if analysis.Failed() {
		logging.Pipeline("[%s] aborted at %s: %s", runID, StageAnalysis, analysis.Err)
		return "", newAnalysisError(analysis.Err)
	}

	// Stage 2: critical element identification
	elements := o.identifier.Identify(ctx, analysis.Data)
	if len(elements.Elements) == 0 {
		if elements.Err != "" {
			logging.Pipeline("[%s] aborted at %s: capability failure: %s", runID, StageElements, elements.Err)
		} else {
			logging.Pipeline("[%s] aborted at %s: capability returned no elements", runID, StageElements)
		}
		return "", newElementsError()
	}

	// Stage 3: primitive generation
	primitives := o.primitives.Generate(ctx, elements.Elements)
	if len(primitives.Primitives) == 0 {
		if primitives.Err != "" {
			logging.Pipeline("[%s] aborted at %s: capability failure: %s", runID, StagePrimitives, primitives.Err)
		} else {
			logging.Pipeline("[%s] aborted at %s: capability returned no primitives", runID, StagePrimitives)
		}
		return "", newPrimitivesError()
	}

	// Stage 4: scaffold construction (pure)
	scaffold := o.scaffolder.Build(primitives.Primitives)
	if scaffold.Empty() {
		logging.Pipeline("[%s] aborted at %s", runID, StageScaffold)
		return "", newScaffoldError()
	}
	logging.PipelineDebug("[%s] scaffold: keywords=%v structure=%s", runID, scaffold.Keywords, scaffold.Structure)

	// Stage 5: tool discovery (best-effort, never fatal). A search error and
	// a legitimately empty result share control flow but are logged apart.
	tools, err := o.discoverer.Discover(ctx, scaffold)
	if err != nil {
		logging.PipelineWarn("[%s] tool discovery errored, proceeding with scaffold only: %v", runID, err)
		tools = nil
	} else if len(tools) == 0 {
		logging.PipelineWarn("[%s] no tools discovered, proceeding with scaffold only", runID)
	}

	// Stage 6: meta-concept synthesis (degrades to designated string)
	metaConcept := o.synthesizer.Synthesize(ctx, scaffold, tools)

	// Stage 7: insight generation + refinement (refinement falls back to the
	// unrefined draft)
	draft := o.generator.Generate(ctx, metaConcept)
	insight := o.refiner.Refine(ctx, draft)

	// Stage 8: feedback recording, only after a fully successful run.
	// Failure is reported but the insight is returned regardless.
	if err := o.recorder.Record(ctx, domainDescription, insight); err != nil {
		logging.PipelineError("[%s] feedback recording failed: %v", runID, err)
	}

	logging.Pipeline("[%s] run completed: %q", runID, insight)
	return insight, nil
}
