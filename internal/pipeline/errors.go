package pipeline

import "fmt"

// Stage identifies the pipeline step an error originated from.
type Stage string

const (
	StageAnalysis   Stage = "domain_analysis"
	StageElements   Stage = "element_identification"
	StagePrimitives Stage = "primitive_generation"
	StageScaffold   Stage = "scaffold_construction"
	StageDiscovery  Stage = "tool_discovery"
	StageSynthesis  Stage = "concept_synthesis"
	StageInsight    Stage = "insight_generation"
	StageFeedback   Stage = "feedback_recording"
)

// StageError is the only error type Orchestrator.Run returns. It renders as
// "<Category>: <Detail>", which is the user-visible result string for an
// aborted run.
type StageError struct {
	Stage    Stage
	Category string
	Detail   string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Detail)
}

func newAnalysisError(detail string) *StageError {
	return &StageError{Stage: StageAnalysis, Category: "Analysis Error", Detail: detail}
}

func newElementsError() *StageError {
	return &StageError{Stage: StageElements, Category: "Error", Detail: "No critical elements identified"}
}

func newPrimitivesError() *StageError {
	return &StageError{Stage: StagePrimitives, Category: "Error", Detail: "Failed to generate primitives"}
}

func newScaffoldError() *StageError {
	return &StageError{Stage: StageScaffold, Category: "Error", Detail: "Scaffold construction failed"}
}
