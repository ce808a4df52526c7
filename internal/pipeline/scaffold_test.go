package pipeline

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScaffoldBuilder_PreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	builder := NewScaffoldBuilder()
	primitives := []Primitive{
		{Key: "cache"},
		{Key: "queue", Metadata: map[string]string{"reason": "decouple producers"}},
		{Key: "cache"}, // deduplication is not required
	}

	got := builder.Build(primitives)
	want := Scaffold{
		Keywords:  []string{"cache", "queue", "cache"},
		Structure: "basic",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestScaffoldBuilder_EmptyPrimitives(t *testing.T) {
	t.Parallel()

	got := NewScaffoldBuilder().Build(nil)
	if !got.Empty() {
		t.Errorf("expected zero scaffold for empty primitives, got %+v", got)
	}
	if got.Structure != "" {
		t.Errorf("zero scaffold must not carry a structure tag, got %q", got.Structure)
	}
}

func TestLocalInsightGenerator(t *testing.T) {
	t.Parallel()

	gen := NewLocalInsightGenerator()

	got := gen.Generate(context.Background(), "context-aware assistance")
	if got != "Insight from context-aware assistance" {
		t.Errorf("unexpected draft: %q", got)
	}

	if got := gen.Generate(context.Background(), "   "); got != GenerationFailed {
		t.Errorf("blank meta-concept should yield the designated failure string, got %q", got)
	}
}
