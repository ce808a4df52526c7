package pipeline

// ScaffoldStructure is the structural tag for the current scaffold version.
const ScaffoldStructure = "basic"

// ScaffoldBuilder deterministically assembles primitives into a scaffold.
// Pure local computation: one keyword per primitive, in order, plus the
// structural tag. An empty primitive list yields the zero Scaffold, which the
// Orchestrator treats as construction failure.
type ScaffoldBuilder struct{}

// NewScaffoldBuilder returns a builder for the current scaffold version.
func NewScaffoldBuilder() *ScaffoldBuilder {
	return &ScaffoldBuilder{}
}

// Build maps the ordered primitives to scaffold keywords. Order is preserved;
// duplicates are not removed.
func (b *ScaffoldBuilder) Build(primitives []Primitive) Scaffold {
	if len(primitives) == 0 {
		return Scaffold{}
	}

	keywords := make([]string, 0, len(primitives))
	for _, p := range primitives {
		keywords = append(keywords, p.Key)
	}
	return Scaffold{Keywords: keywords, Structure: ScaffoldStructure}
}
