package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"genesis/internal/logging"
	"genesis/internal/pipeline"
)

const modelSystemPrompt = `You are a precise analysis engine inside an automated pipeline.
Follow the output format in each request exactly. When JSON is requested,
output ONLY the JSON with no commentary and no markdown fences.`

// Model implements pipeline.LanguageModel on top of an LLMClient. Each
// operation is a single completion with a JSON or plain-text contract; any
// transport or parse failure surfaces as an error for the stage wrapper to
// catch.
type Model struct {
	client LLMClient
}

// NewModel builds the five-operation language capability around a client.
func NewModel(client LLMClient) *Model {
	return &Model{client: client}
}

var _ pipeline.LanguageModel = (*Model)(nil)

// ExtractDomainData turns a domain description into structured fields.
func (m *Model) ExtractDomainData(ctx context.Context, text string) (pipeline.DomainData, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty domain description")
	}

	prompt := fmt.Sprintf(`Analyze this problem domain description and extract its key components.

Domain description:
%s

Output a single JSON object whose keys are short snake_case field names
(for example "problem", "context", "stakeholders", "constraints", "goals")
and whose values are concise strings. Include only fields the description
supports.`, text)

	response, err := m.client.CompleteWithSystem(ctx, modelSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("domain extraction failed: %w", err)
	}

	jsonStr := extractJSONObject(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object in domain extraction response")
	}

	var data pipeline.DomainData
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return nil, fmt.Errorf("failed to parse domain data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("domain extraction returned no fields")
	}

	logging.NLPDebug("ExtractDomainData: fields=%d", len(data))
	return data, nil
}

// PrioritizeElements ranks the critical elements of the domain, most critical
// first.
func (m *Model) PrioritizeElements(ctx context.Context, data pipeline.DomainData) ([]string, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain data: %w", err)
	}

	prompt := fmt.Sprintf(`Given this structured domain data, identify the critical elements
that any solution must address, ordered most critical first.

Domain data:
%s

Output a single JSON array of short strings, most critical first.`, encoded)

	response, err := m.client.CompleteWithSystem(ctx, modelSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("element prioritization failed: %w", err)
	}

	jsonStr := extractJSONArray(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON array in prioritization response")
	}

	var elements []string
	if err := json.Unmarshal([]byte(jsonStr), &elements); err != nil {
		return nil, fmt.Errorf("failed to parse elements: %w", err)
	}

	logging.NLPDebug("PrioritizeElements: elements=%d", len(elements))
	return elements, nil
}

// GenerateSolutionPrimitives produces candidate solution building blocks from
// the critical elements.
func (m *Model) GenerateSolutionPrimitives(ctx context.Context, elements []string) ([]pipeline.Primitive, error) {
	encoded, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("failed to encode elements: %w", err)
	}

	prompt := fmt.Sprintf(`For each critical element below, propose one solution primitive: a
reusable technique or mechanism that addresses it.

Critical elements (most critical first):
%s

Output a single JSON array of objects. Each object must have a "key" field
holding a short lowercase keyword for the primitive, and may have other
string fields describing it.`, encoded)

	response, err := m.client.CompleteWithSystem(ctx, modelSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("primitive generation failed: %w", err)
	}

	jsonStr := extractJSONArray(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON array in primitive response")
	}

	var raw []map[string]string
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse primitives: %w", err)
	}

	primitives := make([]pipeline.Primitive, 0, len(raw))
	for _, entry := range raw {
		key := strings.TrimSpace(entry["key"])
		if key == "" {
			continue
		}
		var metadata map[string]string
		for field, value := range entry {
			if field == "key" {
				continue
			}
			if metadata == nil {
				metadata = make(map[string]string)
			}
			metadata[field] = value
		}
		primitives = append(primitives, pipeline.Primitive{Key: key, Metadata: metadata})
	}

	logging.NLPDebug("GenerateSolutionPrimitives: primitives=%d", len(primitives))
	return primitives, nil
}

// SynthesizeConcept combines the scaffold and any discovered tools into a
// single meta-concept string.
func (m *Model) SynthesizeConcept(ctx context.Context, scaffold pipeline.Scaffold, tools []pipeline.Tool) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scaffold keywords (in order): %s\n", strings.Join(scaffold.Keywords, ", "))
	fmt.Fprintf(&sb, "Scaffold structure: %s\n", scaffold.Structure)
	if len(tools) > 0 {
		sb.WriteString("Available tools:\n")
		for _, tool := range tools {
			fmt.Fprintf(&sb, "- %s: %s\n", tool.Name, tool.Description)
		}
	} else {
		sb.WriteString("No external tools were discovered.\n")
	}

	prompt := fmt.Sprintf(`Synthesize one unifying meta-concept that bridges these solution
primitives and tools.

%s
Output a single short phrase (under 20 words) naming the meta-concept.
Plain text only.`, sb.String())

	response, err := m.client.CompleteWithSystem(ctx, modelSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("concept synthesis failed: %w", err)
	}

	concept := strings.TrimSpace(response)
	if concept == "" {
		return "", fmt.Errorf("empty synthesis response")
	}
	return concept, nil
}

// RefineInsight polishes a draft insight into its final form.
func (m *Model) RefineInsight(ctx context.Context, insight string) (string, error) {
	prompt := fmt.Sprintf(`Refine this draft insight into one clear, concise sentence. Preserve its
meaning; improve its wording. Plain text only.

Draft insight:
%s`, insight)

	response, err := m.client.CompleteWithSystem(ctx, modelSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("insight refinement failed: %w", err)
	}

	refined := strings.TrimSpace(response)
	if refined == "" {
		return "", fmt.Errorf("empty refinement response")
	}
	return refined, nil
}

// extractJSONObject finds the first complete JSON object in a response
// (handles markdown wrappers).
func extractJSONObject(response string) string {
	return extractBalanced(response, '{', '}')
}

// extractJSONArray finds the first complete JSON array in a response.
func extractJSONArray(response string) string {
	return extractBalanced(response, '[', ']')
}

func extractBalanced(response string, openDelim, closeDelim byte) string {
	start := strings.IndexByte(response, openDelim)
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		ch := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case openDelim:
			depth++
		case closeDelim:
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return ""
}
