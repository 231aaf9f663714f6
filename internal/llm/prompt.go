package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ebarkova/lede/internal/model"
)

const judgeSystemPrompt = "You are an argument evaluator for data journalism. You judge how well a claim is supported by notebook analyses - you NEVER assert whether the claim is true."

// cellOutputLimit truncates long cell outputs in the prompt to keep token
// usage bounded.
const cellOutputLimit = 600

// BuildJudgePrompt constructs the evaluation prompt. The model is
// restricted to the notebook content listed in the prompt; it may not bring
// in outside knowledge as grounds.
func BuildJudgePrompt(claim model.Claim, nb model.NotebookSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Evaluate this claim against the notebook content below.

CRITICAL RULES:
1. You MUST ONLY use the notebook content listed here as grounds. Do not infer, speculate, or bring in external knowledge.
2. If the notebook does not support the claim, say so - never fill the gap yourself.
3. Judge SUPPORT QUALITY, not truth. The claim being plausible is irrelevant if the notebook does not back it.
4. Respond with exactly ONE JSON object and nothing else.

CLAIM (%s): %q

NOTEBOOK CONTENT:
`, claim.Type, claim.Text)

	if len(nb.Hypotheses) > 0 {
		b.WriteString("\nHypotheses:\n")
		for _, h := range nb.Hypotheses {
			fmt.Fprintf(&b, "- [%s] %s\n", h.ID, h.Content)
		}
	}
	if len(nb.Insights) > 0 {
		b.WriteString("\nInsights:\n")
		for _, ins := range nb.Insights {
			fmt.Fprintf(&b, "- [%s] %s\n", ins.ID, ins.Content)
		}
	}
	executed := 0
	for _, cell := range nb.Cells {
		if cell.Output == nil || strings.TrimSpace(cell.Output.Text) == "" {
			continue
		}
		if executed == 0 {
			b.WriteString("\nAnalysis cells:\n")
		}
		executed++
		fmt.Fprintf(&b, "- [%s] query: %s\n  output: %s\n", cell.ID, cell.Query, truncate(cell.Output.Text, cellOutputLimit))
	}
	if nb.Empty() {
		b.WriteString("\n(The notebook is empty.)\n")
	}

	b.WriteString(`
Respond with a JSON object of this shape:
{
  "grounds": ["notebook item IDs that support the claim"],
  "warrant": "one sentence: why those grounds would support the claim",
  "issues": [{"type": "no-evidence|weak-evidence|missing-qualifier|causation-correlation|overclaim|contradicts-evidence|unsupported-warrant", "severity": "info|warning|critical", "description": "..."}],
  "gaps": [{"type": "...", "description": "...", "importance": "critical|important|optional", "suggested_query": "...", "can_be_resolved": true}],
  "qualifier": "hedging language the claim should carry, if any",
  "recommended_action": "claim-is-fine|claim-needs-change|claim-might-need-change",
  "action_reasoning": "one or two sentences"
}`)

	return b.String()
}

// ParseVerdict extracts and validates the single JSON verdict from a raw
// model response. Code fences and surrounding prose are tolerated; a
// missing or malformed object is ErrInvalidVerdict.
func ParseVerdict(raw string) (model.Verdict, error) {
	jsonStr := extractJSONObject(raw)
	if jsonStr == "" {
		return model.Verdict{}, fmt.Errorf("%w: no JSON object in response", ErrInvalidVerdict)
	}

	var v model.Verdict
	if err := json.Unmarshal([]byte(jsonStr), &v); err != nil {
		return model.Verdict{}, fmt.Errorf("%w: %v", ErrInvalidVerdict, err)
	}
	if !v.Valid() {
		return model.Verdict{}, fmt.Errorf("%w: unrecognized recommended_action %q", ErrInvalidVerdict, v.Action)
	}
	return v, nil
}

// extractJSONObject returns the outermost {...} span of the text, after
// stripping markdown code fences.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
