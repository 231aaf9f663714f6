package modify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ebarkova/lede/internal/model"
)

// maxCandidates caps each generator's output.
const maxCandidates = 5

// substitution pairs a strong-language pattern with its softer alternatives.
// Alternatives are ordered most to least natural.
type substitution struct {
	pattern      *regexp.Regexp
	alternatives []string
}

// weakenTable is the fixed substitution table. Patterns are word-bounded and
// case-insensitive; a candidate replaces every matched word, so no weakened
// text retains any of the originals.
var weakenTable = []substitution{
	{regexp.MustCompile(`(?i)\bdefinitely\b`), []string{"likely", "apparently", "probably"}},
	{regexp.MustCompile(`(?i)\bcertainly\b`), []string{"likely", "probably"}},
	{regexp.MustCompile(`(?i)\bundoubtedly\b`), []string{"arguably", "likely"}},
	{regexp.MustCompile(`(?i)\bobviously\b`), []string{"seemingly", "apparently"}},
	{regexp.MustCompile(`(?i)\bclearly\b`), []string{"seemingly", "apparently"}},
	{regexp.MustCompile(`(?i)\balways\b`), []string{"often", "usually"}},
	{regexp.MustCompile(`(?i)\bnever\b`), []string{"rarely", "seldom"}},
	{regexp.MustCompile(`(?i)\bevery\b`), []string{"most", "many"}},
	{regexp.MustCompile(`(?i)\bproves\b`), []string{"suggests", "indicates"}},
	{regexp.MustCompile(`(?i)\bprove\b`), []string{"suggest", "indicate"}},
	{regexp.MustCompile(`(?i)\bcauses\b`), []string{"is associated with", "may contribute to"}},
	{regexp.MustCompile(`(?i)\bcause\b`), []string{"be associated with", "contribute to"}},
	{regexp.MustCompile(`(?i)\bwill\b`), []string{"may", "could"}},
	{regexp.MustCompile(`(?i)\bmust\b`), []string{"may", "might"}},
	{regexp.MustCompile(`(?i)\ball\b`), []string{"most", "many"}},
}

// hedgingPrefixes is the fallback when the claim contains nothing the table
// can soften.
var hedgingPrefixes = []string{
	"It appears that",
	"The data suggest that",
}

// antonymTable drives lexical polarity reversal.
var antonymTable = []substitution{
	{regexp.MustCompile(`(?i)\bincreases?\b`), []string{"decreases"}},
	{regexp.MustCompile(`(?i)\bdecreases?\b`), []string{"increases"}},
	{regexp.MustCompile(`(?i)\bharms?\b`), []string{"benefits"}},
	{regexp.MustCompile(`(?i)\bbenefits?\b`), []string{"harms"}},
	{regexp.MustCompile(`(?i)\bpositive\b`), []string{"negative"}},
	{regexp.MustCompile(`(?i)\bnegative\b`), []string{"positive"}},
	{regexp.MustCompile(`(?i)\bhigher\b`), []string{"lower"}},
	{regexp.MustCompile(`(?i)\blower\b`), []string{"higher"}},
	{regexp.MustCompile(`(?i)\brises?\b`), []string{"falls"}},
	{regexp.MustCompile(`(?i)\bfalls?\b`), []string{"rises"}},
	{regexp.MustCompile(`(?i)\bimproves?\b`), []string{"worsens"}},
	{regexp.MustCompile(`(?i)\bworsens?\b`), []string{"improves"}},
}

// quantifierPattern detects an existing scope quantifier, which suppresses
// the "some" insertion.
var quantifierPattern = regexp.MustCompile(`(?i)\b(some|many|most|several|few|certain)\b`)

// Modifier generates rule-based rewrite candidates for a claim. Each
// generator is independent and returns at most five candidates, ranked by
// confidence.
type Modifier struct {
	logger *zap.Logger
}

func NewModifier(logger *zap.Logger) *Modifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Modifier{logger: logger}
}

// Generate dispatches on the modification kind. The diagram informs the
// reverse-or-remove path, which behaves differently when the evaluation
// found contradicting evidence.
func (m *Modifier) Generate(kind model.ModificationKind, claim model.Claim, diagram model.ToulminDiagram) []model.ModificationCandidate {
	var out []model.ModificationCandidate
	switch kind {
	case model.ModificationWeaken:
		out = m.WeakenClaim(claim.Text)
	case model.ModificationCaveat:
		out = m.AddCaveats(claim.Text)
	case model.ModificationReverse:
		out = m.ReverseOrRemove(claim.Text, hasContradiction(diagram))
	}
	m.logger.Debug("modifications generated",
		zap.String("claim_id", claim.ID),
		zap.String("kind", string(kind)),
		zap.Int("candidates", len(out)),
	)
	return out
}

// WeakenClaim softens absolute and strong language via the substitution
// table. Candidate i uses each matched entry's i-th alternative, so every
// candidate has all strong words replaced. When nothing matches, the claim
// is wrapped in a hedging prefix instead.
func (m *Modifier) WeakenClaim(text string) []model.ModificationCandidate {
	var matched []substitution
	variants := 0
	for _, sub := range weakenTable {
		if sub.pattern.MatchString(text) {
			matched = append(matched, sub)
			if len(sub.alternatives) > variants {
				variants = len(sub.alternatives)
			}
		}
	}

	if len(matched) == 0 {
		var out []model.ModificationCandidate
		for i, prefix := range hedgingPrefixes {
			out = append(out, model.ModificationCandidate{
				Text:        prefix + " " + lowerFirst(text),
				Explanation: "Framed the claim as an interpretation rather than a fact",
				Confidence:  0.5 - 0.05*float64(i),
			})
		}
		return rank(out)
	}

	var out []model.ModificationCandidate
	for i := 0; i < variants && i < maxCandidates; i++ {
		candidate := text
		var replaced []string
		for _, sub := range matched {
			alt := sub.alternatives[min(i, len(sub.alternatives)-1)]
			original := sub.pattern.FindString(candidate)
			candidate = sub.pattern.ReplaceAllString(candidate, alt)
			replaced = append(replaced, fmt.Sprintf("%q with %q", strings.ToLower(original), alt))
		}
		out = append(out, model.ModificationCandidate{
			Text:        candidate,
			Explanation: "Replaced " + strings.Join(replaced, ", "),
			Confidence:  0.9 - 0.1*float64(i),
		})
	}
	return rank(out)
}

// AddCaveats limits the scope of the claim without changing its direction:
// data-scoping prefixes, a "some" quantifier when none exists, and a
// preliminary framing.
func (m *Modifier) AddCaveats(text string) []model.ModificationCandidate {
	out := []model.ModificationCandidate{
		{
			Text:        "Based on the available data, " + lowerFirst(text),
			Explanation: "Scoped the claim to the data actually analyzed",
			Confidence:  0.8,
		},
		{
			Text:        "In this analysis, " + lowerFirst(text),
			Explanation: "Scoped the claim to this analysis",
			Confidence:  0.75,
		},
		{
			Text:        "Preliminary analysis suggests that " + lowerFirst(text),
			Explanation: "Framed the finding as preliminary",
			Confidence:  0.7,
		},
	}

	if !quantifierPattern.MatchString(text) {
		if qualified, ok := insertSome(text); ok {
			out = append(out, model.ModificationCandidate{
				Text:        qualified,
				Explanation: "Added a quantifier so the claim no longer covers every case",
				Confidence:  0.6,
			})
		}
	}
	return rank(out)
}

// ReverseOrRemove handles claims the evidence pushes against. With
// contradicting evidence it attempts polarity reversals; it always offers
// an uncertainty framing, a question reframe, and explicit removal.
func (m *Modifier) ReverseOrRemove(text string, contradicted bool) []model.ModificationCandidate {
	var out []model.ModificationCandidate

	if contradicted {
		for _, sub := range antonymTable {
			if !sub.pattern.MatchString(text) {
				continue
			}
			reversed := sub.pattern.ReplaceAllString(text, sub.alternatives[0])
			out = append(out, model.ModificationCandidate{
				Text:        reversed,
				Explanation: "Reversed the claim's direction to match the evidence",
				Confidence:  0.6,
			})
		}
		out = append(out, model.ModificationCandidate{
			Text:        "It is not the case that " + lowerFirst(text),
			Explanation: "Negated the claim outright",
			Confidence:  0.55,
		})
	}

	out = append(out,
		model.ModificationCandidate{
			Text:        "It remains unclear whether " + lowerFirst(asStatement(text)) + ".",
			Explanation: "Reframed the claim as an open uncertainty",
			Confidence:  0.5,
		},
		model.ModificationCandidate{
			Text:        upperFirst(asStatement(text)) + "?",
			Explanation: "Reframed the claim as a question for further analysis",
			Confidence:  0.45,
		},
		model.ModificationCandidate{
			Text:        "",
			Explanation: "Remove the claim; the notebook evidence does not support it",
			Confidence:  0.4,
		},
	)
	return rank(out)
}

func hasContradiction(diagram model.ToulminDiagram) bool {
	for _, issue := range diagram.Issues {
		if issue.Type == model.IssueContradictsEvidence {
			return true
		}
	}
	return false
}

// rank sorts by confidence descending and truncates to maxCandidates.
func rank(out []model.ModificationCandidate) []model.ModificationCandidate {
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

// insertSome prepends "some" to the claim's first word.
func insertSome(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	return "Some " + lowerFirst(trimmed), true
}

// asStatement strips a trailing sentence terminator.
func asStatement(text string) string {
	return strings.TrimRight(strings.TrimSpace(text), ".!?")
}

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
