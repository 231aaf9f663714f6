package toulmin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ebarkova/lede/internal/model"
	"github.com/ebarkova/lede/internal/retrieve"
)

// Judge is the external LLM evaluator contract. Implementations must return
// a single well-formed verdict; anything else is a hard error for the
// caller, never silently defaulted.
type Judge interface {
	EvaluateClaim(ctx context.Context, claim model.Claim, nb model.NotebookSnapshot) (model.Verdict, error)
}

// Evaluator builds a full Toulmin diagram for a claim: grounds, warrant,
// qualifier analysis, strength score, issues, and evidence gaps. The local
// heuristic pass always runs; a Judge, when configured, contributes the
// recommended action, extra issues, and gaps on top of it.
type Evaluator struct {
	retriever *retrieve.Retriever
	judge     Judge
	logger    *zap.Logger
}

// NewEvaluator creates an evaluator. judge may be nil, in which case the
// recommended action is derived heuristically.
func NewEvaluator(retriever *retrieve.Retriever, judge Judge, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{retriever: retriever, judge: judge, logger: logger}
}

// qualifier words that limit the scope or certainty of a claim
var qualifierWords = []string{
	"some", "many", "most", "often", "likely", "may", "might", "could",
	"appears", "suggests", "probably", "generally", "typically", "roughly",
	"approximately", "partially", "somewhat", "tends",
}

// Evaluate orchestrates the full pass: retrieve evidence, identify the
// warrant, analyze qualifiers, score, enumerate issues and gaps, and decide
// the recommended action. A judge failure is returned as an error with the
// heuristic diagram discarded; the caller decides whether to retry or
// surface it.
func (e *Evaluator) Evaluate(ctx context.Context, claim model.Claim, nb model.NotebookSnapshot) (model.ToulminDiagram, error) {
	grounds := e.retriever.FindEvidence(claim, nb)
	warrant := IdentifyWarrant(claim, grounds)
	qualifier := analyzeQualifiers(claim, grounds)

	score := overallScore(len(grounds), warrant.Confidence, &qualifier)
	issues := enumerateIssues(claim, grounds, warrant, qualifier)
	gaps := enumerateGaps(claim, grounds)

	diagram := model.ToulminDiagram{
		ClaimID:      claim.ID,
		Grounds:      grounds,
		Warrant:      warrant,
		Qualifier:    &qualifier,
		Strength:     model.BandStrength(score),
		OverallScore: score,
		Issues:       issues,
		Gaps:         gaps,
	}

	if e.judge != nil {
		verdict, err := e.judge.EvaluateClaim(ctx, claim, nb)
		if err != nil {
			return model.ToulminDiagram{}, fmt.Errorf("judge evaluation: %w", err)
		}
		mergeVerdict(&diagram, verdict)
	} else {
		diagram.Action = heuristicAction(diagram)
		diagram.ActionReasoning = heuristicReasoning(diagram)
	}

	e.logger.Debug("claim evaluated",
		zap.String("claim_id", claim.ID),
		zap.Float64("score", diagram.OverallScore),
		zap.String("strength", string(diagram.Strength)),
		zap.String("action", string(diagram.Action)),
	)
	return diagram, nil
}

// analyzeQualifiers checks existing hedging language against the weight of
// evidence behind the claim. Weight is the mean confidence score, so a
// strong but barely relevant insight still counts as thin support.
func analyzeQualifiers(claim model.Claim, grounds []model.Evidence) model.QualifierAnalysis {
	lower := strings.ToLower(claim.Text)
	var existing []string
	for _, q := range qualifierWords {
		if containsWord(lower, q) {
			existing = append(existing, q)
		}
	}

	meanStrength := evidenceWeight(grounds)
	hasAbsolutes := claim.HasAbsoluteLanguage()
	hasQualifiers := len(existing) > 0

	analysis := model.QualifierAnalysis{ExistingQualifiers: existing}

	switch {
	case hasAbsolutes && meanStrength < 0.7:
		analysis.Missing = true
		analysis.MissingImportance = model.GapCritical
	case !hasQualifiers && meanStrength < 0.6:
		analysis.Missing = true
		analysis.MissingImportance = model.GapImportant
	}

	switch {
	case hasQualifiers && meanStrength >= 0.6:
		analysis.Appropriateness = 0.9
	case hasAbsolutes && meanStrength < 0.7:
		analysis.Appropriateness = 0.2
	case !hasQualifiers && meanStrength < 0.6:
		analysis.Appropriateness = 0.3
	default:
		analysis.Appropriateness = 0.5
	}
	return analysis
}

// evidenceWeight averages the confidence scores of the grounds. Zero for
// an empty set.
func evidenceWeight(grounds []model.Evidence) float64 {
	if len(grounds) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range grounds {
		sum += g.ConfidenceScore
	}
	return sum / float64(len(grounds))
}

// overallScore composes the 0-100 score: 40% from evidence quantity
// banding, 30% from warrant confidence, 30% from qualifier appropriateness
// (a neutral 15 points when no qualifier analysis ran).
func overallScore(evidenceCount int, warrantConfidence float64, qualifier *model.QualifierAnalysis) float64 {
	var quantity float64
	switch {
	case evidenceCount == 0:
		quantity = 0
	case evidenceCount == 1:
		quantity = 15
	case evidenceCount <= 3:
		quantity = 25
	default:
		quantity = 40
	}

	qualifierPoints := 15.0
	if qualifier != nil {
		qualifierPoints = qualifier.Appropriateness * 30
	}

	return quantity + warrantConfidence*30 + qualifierPoints
}

// enumerateIssues applies the fixed issue checks in order.
func enumerateIssues(claim model.Claim, grounds []model.Evidence, warrant model.Warrant, qualifier model.QualifierAnalysis) []model.Issue {
	var issues []model.Issue

	if len(grounds) == 0 {
		issues = append(issues, model.Issue{
			Type:        model.IssueNoEvidence,
			Severity:    model.SeverityCritical,
			Description: "No supporting evidence found in the notebook",
		})
	} else if len(grounds) < 2 {
		issues = append(issues, model.Issue{
			Type:        model.IssueWeakEvidence,
			Severity:    model.SeverityWarning,
			Description: "Only a single piece of supporting evidence",
		})
	}

	if qualifier.Missing {
		severity := model.SeverityWarning
		if qualifier.MissingImportance == model.GapCritical {
			severity = model.SeverityCritical
		}
		issues = append(issues, model.Issue{
			Type:        model.IssueMissingQualifier,
			Severity:    severity,
			Description: "Claim certainty is not matched by the strength of the evidence",
		})
	}

	if claim.Type == model.ClaimTypeCausal && warrant.Type == model.WarrantStatistical {
		hasRegression := false
		for _, ev := range grounds {
			if retrieve.HasRegressionStatistic(ev.Statistics) {
				hasRegression = true
				break
			}
		}
		if !hasRegression {
			issues = append(issues, model.Issue{
				Type:        model.IssueCausationCorrelation,
				Severity:    model.SeverityWarning,
				Description: "Causal claim rests on statistics with no regression-type analysis behind them",
			})
		}
	}

	return issues
}

// enumerateGaps derives what analysis the notebook is missing for this
// claim. A gap with CanBeResolved=false signals the claim cannot be
// rescued by more analysis.
func enumerateGaps(claim model.Claim, grounds []model.Evidence) []model.EvidenceGap {
	var gaps []model.EvidenceGap

	if len(grounds) == 0 {
		concepts := claimConcepts(claim.Text)
		if claim.Type == model.ClaimTypePredictive {
			// Future outcomes have no notebook analysis that could settle them.
			gaps = append(gaps, model.EvidenceGap{
				ID:              uuid.NewString(),
				Type:            "unverifiable-prediction",
				Description:     "Predictive claim has no supporting analysis, and none could confirm a future outcome",
				MissingConcepts: concepts,
				Importance:      model.GapCritical,
				CanBeResolved:   false,
			})
		} else {
			gaps = append(gaps, model.EvidenceGap{
				ID:              uuid.NewString(),
				Type:            "missing-analysis",
				Description:     "No notebook analysis touches the concepts in this claim",
				MissingConcepts: concepts,
				Importance:      model.GapCritical,
				SuggestedQuery:  suggestedQuery(concepts),
				CanBeResolved:   true,
			})
		}
		return gaps
	}

	if claim.Type == model.ClaimTypeCausal {
		hasRegression := false
		for _, ev := range grounds {
			if retrieve.HasRegressionStatistic(ev.Statistics) {
				hasRegression = true
				break
			}
		}
		if !hasRegression {
			concepts := claimConcepts(claim.Text)
			gaps = append(gaps, model.EvidenceGap{
				ID:              uuid.NewString(),
				Type:            "causal-support",
				Description:     "No regression or controlled analysis backs the causal link",
				MissingConcepts: concepts,
				Importance:      model.GapImportant,
				SuggestedQuery:  "Run a regression of " + strings.Join(firstN(concepts, 2), " on "),
				CanBeResolved:   true,
			})
		}
	}

	if model.MeanStrength(grounds) < 0.6 {
		gaps = append(gaps, model.EvidenceGap{
			ID:             uuid.NewString(),
			Type:           "weak-support",
			Description:    "Supporting evidence is raw cell output; a curated insight would be stronger",
			Importance:     model.GapOptional,
			SuggestedQuery: suggestedQuery(claimConcepts(claim.Text)),
			CanBeResolved:  true,
		})
	}

	return gaps
}

// mergeVerdict folds the judge's output into the locally built diagram.
// Grounds and warrant stay local; the judge contributes the action, its
// reasoning, and any issues or gaps the heuristics missed.
func mergeVerdict(diagram *model.ToulminDiagram, verdict model.Verdict) {
	diagram.Action = verdict.Action
	diagram.ActionReasoning = verdict.ActionReasoning

	seen := make(map[model.IssueType]struct{}, len(diagram.Issues))
	for _, i := range diagram.Issues {
		seen[i.Type] = struct{}{}
	}
	for _, i := range verdict.Issues {
		if _, dup := seen[i.Type]; dup {
			continue
		}
		seen[i.Type] = struct{}{}
		diagram.Issues = append(diagram.Issues, i)
	}

	for _, g := range verdict.Gaps {
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		diagram.Gaps = append(diagram.Gaps, g)
	}

	if verdict.Warrant != "" {
		diagram.Backing = append(diagram.Backing, verdict.Warrant)
	}
}

// heuristicAction derives the recommended action when no judge is
// configured.
func heuristicAction(d model.ToulminDiagram) model.RecommendedAction {
	if d.Strength == model.StrengthStrong {
		return model.ActionClaimIsFine
	}
	for _, i := range d.Issues {
		if i.Severity == model.SeverityCritical {
			return model.ActionClaimNeedsChange
		}
	}
	if len(d.Gaps) > 0 {
		return model.ActionClaimMightNeedChange
	}
	if len(d.Issues) > 0 {
		return model.ActionClaimNeedsChange
	}
	return model.ActionClaimIsFine
}

func heuristicReasoning(d model.ToulminDiagram) string {
	switch d.Action {
	case model.ActionClaimIsFine:
		return fmt.Sprintf("Argument scores %.0f/100 with no blocking issues", d.OverallScore)
	case model.ActionClaimNeedsChange:
		return fmt.Sprintf("Argument scores %.0f/100 with %d issue(s) to address", d.OverallScore, len(d.Issues))
	default:
		return fmt.Sprintf("Argument scores %.0f/100; %d evidence gap(s) could settle it", d.OverallScore, len(d.Gaps))
	}
}

// claimConcepts extracts the content words of a claim for gap descriptions
// and suggested queries.
func claimConcepts(text string) []string {
	var out []string
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(raw, ".,;:!?\"'()")
		if len(word) > 3 {
			out = append(out, word)
		}
	}
	return out
}

func suggestedQuery(concepts []string) string {
	if len(concepts) == 0 {
		return "Explore the data behind this claim"
	}
	return "Analyze the relationship between " + strings.Join(firstN(concepts, 3), ", ")
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// containsWord reports whether word occurs in s at word boundaries.
func containsWord(s, word string) bool {
	for idx := 0; idx < len(s); {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordByte(s[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}
