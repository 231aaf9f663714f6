package toulmin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ebarkova/lede/internal/model"
)

// issueSuggestionTable maps each issue type to the suggestion it produces.
// The mapping is fixed; exhaustive coverage of IssueType is checked by
// tests rather than at compile time.
var issueSuggestionTable = map[model.IssueType]model.SuggestionType{
	model.IssueNoEvidence:           model.SuggestionAddAnalysis,
	model.IssueWeakEvidence:         model.SuggestionAddAnalysis,
	model.IssueMissingQualifier:     model.SuggestionAddQualifier,
	model.IssueCausationCorrelation: model.SuggestionWeakenClaim,
	model.IssueOverclaim:            model.SuggestionWeakenClaim,
	model.IssueContradictsEvidence:  model.SuggestionRemoveClaim,
	model.IssueUnsupportedWarrant:   model.SuggestionReviseClaim,
}

// severityPriority ranks issue-derived suggestions.
func severityPriority(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return 90
	case model.SeverityWarning:
		return 60
	default:
		return 30
	}
}

// BuildSuggestions runs the decision tree over an evaluated diagram and
// returns the writing suggestions for its claim, newest state `active`.
//
// claim-is-fine produces nothing. claim-needs-change produces one
// suggestion per issue via the fixed table. claim-might-need-change keys
// off the gaps: an unresolvable gap collapses to a single remove-claim
// suggestion, otherwise each resolvable gap becomes an add-analysis
// suggestion carrying its query.
func BuildSuggestions(claim model.Claim, diagram model.ToulminDiagram) []model.WritingSuggestion {
	switch diagram.Action {
	case model.ActionClaimIsFine:
		return nil

	case model.ActionClaimNeedsChange:
		var out []model.WritingSuggestion
		for _, issue := range diagram.Issues {
			stype, ok := issueSuggestionTable[issue.Type]
			if !ok {
				stype = model.SuggestionReviseClaim
			}
			out = append(out, model.WritingSuggestion{
				ID:          uuid.NewString(),
				ClaimID:     claim.ID,
				Type:        stype,
				Severity:    issue.Severity,
				Message:     suggestionMessage(stype, claim),
				Explanation: issue.Description,
				Position:    claim.Position,
				Priority:    severityPriority(issue.Severity),
				Status:      model.SuggestionActive,
			})
		}
		return out

	case model.ActionClaimMightNeedChange:
		for _, gap := range diagram.Gaps {
			if gap.CanBeResolved {
				continue
			}
			return []model.WritingSuggestion{{
				ID:          uuid.NewString(),
				ClaimID:     claim.ID,
				Type:        model.SuggestionRemoveClaim,
				Severity:    model.SeverityCritical,
				Message:     "Consider removing this claim",
				Explanation: gap.Description,
				Position:    claim.Position,
				Priority:    95,
				Status:      model.SuggestionActive,
			}}
		}

		var out []model.WritingSuggestion
		for _, gap := range diagram.Gaps {
			if gap.SuggestedQuery == "" {
				continue
			}
			priority := 70
			if gap.Importance == model.GapCritical {
				priority = 95
			}
			out = append(out, model.WritingSuggestion{
				ID:          uuid.NewString(),
				ClaimID:     claim.ID,
				Type:        model.SuggestionAddAnalysis,
				Severity:    gapSeverity(gap.Importance),
				Message:     gap.SuggestedQuery,
				Explanation: gap.Description,
				Position:    claim.Position,
				Priority:    priority,
				Status:      model.SuggestionActive,
			})
		}
		return out
	}
	return nil
}

func gapSeverity(imp model.GapImportance) model.Severity {
	switch imp {
	case model.GapCritical:
		return model.SeverityCritical
	case model.GapImportant:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}

func suggestionMessage(t model.SuggestionType, claim model.Claim) string {
	switch t {
	case model.SuggestionWeakenClaim:
		return "Soften the language of this claim"
	case model.SuggestionAddQualifier:
		return "Add a qualifier to limit the claim's scope"
	case model.SuggestionAddAnalysis:
		return "Run an analysis to support this claim"
	case model.SuggestionRemoveClaim:
		return "Consider removing this claim"
	default:
		return fmt.Sprintf("Revise this %s claim", claim.Type)
	}
}
