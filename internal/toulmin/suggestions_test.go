package toulmin

import (
	"testing"

	"github.com/ebarkova/lede/internal/model"
)

func suggestionClaim() model.Claim {
	return model.Claim{
		ID:   "claim-1",
		Text: "Tariffs definitely harm farmers.",
		Type: model.ClaimTypeCausal,
		Position: model.Position{
			From:           10,
			To:             42,
			ParagraphIndex: 1,
		},
	}
}

func TestBuildSuggestions_FineClaimProducesNothing(t *testing.T) {
	diagram := model.ToulminDiagram{
		Action: model.ActionClaimIsFine,
		Issues: []model.Issue{
			{Type: model.IssueWeakEvidence, Severity: model.SeverityWarning},
		},
	}
	if got := BuildSuggestions(suggestionClaim(), diagram); got != nil {
		t.Errorf("Expected no suggestions for a fine claim, got %d", len(got))
	}
}

func TestBuildSuggestions_OnePerIssue(t *testing.T) {
	diagram := model.ToulminDiagram{
		Action: model.ActionClaimNeedsChange,
		Issues: []model.Issue{
			{Type: model.IssueNoEvidence, Severity: model.SeverityCritical, Description: "nothing backs this"},
			{Type: model.IssueMissingQualifier, Severity: model.SeverityWarning, Description: "too certain"},
			{Type: model.IssueCausationCorrelation, Severity: model.SeverityInfo, Description: "correlation only"},
		},
	}
	claim := suggestionClaim()
	got := BuildSuggestions(claim, diagram)
	if len(got) != 3 {
		t.Fatalf("Expected 3 suggestions, got %d", len(got))
	}

	wantTypes := []model.SuggestionType{
		model.SuggestionAddAnalysis,
		model.SuggestionAddQualifier,
		model.SuggestionWeakenClaim,
	}
	wantPriorities := []int{90, 60, 30}
	for i, s := range got {
		if s.Type != wantTypes[i] {
			t.Errorf("Suggestion %d: expected type %s, got %s", i, wantTypes[i], s.Type)
		}
		if s.Priority != wantPriorities[i] {
			t.Errorf("Suggestion %d: expected priority %d, got %d", i, wantPriorities[i], s.Priority)
		}
		if s.ClaimID != claim.ID {
			t.Errorf("Suggestion %d: expected claim ID %s, got %s", i, claim.ID, s.ClaimID)
		}
		if s.Position != claim.Position {
			t.Errorf("Suggestion %d: position not carried over", i)
		}
		if s.Status != model.SuggestionActive {
			t.Errorf("Suggestion %d: expected active status, got %s", i, s.Status)
		}
		if s.ID == "" {
			t.Errorf("Suggestion %d: missing ID", i)
		}
	}
}

func TestBuildSuggestions_IssueTypeTableCoverage(t *testing.T) {
	tests := []struct {
		issue model.IssueType
		want  model.SuggestionType
	}{
		{model.IssueNoEvidence, model.SuggestionAddAnalysis},
		{model.IssueWeakEvidence, model.SuggestionAddAnalysis},
		{model.IssueMissingQualifier, model.SuggestionAddQualifier},
		{model.IssueCausationCorrelation, model.SuggestionWeakenClaim},
		{model.IssueOverclaim, model.SuggestionWeakenClaim},
		{model.IssueContradictsEvidence, model.SuggestionRemoveClaim},
		{model.IssueUnsupportedWarrant, model.SuggestionReviseClaim},
	}
	for _, tt := range tests {
		diagram := model.ToulminDiagram{
			Action: model.ActionClaimNeedsChange,
			Issues: []model.Issue{{Type: tt.issue, Severity: model.SeverityWarning}},
		}
		got := BuildSuggestions(suggestionClaim(), diagram)
		if len(got) != 1 {
			t.Fatalf("%s: expected 1 suggestion, got %d", tt.issue, len(got))
		}
		if got[0].Type != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.issue, tt.want, got[0].Type)
		}
	}
}

func TestBuildSuggestions_UnresolvableGapCollapsesToRemoval(t *testing.T) {
	diagram := model.ToulminDiagram{
		Action: model.ActionClaimMightNeedChange,
		Gaps: []model.EvidenceGap{
			{Type: "causal-support", Importance: model.GapImportant, SuggestedQuery: "Run a regression", CanBeResolved: true},
			{Type: "unverifiable-prediction", Description: "no analysis can settle a future outcome", CanBeResolved: false},
		},
	}
	got := BuildSuggestions(suggestionClaim(), diagram)
	if len(got) != 1 {
		t.Fatalf("Expected a single removal suggestion, got %d", len(got))
	}
	s := got[0]
	if s.Type != model.SuggestionRemoveClaim {
		t.Errorf("Expected remove-claim, got %s", s.Type)
	}
	if s.Priority != 95 {
		t.Errorf("Expected priority 95, got %d", s.Priority)
	}
	if s.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", s.Severity)
	}
	if s.Explanation != "no analysis can settle a future outcome" {
		t.Errorf("Expected gap description as explanation, got %q", s.Explanation)
	}
}

func TestBuildSuggestions_ResolvableGapsBecomeAnalyses(t *testing.T) {
	diagram := model.ToulminDiagram{
		Action: model.ActionClaimMightNeedChange,
		Gaps: []model.EvidenceGap{
			{Type: "missing-analysis", Importance: model.GapCritical, SuggestedQuery: "Analyze tariffs against income", CanBeResolved: true},
			{Type: "weak-support", Importance: model.GapOptional, SuggestedQuery: "Curate an insight from the output", CanBeResolved: true},
			{Type: "no-query", Importance: model.GapImportant, CanBeResolved: true},
		},
	}
	got := BuildSuggestions(suggestionClaim(), diagram)
	if len(got) != 2 {
		t.Fatalf("Expected 2 suggestions (gap without query skipped), got %d", len(got))
	}

	if got[0].Type != model.SuggestionAddAnalysis || got[1].Type != model.SuggestionAddAnalysis {
		t.Error("Expected add-analysis suggestions for resolvable gaps")
	}
	if got[0].Priority != 95 {
		t.Errorf("Critical gap: expected priority 95, got %d", got[0].Priority)
	}
	if got[0].Message != "Analyze tariffs against income" {
		t.Errorf("Expected suggested query as message, got %q", got[0].Message)
	}
	if got[1].Priority != 70 {
		t.Errorf("Non-critical gap: expected priority 70, got %d", got[1].Priority)
	}
	if got[1].Severity != model.SeverityInfo {
		t.Errorf("Optional gap: expected info severity, got %s", got[1].Severity)
	}
}

func TestBuildSuggestions_MightNeedChangeWithoutGaps(t *testing.T) {
	diagram := model.ToulminDiagram{Action: model.ActionClaimMightNeedChange}
	if got := BuildSuggestions(suggestionClaim(), diagram); got != nil {
		t.Errorf("Expected no suggestions without gaps, got %d", len(got))
	}
}
