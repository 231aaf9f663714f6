package modify

import (
	"strings"
	"testing"

	"github.com/ebarkova/lede/internal/model"
)

func TestWeakenClaim_ReplacesAbsoluteLanguage(t *testing.T) {
	m := NewModifier(nil)

	got := m.WeakenClaim("Tariffs definitely harm farmers.")
	if len(got) == 0 {
		t.Fatal("Expected candidates")
	}
	for i, c := range got {
		if strings.Contains(strings.ToLower(c.Text), "definitely") {
			t.Errorf("Candidate %d still contains the absolute word: %q", i, c.Text)
		}
		if c.Explanation == "" {
			t.Errorf("Candidate %d has no explanation", i)
		}
	}
	if got[0].Text != "Tariffs likely harm farmers." {
		t.Errorf("Expected first alternative, got %q", got[0].Text)
	}
}

func TestWeakenClaim_ReplacesAllMatchedWords(t *testing.T) {
	m := NewModifier(nil)

	got := m.WeakenClaim("Spending cuts always cause unemployment.")
	if len(got) == 0 {
		t.Fatal("Expected candidates")
	}
	for i, c := range got {
		lower := strings.ToLower(c.Text)
		if strings.Contains(lower, "always") {
			t.Errorf("Candidate %d still contains %q: %q", i, "always", c.Text)
		}
		if strings.Contains(lower, "cause unemployment") {
			t.Errorf("Candidate %d still contains the strong verb: %q", i, c.Text)
		}
	}
}

func TestWeakenClaim_HedgingFallback(t *testing.T) {
	m := NewModifier(nil)

	got := m.WeakenClaim("Rural incomes declined over the decade.")
	if len(got) == 0 {
		t.Fatal("Expected fallback candidates")
	}
	for i, c := range got {
		if !strings.Contains(c.Text, "Rural incomes declined") &&
			!strings.Contains(c.Text, "rural incomes declined") {
			t.Errorf("Candidate %d lost the claim text: %q", i, c.Text)
		}
	}
	if !strings.HasPrefix(got[0].Text, "It appears that ") {
		t.Errorf("Expected hedging prefix, got %q", got[0].Text)
	}
}

func TestAddCaveats(t *testing.T) {
	m := NewModifier(nil)

	got := m.AddCaveats("Tariffs harm farmers.")
	if len(got) != 4 {
		t.Fatalf("Expected 4 candidates, got %d", len(got))
	}

	wantPrefixes := []string{
		"Based on the available data, ",
		"In this analysis, ",
		"Preliminary analysis suggests that ",
		"Some ",
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(got[i].Text, prefix) {
			t.Errorf("Candidate %d: expected prefix %q, got %q", i, prefix, got[i].Text)
		}
	}
	if got[3].Text != "Some tariffs harm farmers." {
		t.Errorf("Expected quantifier insertion, got %q", got[3].Text)
	}
}

func TestAddCaveats_ExistingQuantifierSuppressesSome(t *testing.T) {
	m := NewModifier(nil)

	got := m.AddCaveats("Most tariffs harm farmers.")
	for _, c := range got {
		if strings.HasPrefix(c.Text, "Some ") {
			t.Errorf("Did not expect quantifier insertion, got %q", c.Text)
		}
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 candidates, got %d", len(got))
	}
}

func TestReverseOrRemove_WithContradiction(t *testing.T) {
	m := NewModifier(nil)

	got := m.ReverseOrRemove("Tariffs harm farmers.", true)
	if len(got) == 0 {
		t.Fatal("Expected candidates")
	}
	if len(got) > 5 {
		t.Errorf("Expected at most 5 candidates, got %d", len(got))
	}

	if got[0].Text != "Tariffs benefits farmers." {
		t.Errorf("Expected polarity reversal first, got %q", got[0].Text)
	}

	hasNegation := false
	hasQuestion := false
	hasRemoval := false
	for _, c := range got {
		if strings.HasPrefix(c.Text, "It is not the case that ") {
			hasNegation = true
		}
		if strings.HasSuffix(c.Text, "?") {
			hasQuestion = true
		}
		if c.Text == "" && strings.Contains(c.Explanation, "Remove") {
			hasRemoval = true
		}
	}
	if !hasNegation {
		t.Error("Expected a negation candidate")
	}
	if !hasQuestion {
		t.Error("Expected a question reframe")
	}
	if !hasRemoval {
		t.Error("Expected an explicit removal candidate")
	}
}

func TestReverseOrRemove_WithoutContradiction(t *testing.T) {
	m := NewModifier(nil)

	got := m.ReverseOrRemove("Tariffs harm farmers.", false)
	if len(got) != 3 {
		t.Fatalf("Expected only the framing candidates, got %d", len(got))
	}
	for _, c := range got {
		if strings.Contains(c.Text, "benefit") {
			t.Errorf("Did not expect a reversal without contradicting evidence: %q", c.Text)
		}
	}
	if got[1].Text != "Tariffs harm farmers?" {
		t.Errorf("Expected question reframe, got %q", got[1].Text)
	}
}

func TestGenerate_Dispatch(t *testing.T) {
	m := NewModifier(nil)
	claim := model.Claim{ID: "c1", Text: "Tariffs definitely harm farmers."}
	diagram := model.ToulminDiagram{
		Issues: []model.Issue{{Type: model.IssueContradictsEvidence, Severity: model.SeverityCritical}},
	}

	tests := []struct {
		kind model.ModificationKind
		want string
	}{
		{model.ModificationWeaken, "likely"},
		{model.ModificationCaveat, "Based on the available data"},
		{model.ModificationReverse, "benefits"},
	}
	for _, tt := range tests {
		got := m.Generate(tt.kind, claim, diagram)
		if len(got) == 0 {
			t.Fatalf("%s: expected candidates", tt.kind)
		}
		found := false
		for _, c := range got {
			if strings.Contains(c.Text, tt.want) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: expected a candidate containing %q", tt.kind, tt.want)
		}
	}
}

func TestCandidatesAreRanked(t *testing.T) {
	m := NewModifier(nil)

	for _, got := range [][]model.ModificationCandidate{
		m.WeakenClaim("Tariffs definitely harm farmers."),
		m.AddCaveats("Tariffs harm farmers."),
		m.ReverseOrRemove("Tariffs increase prices.", true),
	} {
		for i := 1; i < len(got); i++ {
			if got[i].Confidence > got[i-1].Confidence {
				t.Errorf("Candidates not sorted by confidence: %v then %v",
					got[i-1].Confidence, got[i].Confidence)
			}
		}
	}
}
