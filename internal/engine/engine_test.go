package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ebarkova/lede/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Engine.DetectionDebounce = 20 * time.Millisecond
	cfg.Engine.RemembranceDebounce = 20 * time.Millisecond
	cfg.Engine.JudgeRatePerSecond = 1000
	cfg.Engine.JudgeBurst = 1000
	return cfg
}

const articleText = "Tariffs definitely harm farmers. Export volumes are higher than last year."

func testSnapshot() model.NotebookSnapshot {
	return model.NotebookSnapshot{
		Insights: []model.Insight{
			{ID: "ins-1", Content: "Income for farmers fell 23% after the tariffs took effect."},
		},
	}
}

// countingJudge counts calls and can fail on demand.
type countingJudge struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (j *countingJudge) EvaluateClaim(ctx context.Context, claim model.Claim, nb model.NotebookSnapshot) (model.Verdict, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	if j.fail {
		return model.Verdict{}, errors.New("judge unavailable")
	}
	return model.Verdict{Action: model.ActionClaimIsFine, ActionReasoning: "fine"}, nil
}

func (j *countingJudge) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.calls
}

func TestAnalyze_HeuristicsOnly(t *testing.T) {
	e := NewEngine(testConfig(), nil, nil, nil)
	defer e.Close()

	report := e.Analyze(context.Background(), articleText, testSnapshot())

	if len(report.Claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(report.Claims))
	}
	if len(report.Diagrams) != 2 {
		t.Fatalf("Expected 2 diagrams, got %d", len(report.Diagrams))
	}
	if len(report.Failures) != 0 {
		t.Errorf("Expected no failures, got %v", report.Failures)
	}
	for _, c := range report.Claims {
		if c.Status != model.ClaimStatusEvaluated {
			t.Errorf("Claim %s not marked evaluated: %s", c.ID, c.Status)
		}
	}
	if report.NotebookHash == "" {
		t.Error("Expected notebook hash in report")
	}
	if len(report.Suggestions) == 0 {
		t.Error("Expected suggestions for the overconfident causal claim")
	}
	if got := e.Suggestions(); len(got) != len(report.Suggestions) {
		t.Errorf("Session suggestions out of sync: %d vs %d", len(got), len(report.Suggestions))
	}
}

func TestAnalyze_SuggestionIDsStableWhileNotebookUnchanged(t *testing.T) {
	e := NewEngine(testConfig(), nil, nil, nil)
	defer e.Close()

	first := e.Analyze(context.Background(), articleText, testSnapshot())
	second := e.Analyze(context.Background(), articleText, testSnapshot())

	if len(first.Suggestions) == 0 {
		t.Fatal("Expected suggestions")
	}
	if len(second.Suggestions) != len(first.Suggestions) {
		t.Fatalf("Suggestion count changed: %d vs %d", len(first.Suggestions), len(second.Suggestions))
	}
	for i := range first.Suggestions {
		if second.Suggestions[i].ID != first.Suggestions[i].ID {
			t.Errorf("Suggestion %d regenerated with a new ID: %s vs %s",
				i, first.Suggestions[i].ID, second.Suggestions[i].ID)
		}
	}
	// Reused suggestions still point at the current claim IDs.
	claimIDs := make(map[string]bool)
	for _, c := range second.Claims {
		claimIDs[c.ID] = true
	}
	for _, s := range second.Suggestions {
		if !claimIDs[s.ClaimID] {
			t.Errorf("Suggestion %s bound to stale claim %s", s.ID, s.ClaimID)
		}
	}

	// A notebook change regenerates the suggestion set.
	nb := testSnapshot()
	nb.Insights = append(nb.Insights, model.Insight{ID: "ins-2", Content: "Export volumes rose 4%."})
	third := e.Analyze(context.Background(), articleText, nb)

	stale := make(map[string]bool)
	for _, s := range first.Suggestions {
		stale[s.ID] = true
	}
	for _, s := range third.Suggestions {
		if stale[s.ID] {
			t.Errorf("Suggestion %s survived a notebook change", s.ID)
		}
	}
}

func TestAnalyze_JudgeFailureIsolatedPerClaim(t *testing.T) {
	judge := &countingJudge{fail: true}
	e := NewEngine(testConfig(), judge, nil, nil)
	defer e.Close()

	report := e.Analyze(context.Background(), articleText, testSnapshot())

	if len(report.Failures) != 2 {
		t.Fatalf("Expected both claims to record failures, got %d", len(report.Failures))
	}
	if len(report.Diagrams) != 0 {
		t.Errorf("Expected no diagrams on judge failure, got %d", len(report.Diagrams))
	}
	// The batch itself never aborts.
	if len(report.Claims) != 2 {
		t.Errorf("Expected claims still reported, got %d", len(report.Claims))
	}
	for _, f := range report.Failures {
		if !strings.Contains(f.Error, "judge") {
			t.Errorf("Expected judge error recorded, got %q", f.Error)
		}
	}
}

func TestEvaluateClaim_CachedWhileNotebookUnchanged(t *testing.T) {
	judge := &countingJudge{}
	e := NewEngine(testConfig(), judge, nil, nil)
	defer e.Close()

	nb := testSnapshot()
	claims := e.DetectClaims(articleText)
	if len(claims) == 0 {
		t.Fatal("Expected claims")
	}

	if _, err := e.EvaluateClaim(context.Background(), claims[0], nb); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := e.EvaluateClaim(context.Background(), claims[0], nb); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if judge.count() != 1 {
		t.Errorf("Expected cached diagram to skip the judge, got %d calls", judge.count())
	}

	// Changing the notebook invalidates the cache.
	nb.Insights = append(nb.Insights, model.Insight{ID: "ins-2", Content: "Export volumes rose 4%."})
	if _, err := e.EvaluateClaim(context.Background(), claims[0], nb); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if judge.count() != 2 {
		t.Errorf("Expected re-evaluation after notebook change, got %d calls", judge.count())
	}
}

func TestOnTextChanged_DebouncedAndSuperseded(t *testing.T) {
	e := NewEngine(testConfig(), nil, nil, nil)
	defer e.Close()

	e.OnTextChanged("Tariffs definitely harm farmers.")
	e.OnTextChanged("Subsidies definitely help exporters.")

	time.Sleep(100 * time.Millisecond)

	claims := e.Claims()
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim from the final text, got %d", len(claims))
	}
	if !strings.Contains(claims[0].Text, "Subsidies") {
		t.Errorf("Expected claims from the latest text, got %q", claims[0].Text)
	}
}

func TestOnCursorMoved_DebouncedLookup(t *testing.T) {
	e := NewEngine(testConfig(), nil, func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}, nil)
	defer e.Close()

	var mu sync.Mutex
	fired := 0
	cb := func(got []model.RelevantAnalysis) {
		mu.Lock()
		fired++
		mu.Unlock()
	}

	text := "Tariffs are squeezing farm incomes."
	e.OnCursorMoved(context.Background(), text, 5, "", testSnapshot(), cb)
	e.OnCursorMoved(context.Background(), text, 10, "", testSnapshot(), cb)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Errorf("Expected exactly one debounced lookup, got %d", fired)
	}
}

func TestGenerateModifications(t *testing.T) {
	e := NewEngine(testConfig(), nil, nil, nil)
	defer e.Close()

	got := e.GenerateModifications(model.ModificationWeaken,
		"Tariffs definitely harm farmers.", model.ToulminDiagram{ClaimID: "c1"})
	if len(got) == 0 {
		t.Fatal("Expected candidates")
	}
	for _, c := range got {
		if strings.Contains(c.Text, "definitely") {
			t.Errorf("Candidate still contains absolute word: %q", c.Text)
		}
	}
}

func TestRelevantAnalyses_NilEmbedderDegrades(t *testing.T) {
	e := NewEngine(testConfig(), nil, nil, nil)
	defer e.Close()

	got := e.RelevantAnalyses(context.Background(),
		"Tariffs are squeezing farm incomes.", 5, "", testSnapshot())
	if len(got) != 0 {
		t.Errorf("Expected no results without an embedder, got %d", len(got))
	}
}

func TestReindex(t *testing.T) {
	e := NewEngine(testConfig(), nil, func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}, nil)
	defer e.Close()

	if err := e.Reindex(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}
