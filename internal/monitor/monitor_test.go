package monitor

import (
	"strings"
	"testing"

	"github.com/ebarkova/lede/internal/model"
)

const sampleDoc = `# Trade Policy

Tariffs changed farm incomes last year.

## Farm Impact

Soybean exports fell sharply. Corn prices held steady through autumn.

CLOSING NOTES

Final thoughts about the harvest season.`

func TestSnapshot_ParagraphAndSection(t *testing.T) {
	m := NewMonitor(nil)

	cursor := strings.Index(sampleDoc, "Corn prices")
	ctx := m.Snapshot(sampleDoc, cursor, "hyp-1")

	if !strings.Contains(ctx.CurrentParagraph, "Soybean exports fell sharply") {
		t.Errorf("Unexpected paragraph: %q", ctx.CurrentParagraph)
	}
	if ctx.CurrentSection != "Farm Impact" {
		t.Errorf("Expected section 'Farm Impact', got %q", ctx.CurrentSection)
	}
	if ctx.ActiveHypothesis != "hyp-1" {
		t.Errorf("Expected active hypothesis to be carried through, got %q", ctx.ActiveHypothesis)
	}
}

func TestSnapshot_AllCapsHeading(t *testing.T) {
	m := NewMonitor(nil)

	cursor := strings.Index(sampleDoc, "Final thoughts") + 5
	ctx := m.Snapshot(sampleDoc, cursor, "")
	if ctx.CurrentSection != "CLOSING NOTES" {
		t.Errorf("Expected all-caps heading, got %q", ctx.CurrentSection)
	}
}

func TestSnapshot_DefaultSection(t *testing.T) {
	m := NewMonitor(nil)

	ctx := m.Snapshot("Plain text with no headings anywhere in sight.", 10, "")
	if ctx.CurrentSection != DefaultSection {
		t.Errorf("Expected default section, got %q", ctx.CurrentSection)
	}
}

func TestSnapshot_DominantConcepts(t *testing.T) {
	m := NewMonitor(nil)

	text := "Tariffs harm tariffs and the farmers because farmers export soybeans."
	ctx := m.Snapshot(text, len(text), "")

	// Deduplicated, first-occurrence order, stop words and short words gone.
	want := []string{"tariffs", "harm", "farmers", "export", "soybeans"}
	if len(ctx.DominantConcepts) != len(want) {
		t.Fatalf("Expected %d concepts, got %v", len(want), ctx.DominantConcepts)
	}
	for i, w := range want {
		if ctx.DominantConcepts[i] != w {
			t.Errorf("Concept %d: expected %q, got %q", i, w, ctx.DominantConcepts[i])
		}
	}
}

func TestSnapshot_CursorClamped(t *testing.T) {
	m := NewMonitor(nil)

	for _, cursor := range []int{-5, 10_000} {
		ctx := m.Snapshot("Short text.", cursor, "")
		if ctx.UpdatedAt.IsZero() {
			t.Error("Expected UpdatedAt to be set")
		}
	}
}

func TestSnapshot_RecentWordsCapped(t *testing.T) {
	m := NewMonitor(nil)

	text := strings.Repeat("word ", 500)
	ctx := m.Snapshot(text, len(text), "")
	if len(ctx.RecentWords) != recentWordLimit {
		t.Errorf("Expected %d recent words, got %d", recentWordLimit, len(ctx.RecentWords))
	}
}

func TestHasContextChanged(t *testing.T) {
	m := NewMonitor(nil)

	tests := []struct {
		name string
		prev []string
		next []string
		want bool
	}{
		{"identical", []string{"tariffs", "farmers"}, []string{"tariffs", "farmers"}, false},
		{"disjoint", []string{"tariffs", "farmers"}, []string{"housing", "rents"}, true},
		{"both empty", nil, nil, false},
		{"one empty", []string{"tariffs"}, nil, true},
		{"high overlap", []string{"tariffs", "farmers", "exports"}, []string{"tariffs", "farmers", "exports", "corn"}, false},
		{"low overlap", []string{"tariffs", "farmers", "exports", "corn"}, []string{"tariffs", "housing", "rents", "zoning"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := model.WritingContext{DominantConcepts: tt.prev}
			next := model.WritingContext{DominantConcepts: tt.next}
			if got := m.HasContextChanged(prev, next); got != tt.want {
				t.Errorf("HasContextChanged = %v, want %v", got, tt.want)
			}
		})
	}
}
