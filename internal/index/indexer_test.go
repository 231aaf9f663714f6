package index

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ebarkova/lede/internal/model"
)

// stubEmbed maps known content to fixed vectors.
func stubEmbed(vectors map[string][]float32) EmbedFn {
	return func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return []float32{0.1, 0.1, 0.1}, nil
	}
}

func testNotebook() model.NotebookSnapshot {
	return model.NotebookSnapshot{
		Hypotheses: []model.Hypothesis{
			{ID: "hyp-1", Content: "Tariffs reduce farm income"},
		},
		Insights: []model.Insight{
			{ID: "ins-1", Content: "Income fell 23% in exposed counties", HypothesisTags: []string{"hyp-1"}},
		},
		Cells: []model.Cell{
			{ID: "cell-1", Query: "income by county", Output: &model.CellOutput{Text: "mean decline 23%"}},
			{ID: "cell-2", Query: "never ran"},
		},
	}
}

func TestRebuild_IndexesAllContentTypes(t *testing.T) {
	ix := NewIndexer(nil)
	if ix.Built() {
		t.Fatal("Index should not be built before first rebuild")
	}

	if err := ix.Rebuild(context.Background(), testNotebook(), stubEmbed(nil)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ix.Built() {
		t.Error("Expected index to be built")
	}
	// hypothesis + insight + one executed cell; cell-2 has no output
	if ix.Size() != 3 {
		t.Errorf("Expected 3 entries, got %d", ix.Size())
	}
}

func TestRebuild_Idempotent(t *testing.T) {
	ix := NewIndexer(nil)
	nb := testNotebook()

	if err := ix.Rebuild(context.Background(), nb, stubEmbed(nil)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	first := ix.Size()
	if err := ix.Rebuild(context.Background(), nb, stubEmbed(nil)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ix.Size() != first {
		t.Errorf("Rebuild changed size from %d to %d on identical input", first, ix.Size())
	}
}

func TestRebuild_EmbeddingFailureSkipsEntry(t *testing.T) {
	ix := NewIndexer(nil)
	calls := 0
	embed := func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("provider down")
		}
		return []float32{1, 0, 0}, nil
	}

	if err := ix.Rebuild(context.Background(), testNotebook(), embed); err != nil {
		t.Fatalf("Embedding failure must not fail the rebuild, got %v", err)
	}
	if ix.Size() != 2 {
		t.Errorf("Expected failed entry skipped, got %d entries", ix.Size())
	}
}

func TestSearch_UnbuiltIndexReturnsNothing(t *testing.T) {
	ix := NewIndexer(nil)
	got, err := ix.Search([]float32{1, 0, 0}, 5, Filters{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no results, got %d", len(got))
	}
}

func TestSearch_TopKLargerThanIndex(t *testing.T) {
	ix := NewIndexer(nil)
	if err := ix.Rebuild(context.Background(), testNotebook(), stubEmbed(nil)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := ix.Search([]float32{0.1, 0.1, 0.1}, 5, Filters{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) > 3 {
		t.Errorf("Expected at most 3 results, got %d", len(got))
	}
}

func TestSearch_SortedAndFiltered(t *testing.T) {
	ix := NewIndexer(nil)
	vectors := map[string][]float32{
		"Tariffs reduce farm income":          {1, 0, 0},
		"Income fell 23% in exposed counties": {0.9, 0.1, 0},
		"income by county\nmean decline 23%":  {0, 1, 0},
	}
	if err := ix.Rebuild(context.Background(), testNotebook(), stubEmbed(vectors)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := ix.Search([]float32{1, 0, 0}, 10, Filters{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Errorf("Results not sorted descending at %d", i)
		}
	}
	if got[0].Entry.ID != "hyp-1" {
		t.Errorf("Expected exact-direction match first, got %s", got[0].Entry.ID)
	}

	byHyp, err := ix.Search([]float32{1, 0, 0}, 10, Filters{Hypothesis: "hyp-1"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(byHyp) != 2 {
		t.Errorf("Expected 2 hypothesis-tagged results, got %d", len(byHyp))
	}

	cellsOnly, err := ix.Search([]float32{1, 0, 0}, 10, Filters{Types: []model.EntryType{model.EntryCell}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cellsOnly) != 1 || cellsOnly[0].Entry.Type != model.EntryCell {
		t.Errorf("Expected only the cell entry, got %d results", len(cellsOnly))
	}
}

func TestCosine(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{3, 2, 1}

	ab, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ba, err := Cosine(b, a)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ab != ba {
		t.Errorf("Expected symmetry, got %v and %v", ab, ba)
	}
	if ab < -1 || ab > 1 {
		t.Errorf("Similarity out of bounds: %v", ab)
	}

	aa, err := Cosine(a, a)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(aa-1) > 1e-9 {
		t.Errorf("Expected self-similarity 1, got %v", aa)
	}
}

func TestCosine_ZeroMagnitude(t *testing.T) {
	got, err := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != 0 {
		t.Errorf("Expected 0 for zero-magnitude vector, got %v", got)
	}
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
}
