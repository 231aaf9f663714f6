// Package index provides the in-memory semantic index over notebook
// content: hypotheses, insights, and executed analysis cells.
package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ebarkova/lede/internal/model"
)

// ErrDimensionMismatch reports vectors of unequal length handed to the
// similarity computation.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// EmbedFn produces an embedding for a piece of text. Implementations live
// in the llm package; the indexer only needs the function.
type EmbedFn func(ctx context.Context, text string) ([]float32, error)

// Filters narrows a search to entries tagged with a hypothesis and/or of
// certain types. Zero value matches everything.
type Filters struct {
	Hypothesis string
	Types      []model.EntryType
}

// SearchResult pairs an index entry with its similarity to the query.
type SearchResult struct {
	Entry      model.IndexEntry
	Similarity float64
}

// snapshot is one fully built index generation. Entries are never mutated
// after the snapshot is published.
type snapshot struct {
	entries []model.IndexEntry
	hash    string
}

// Indexer rebuilds wholesale and publishes each generation with a single
// pointer swap, so readers see either the old index or the new one, never
// a half-built state.
type Indexer struct {
	current atomic.Pointer[snapshot]
	logger  *zap.Logger
}

func NewIndexer(logger *zap.Logger) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{logger: logger}
}

// Built reports whether at least one rebuild has been published.
func (ix *Indexer) Built() bool {
	return ix.current.Load() != nil
}

// Size returns the entry count of the published generation.
func (ix *Indexer) Size() int {
	snap := ix.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}

// Rebuild embeds every hypothesis, insight, and executed cell in the
// snapshot and swaps the result in as the new generation. Items whose
// embedding fails are skipped; the rebuild itself never fails on a
// provider outage, it just publishes what it could embed.
func (ix *Indexer) Rebuild(ctx context.Context, nb model.NotebookSnapshot, embed EmbedFn) error {
	hash := nb.ContentHash()
	if prev := ix.current.Load(); prev != nil && prev.hash == hash {
		ix.logger.Debug("index rebuild skipped, notebook unchanged")
		return nil
	}

	var entries []model.IndexEntry
	skipped := 0

	add := func(id string, etype model.EntryType, content string, meta model.EntryMetadata) {
		if strings.TrimSpace(content) == "" {
			return
		}
		vec, err := embed(ctx, content)
		if err != nil || len(vec) == 0 {
			skipped++
			ix.logger.Warn("embedding failed, entry skipped",
				zap.String("entry_id", id),
				zap.Error(err),
			)
			return
		}
		entries = append(entries, model.IndexEntry{
			ID:        id,
			Type:      etype,
			Content:   content,
			Embedding: vec,
			Metadata:  meta,
		})
	}

	for _, h := range nb.Hypotheses {
		add(h.ID, model.EntryHypothesis, h.Content, model.EntryMetadata{
			HypothesisTags: []string{h.ID},
		})
	}
	for _, ins := range nb.Insights {
		add(ins.ID, model.EntryInsight, ins.Content, model.EntryMetadata{
			CellID:         ins.CellID,
			HypothesisTags: ins.HypothesisTags,
			Timestamp:      ins.CreatedAt,
		})
	}
	for _, cell := range nb.Cells {
		if cell.Output == nil || strings.TrimSpace(cell.Output.Text) == "" {
			continue
		}
		add(cell.ID, model.EntryCell, cell.Query+"\n"+cell.Output.Text, model.EntryMetadata{
			CellID:         cell.ID,
			HypothesisTags: cell.HypothesisTags,
			Timestamp:      cell.ExecutedAt,
		})
	}

	ix.current.Store(&snapshot{entries: entries, hash: hash})
	ix.logger.Info("semantic index rebuilt",
		zap.Int("entries", len(entries)),
		zap.Int("skipped", skipped),
	)
	return nil
}

// Search returns the topK entries most similar to the query embedding,
// after applying the filters. An index that has never been built yields no
// results. topK larger than the index is clamped, never an error.
func (ix *Indexer) Search(query []float32, topK int, f Filters) ([]SearchResult, error) {
	snap := ix.current.Load()
	if snap == nil || topK <= 0 || len(query) == 0 {
		return nil, nil
	}

	var results []SearchResult
	for _, entry := range snap.entries {
		if !f.matches(entry) {
			continue
		}
		sim, err := Cosine(query, entry.Embedding)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
		}
		results = append(results, SearchResult{Entry: entry, Similarity: sim})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (f Filters) matches(entry model.IndexEntry) bool {
	if f.Hypothesis != "" {
		found := false
		for _, tag := range entry.Metadata.HypothesisTags {
			if tag == f.Hypothesis {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if entry.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Cosine computes dot(a,b)/(|a|*|b|). Zero magnitude on either side gives
// 0; mismatched dimensions are an error.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
