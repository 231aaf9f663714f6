// Package remember surfaces notebook analyses relevant to what the user is
// currently writing, in the manner of a remembrance agent: context in,
// ranked prior work out.
package remember

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ebarkova/lede/internal/index"
	"github.com/ebarkova/lede/internal/model"
	"github.com/ebarkova/lede/internal/monitor"
)

const (
	defaultTopK = 5

	similarityWeight = 0.5
	alignmentWeight  = 0.3
	recencyWeight    = 0.2

	// hypothesis alignment levels
	alignedScore   = 1.0
	unalignedScore = 0.3
	noActiveScore  = 0.5

	snippetLimit = 160
)

// Agent couples the context monitor with the semantic index. All failures
// on the embedding path degrade to an empty result list; the caller never
// has to distinguish "provider down" from "nothing relevant".
type Agent struct {
	monitor *monitor.Monitor
	indexer *index.Indexer
	embed   index.EmbedFn
	topK    int
	logger  *zap.Logger
}

// NewAgent builds an agent returning at most topK analyses per lookup. A
// non-positive topK falls back to the default of 5.
func NewAgent(mon *monitor.Monitor, ix *index.Indexer, embed index.EmbedFn, topK int, logger *zap.Logger) *Agent {
	if topK <= 0 {
		topK = defaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{monitor: mon, indexer: ix, embed: embed, topK: topK, logger: logger}
}

// RelevantAnalyses computes the writing context at the cursor, searches the
// index with the current paragraph's embedding, and reranks the hits by the
// weighted overall score. The index is built lazily on first use.
func (a *Agent) RelevantAnalyses(ctx context.Context, text string, cursor int, activeHypothesis string, nb model.NotebookSnapshot) []model.RelevantAnalysis {
	wctx := a.monitor.Snapshot(text, cursor, activeHypothesis)
	if wctx.CurrentParagraph == "" {
		return nil
	}

	if !a.indexer.Built() {
		if err := a.indexer.Rebuild(ctx, nb, a.embed); err != nil {
			a.logger.Warn("lazy index build failed", zap.Error(err))
			return nil
		}
	}

	query, err := a.embed(ctx, wctx.CurrentParagraph)
	if err != nil || len(query) == 0 {
		a.logger.Warn("paragraph embedding failed", zap.Error(err))
		return nil
	}

	hits, err := a.indexer.Search(query, a.topK, index.Filters{})
	if err != nil {
		a.logger.Warn("index search failed", zap.Error(err))
		return nil
	}

	now := time.Now().UTC()
	out := make([]model.RelevantAnalysis, 0, len(hits))
	for _, hit := range hits {
		alignment := hypothesisAlignment(activeHypothesis, hit.Entry.Metadata.HypothesisTags)
		recency := recencyScore(hit.Entry.Metadata.Timestamp, now)
		out = append(out, model.RelevantAnalysis{
			CellID:              hit.Entry.Metadata.CellID,
			Type:                hit.Entry.Type,
			Content:             hit.Entry.Content,
			Snippet:             snippet(hit.Entry.Content),
			RelevanceScore:      hit.Similarity,
			HypothesisAlignment: alignment,
			RecencyScore:        recency,
			OverallScore: similarityWeight*hit.Similarity +
				alignmentWeight*alignment +
				recencyWeight*recency,
			HypothesisTags: hit.Entry.Metadata.HypothesisTags,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallScore > out[j].OverallScore
	})

	a.logger.Debug("relevant analyses computed",
		zap.Int("results", len(out)),
		zap.String("section", wctx.CurrentSection),
	)
	return out
}

// Reindex forces a full rebuild regardless of lazy state.
func (a *Agent) Reindex(ctx context.Context, nb model.NotebookSnapshot) error {
	return a.indexer.Rebuild(ctx, nb, a.embed)
}

// hypothesisAlignment scores how the entry's tags relate to the hypothesis
// the user is actively exploring.
func hypothesisAlignment(active string, tags []string) float64 {
	if active == "" {
		return noActiveScore
	}
	for _, tag := range tags {
		if tag == active {
			return alignedScore
		}
	}
	return unalignedScore
}

// recencyScore decays exponentially with age, halving roughly every 17
// hours. Unknown timestamps score a neutral 0.5.
func recencyScore(ts, now time.Time) float64 {
	if ts.IsZero() {
		return 0.5
	}
	ageHours := now.Sub(ts).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return math.Exp(-ageHours / 24)
}

func snippet(content string) string {
	if len(content) <= snippetLimit {
		return content
	}
	return content[:snippetLimit] + "..."
}
