package retrieve

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ebarkova/lede/internal/model"
)

const (
	// insightStrength is fixed for user-curated insights.
	insightStrength = 0.8
	// cellOutputStrength is fixed for raw cell outputs.
	cellOutputStrength = 0.6
	// bigramWeight scales the bigram-overlap contribution to relevance.
	bigramWeight = 0.2
)

// Retriever scans notebook content and scores each item's relevance to a
// claim. Scoring is lexical and transparent; no external calls are made.
type Retriever struct {
	maxItems int
	floor    float64
	logger   *zap.Logger
}

// NewRetriever creates an evidence retriever. maxItems caps the returned
// evidence list; items scoring at or below floor are discarded.
func NewRetriever(maxItems int, floor float64, logger *zap.Logger) *Retriever {
	if maxItems <= 0 {
		maxItems = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{maxItems: maxItems, floor: floor, logger: logger}
}

// FindEvidence scores every insight and cell output against the claim text.
// The result is sorted descending by relevance and truncated to maxItems.
func (r *Retriever) FindEvidence(claim model.Claim, nb model.NotebookSnapshot) []model.Evidence {
	terms := significantTerms(claim.Text)
	now := time.Now().UTC()

	var out []model.Evidence
	for _, ins := range nb.Insights {
		ev, ok := r.score(claim, terms, ins.Content, ins.ID, model.EvidenceTypeInsight,
			insightStrength, ins.HypothesisTags, ins.CreatedAt, now)
		if ok {
			out = append(out, ev)
		}
	}
	for _, cell := range nb.Cells {
		if cell.Output == nil || strings.TrimSpace(cell.Output.Text) == "" {
			continue
		}
		ev, ok := r.score(claim, terms, cell.Output.Text, cell.ID, model.EvidenceTypeCellOutput,
			cellOutputStrength, cell.HypothesisTags, cell.ExecutedAt, now)
		if ok {
			out = append(out, ev)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	if len(out) > r.maxItems {
		out = out[:r.maxItems]
	}

	r.logger.Debug("evidence retrieved",
		zap.String("claim_id", claim.ID),
		zap.Int("items", len(out)),
	)
	return out
}

// score builds one evidence item, or reports false when relevance falls at
// or below the floor.
func (r *Retriever) score(claim model.Claim, terms []string, content, sourceID string,
	sourceType model.EvidenceType, strength float64, tags []string,
	createdAt, now time.Time) (model.Evidence, bool) {

	relevance := Relevance(claim.Text, terms, content)
	if relevance <= r.floor {
		return model.Evidence{}, false
	}

	recency := recencyScore(createdAt, now)
	return model.Evidence{
		ID:              uuid.NewString(),
		SourceID:        sourceID,
		SourceType:      sourceType,
		Content:         content,
		RelevanceScore:  relevance,
		StrengthScore:   strength,
		RecencyScore:    recency,
		ConfidenceScore: (relevance + strength) / 2,
		HypothesisTags:  tags,
		Statistics:      ExtractStatistics(content),
	}, true
}

// Relevance computes the lexical relevance of content to a claim:
// matched-term fraction plus a weighted bigram-overlap count, clamped to 1.
// Exact substring containment of the claim short-circuits to 1.
func Relevance(claimText string, terms []string, content string) float64 {
	contentLower := strings.ToLower(content)
	claimLower := strings.ToLower(strings.TrimSpace(claimText))

	if claimLower != "" && strings.Contains(contentLower, claimLower) {
		return 1.0
	}
	if len(terms) == 0 {
		return 0
	}

	matched := 0
	for _, t := range terms {
		if strings.Contains(contentLower, t) {
			matched++
		}
	}
	score := float64(matched)/float64(len(terms)) + bigramWeight*float64(bigramOverlap(terms, contentLower))

	if score > 1 {
		return 1
	}
	return score
}

// bigramOverlap counts adjacent term pairs from the claim that appear
// adjacently in the content.
func bigramOverlap(terms []string, contentLower string) int {
	n := 0
	for i := 0; i+1 < len(terms); i++ {
		if strings.Contains(contentLower, terms[i]+" "+terms[i+1]) {
			n++
		}
	}
	return n
}

// significantTerms lowercases and strips punctuation, keeping words longer
// than three characters.
func significantTerms(text string) []string {
	var terms []string
	for _, raw := range strings.Fields(text) {
		word := strings.ToLower(strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if len(word) > 3 {
			terms = append(terms, word)
		}
	}
	return terms
}

// recencyScore decays exponentially with age: e^(-ageHours/24).
// Unknown timestamps score a neutral 0.5.
func recencyScore(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0.5
	}
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return math.Exp(-ageHours / 24)
}
