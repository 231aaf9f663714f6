package monitor

import (
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/ebarkova/lede/internal/model"
)

// DefaultSection is the heading assumed before the first explicit one.
const DefaultSection = "Introduction"

// recentWordLimit bounds how many tokens before the cursor are retained.
const recentWordLimit = 200

// changeThreshold is the Jaccard overlap below which the writing context is
// considered to have changed enough to recompute downstream results.
const changeThreshold = 0.5

// Monitor derives the user's current writing context from the cursor
// position. Context is ephemeral: recomputed on every cursor move, no
// history kept.
type Monitor struct {
	stopwords map[string]struct{}
	logger    *zap.Logger
}

// NewMonitor creates a context monitor.
func NewMonitor(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		stopwords: buildStopwords(),
		logger:    logger,
	}
}

// Snapshot computes the writing context at the given cursor position.
// An out-of-range cursor is clamped rather than rejected.
func (m *Monitor) Snapshot(text string, cursor int, activeHypothesis string) model.WritingContext {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}

	paragraph := currentParagraph(text, cursor)
	ctx := model.WritingContext{
		CurrentParagraph: paragraph,
		CurrentSection:   currentSection(text, cursor),
		RecentWords:      recentWords(text, cursor),
		DominantConcepts: m.dominantConcepts(paragraph),
		ActiveHypothesis: activeHypothesis,
		UpdatedAt:        time.Now().UTC(),
	}

	m.logger.Debug("writing context refreshed",
		zap.String("section", ctx.CurrentSection),
		zap.Int("concepts", len(ctx.DominantConcepts)),
	)
	return ctx
}

// HasContextChanged compares dominant-concept sets of two contexts using
// Jaccard overlap. Returns true when overlap drops below the threshold,
// gating expensive downstream recomputation.
func (m *Monitor) HasContextChanged(prev, next model.WritingContext) bool {
	if len(prev.DominantConcepts) == 0 && len(next.DominantConcepts) == 0 {
		return false
	}
	if len(prev.DominantConcepts) == 0 || len(next.DominantConcepts) == 0 {
		return true
	}

	prevSet := make(map[string]struct{}, len(prev.DominantConcepts))
	for _, c := range prev.DominantConcepts {
		prevSet[c] = struct{}{}
	}
	union := len(prevSet)
	intersection := 0
	for _, c := range next.DominantConcepts {
		if _, ok := prevSet[c]; ok {
			intersection++
		} else {
			union++
		}
	}

	overlap := float64(intersection) / float64(union)
	return overlap < changeThreshold
}

// currentParagraph returns the paragraph bounded by the nearest blank lines
// around the cursor.
func currentParagraph(text string, cursor int) string {
	start := strings.LastIndex(text[:cursor], "\n\n")
	if start < 0 {
		start = 0
	} else {
		start += 2
	}
	end := strings.Index(text[cursor:], "\n\n")
	if end < 0 {
		end = len(text)
	} else {
		end += cursor
	}
	return strings.TrimSpace(text[start:end])
}

// currentSection finds the nearest preceding heading line: a markdown
// "#"-prefixed line or an all-caps line.
func currentSection(text string, cursor int) string {
	lines := strings.Split(text[:cursor], "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "# "))
		}
		if isAllCaps(line) {
			return line
		}
	}
	return DefaultSection
}

// isAllCaps reports whether a line is entirely uppercase letters (plus
// spaces/digits/punctuation) and contains at least one letter.
func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter && len(line) >= 3
}

// recentWords returns the last tokens preceding the cursor, capped at
// recentWordLimit.
func recentWords(text string, cursor int) []string {
	fields := strings.Fields(text[:cursor])
	if len(fields) > recentWordLimit {
		fields = fields[len(fields)-recentWordLimit:]
	}
	return fields
}

// dominantConcepts extracts stop-word-filtered terms longer than three
// characters, deduplicated, in first-occurrence order.
func (m *Monitor) dominantConcepts(paragraph string) []string {
	seen := make(map[string]struct{})
	var concepts []string
	for _, raw := range strings.Fields(paragraph) {
		word := strings.ToLower(strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if len(word) <= 3 {
			continue
		}
		if _, stop := m.stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		concepts = append(concepts, word)
	}
	return concepts
}

func buildStopwords() map[string]struct{} {
	words := []string{
		"this", "that", "these", "those", "with", "from", "have", "has",
		"been", "were", "will", "would", "could", "should", "about",
		"which", "their", "there", "where", "when", "what", "while",
		"because", "through", "between", "after", "before", "during",
		"into", "over", "under", "more", "most", "less", "least", "some",
		"such", "than", "then", "them", "they", "also", "only", "very",
		"just", "like", "each", "other", "another", "against", "being",
		"does", "doing", "itself", "your", "ours",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
