package detect

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ebarkova/lede/internal/model"
)

// Detector flags assertion-like sentences in freeform prose.
// Detection is purely heuristic and never fails: malformed or empty input
// yields an empty claim list.
type Detector struct {
	causal      []string
	comparative []string
	predictive  []string
	absolutes   []string
	hedges      []string
	logger      *zap.Logger
}

// NewDetector creates a claim detector with the built-in lexicons.
func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		causal: []string{
			"causes", "cause", "caused", "leads to", "led to", "results in",
			"resulted in", "because of", "due to", "drives", "driven by",
			"harm", "harms", "hurts", "benefits", "triggers", "impacts",
			"affects", "reduces", "increases", "decreases",
		},
		comparative: []string{
			"more than", "less than", "higher than", "lower than",
			"greater than", "fewer than", "better than", "worse than",
			"compared to", "compared with", "relative to", "outperforms",
			"exceeds", "twice as", "half as",
		},
		predictive: []string{
			"will", "is going to", "are going to", "expected to",
			"predicted to", "projected to", "is likely to", "are likely to",
			"forecasts", "on track to",
		},
		absolutes: []string{
			"definitely", "certainly", "always", "never", "all", "none",
			"every", "completely", "totally", "undoubtedly", "absolutely",
			"unquestionably", "proves", "proven", "clearly", "obviously",
		},
		hedges: []string{
			"may", "might", "could", "perhaps", "possibly", "suggests",
			"appears", "seems", "likely", "probably", "roughly",
			"approximately", "some", "often", "generally", "potentially",
			"tends to",
		},
		logger: logger,
	}
}

// Detect segments text into sentences and returns every claim-like one.
// Positions are byte offsets into the original text, stable as long as the
// underlying segment is not edited.
func (d *Detector) Detect(text string) []model.Claim {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var claims []model.Claim
	for _, s := range splitSentences(text) {
		claim, ok := d.classify(s)
		if !ok {
			continue
		}
		claims = append(claims, claim)
	}

	d.logger.Debug("claim detection complete",
		zap.Int("claims", len(claims)),
		zap.Int("text_bytes", len(text)),
	)
	return claims
}

// classify decides whether a sentence is a claim and, if so, builds it.
func (d *Detector) classify(s sentence) (model.Claim, bool) {
	lower := strings.ToLower(s.text)

	causalHits := countPhrases(lower, d.causal)
	comparativeHits := countPhrases(lower, d.comparative)
	predictiveHits := countPhrases(lower, d.predictive)

	var markers []model.StrongLanguageMarker
	absoluteHits := 0
	for _, w := range d.absolutes {
		if containsWord(lower, w) {
			absoluteHits++
			markers = append(markers, model.StrongLanguageMarker{Word: w, Intensity: 0.9})
		}
	}
	hedgeHits := 0
	for _, w := range d.hedges {
		if containsWord(lower, w) {
			hedgeHits++
			markers = append(markers, model.StrongLanguageMarker{Word: w, Intensity: 0.3})
		}
	}

	indicatorHits := causalHits + comparativeHits + predictiveHits
	if indicatorHits == 0 && absoluteHits == 0 {
		return model.Claim{}, false
	}

	// Priority order: causal > comparative > predictive > descriptive.
	claimType := model.ClaimTypeDescriptive
	switch {
	case causalHits > 0:
		claimType = model.ClaimTypeCausal
	case comparativeHits > 0:
		claimType = model.ClaimTypeComparative
	case predictiveHits > 0:
		claimType = model.ClaimTypePredictive
	}

	confidence := 0.5 + 0.1*float64(indicatorHits) + 0.15*float64(absoluteHits) - 0.05*float64(hedgeHits)
	confidence = clamp01(confidence)

	return model.Claim{
		ID:   uuid.NewString(),
		Text: s.text,
		Position: model.Position{
			From:           s.from,
			To:             s.to,
			ParagraphIndex: s.paragraph,
		},
		Type:       claimType,
		Confidence: confidence,
		Markers:    markers,
		Status:     model.ClaimStatusDetected,
	}, true
}

// sentence is an offset-tracked sentence inside the source text
type sentence struct {
	text      string
	from      int
	to        int
	paragraph int
}

// splitSentences splits text into sentences keeping byte offsets and
// paragraph indexes. Paragraphs are separated by blank lines.
func splitSentences(text string) []sentence {
	var out []sentence

	paraStart := 0
	paraIndex := 0
	for paraStart <= len(text) {
		end := strings.Index(text[paraStart:], "\n\n")
		var paraEnd int
		if end < 0 {
			paraEnd = len(text)
		} else {
			paraEnd = paraStart + end
		}

		out = append(out, splitParagraph(text, paraStart, paraEnd, paraIndex)...)

		if end < 0 {
			break
		}
		paraStart = paraEnd + 2
		paraIndex++
	}
	return out
}

// splitParagraph splits one paragraph into sentences on terminator
// punctuation followed by whitespace or end of paragraph.
func splitParagraph(text string, start, end, paraIndex int) []sentence {
	var out []sentence
	segStart := start
	for i := start; i < end; i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		atEnd := i+1 >= end
		if !atEnd && text[i+1] != ' ' && text[i+1] != '\t' && text[i+1] != '\n' {
			continue // likely an abbreviation or decimal point
		}
		if s, ok := trimSentence(text, segStart, i+1, paraIndex); ok {
			out = append(out, s)
		}
		segStart = i + 1
	}
	if s, ok := trimSentence(text, segStart, end, paraIndex); ok {
		out = append(out, s)
	}
	return out
}

// trimSentence trims surrounding whitespace while keeping offsets accurate.
func trimSentence(text string, from, to, paraIndex int) (sentence, bool) {
	for from < to && isSpace(text[from]) {
		from++
	}
	for to > from && isSpace(text[to-1]) {
		to--
	}
	if to-from < 10 {
		return sentence{}, false
	}
	return sentence{
		text:      text[from:to],
		from:      from,
		to:        to,
		paragraph: paraIndex,
	}, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// countPhrases counts how many of the given phrases occur, word-bounded.
func countPhrases(lower string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if containsWord(lower, p) {
			n++
		}
	}
	return n
}

// containsWord reports whether phrase occurs in s at word boundaries.
func containsWord(s, phrase string) bool {
	for idx := 0; idx < len(s); {
		i := strings.Index(s[idx:], phrase)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordByte(s[i-1])
		afterIdx := i + len(phrase)
		after := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
