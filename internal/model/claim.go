package model

// ClaimType categorizes the nature of an assertion
type ClaimType string

const (
	ClaimTypeCausal      ClaimType = "causal"      // X causes/leads to Y
	ClaimTypeComparative ClaimType = "comparative" // X is more/less than Y
	ClaimTypePredictive  ClaimType = "predictive"  // X will happen
	ClaimTypeDescriptive ClaimType = "descriptive" // X is/has Y (default)
)

// ClaimStatus tracks a claim through the evaluation lifecycle
type ClaimStatus string

const (
	ClaimStatusDetected   ClaimStatus = "detected"
	ClaimStatusEvaluating ClaimStatus = "evaluating"
	ClaimStatusEvaluated  ClaimStatus = "evaluated"
	ClaimStatusActioned   ClaimStatus = "actioned"
)

// Position locates a claim inside the article text.
// From and To are byte offsets; From < To always holds for detected claims.
type Position struct {
	From           int `json:"from"`
	To             int `json:"to"`
	ParagraphIndex int `json:"paragraph_index"`
}

// StrongLanguageMarker records an absolute or hedging word found in a claim.
// Intensity is 0.9 for absolute language, 0.3 for hedges.
type StrongLanguageMarker struct {
	Word      string  `json:"word"`
	Intensity float64 `json:"intensity"`
}

// Claim represents an assertion-like sentence detected in prose
type Claim struct {
	ID         string                 `json:"id"`
	Text       string                 `json:"text"`
	Position   Position               `json:"position"`
	Type       ClaimType              `json:"type"`
	Confidence float64                `json:"confidence"` // [0,1]
	Markers    []StrongLanguageMarker `json:"strong_language_markers,omitempty"`
	Status     ClaimStatus            `json:"status"`
}

// HasAbsoluteLanguage reports whether any recorded marker is an absolute word
// rather than a hedge.
func (c Claim) HasAbsoluteLanguage() bool {
	for _, m := range c.Markers {
		if m.Intensity > 0.5 {
			return true
		}
	}
	return false
}
