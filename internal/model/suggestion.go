package model

// SuggestionType classifies what kind of rewrite or analysis a suggestion asks for
type SuggestionType string

const (
	SuggestionWeakenClaim  SuggestionType = "weaken-claim"
	SuggestionAddQualifier SuggestionType = "add-qualifier"
	SuggestionAddAnalysis  SuggestionType = "add-analysis"
	SuggestionRemoveClaim  SuggestionType = "remove-claim"
	SuggestionReviseClaim  SuggestionType = "revise-claim"
)

// SuggestionStatus tracks user interaction with a suggestion.
// Transitions away from active happen only via explicit user action.
type SuggestionStatus string

const (
	SuggestionActive    SuggestionStatus = "active"
	SuggestionDismissed SuggestionStatus = "dismissed"
	SuggestionAccepted  SuggestionStatus = "accepted"
)

// WritingSuggestion is one actionable recommendation tied to a claim
type WritingSuggestion struct {
	ID          string           `json:"id"`
	ClaimID     string           `json:"claim_id"`
	Type        SuggestionType   `json:"type"`
	Severity    Severity         `json:"severity"`
	Message     string           `json:"message"`
	Explanation string           `json:"explanation,omitempty"`
	Position    Position         `json:"position"`
	Priority    int              `json:"priority"`
	Status      SuggestionStatus `json:"status"`
}

// ModificationKind selects a rewrite strategy for GenerateModifications
type ModificationKind string

const (
	ModificationWeaken  ModificationKind = "weaken"
	ModificationCaveat  ModificationKind = "caveat"
	ModificationReverse ModificationKind = "reverse"
)

// ModificationCandidate is one rewrite of a claim with its rationale
type ModificationCandidate struct {
	Text        string  `json:"text"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}
