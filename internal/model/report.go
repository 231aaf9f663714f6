package model

import "time"

// Report is the complete output of a batch analysis run over one article
// and one notebook snapshot.
type Report struct {
	ArticlePath  string    `json:"article_path,omitempty"`
	NotebookPath string    `json:"notebook_path,omitempty"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
	NotebookHash string    `json:"notebook_hash"`

	Claims      []Claim             `json:"claims"`
	Diagrams    []ToulminDiagram    `json:"diagrams,omitempty"`
	Suggestions []WritingSuggestion `json:"suggestions,omitempty"`
	Relevant    []RelevantAnalysis  `json:"relevant_analyses,omitempty"`

	Failures []EvaluationFailure `json:"failures,omitempty"`
}

// EvaluationFailure records a per-claim evaluation error that did not abort
// the batch.
type EvaluationFailure struct {
	ClaimID string `json:"claim_id"`
	Error   string `json:"error"`
}
