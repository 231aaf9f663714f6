package model

import "time"

// WritingContext is the ephemeral snapshot of what the user is writing about.
// It is recomputed on every cursor move; no history is kept.
type WritingContext struct {
	CurrentParagraph string    `json:"current_paragraph"`
	CurrentSection   string    `json:"current_section"`
	RecentWords      []string  `json:"recent_words,omitempty"`
	DominantConcepts []string  `json:"dominant_concepts,omitempty"`
	ActiveHypothesis string    `json:"active_hypothesis,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EntryType classifies what a semantic index entry was built from
type EntryType string

const (
	EntryCell       EntryType = "cell"
	EntryInsight    EntryType = "insight"
	EntryHypothesis EntryType = "hypothesis"
)

// EntryMetadata carries filterable attributes alongside an index entry
type EntryMetadata struct {
	CellID         string    `json:"cell_id,omitempty"`
	HypothesisTags []string  `json:"hypothesis_tags,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// IndexEntry is one (content, embedding) pair in the semantic index.
// Entries are immutable; the index is only ever rebuilt wholesale.
type IndexEntry struct {
	ID        string        `json:"id"`
	Type      EntryType     `json:"type"`
	Content   string        `json:"content"`
	Embedding []float32     `json:"-"`
	Metadata  EntryMetadata `json:"metadata"`
}

// RelevantAnalysis is a ranked notebook item surfaced by the remembrance
// agent. Derived, never persisted.
type RelevantAnalysis struct {
	CellID              string    `json:"cell_id"`
	Type                EntryType `json:"type"`
	Content             string    `json:"content"`
	Snippet             string    `json:"snippet"`
	RelevanceScore      float64   `json:"relevance_score"`
	HypothesisAlignment float64   `json:"hypothesis_alignment"`
	RecencyScore        float64   `json:"recency_score"`
	OverallScore        float64   `json:"overall_score"`
	HypothesisTags      []string  `json:"hypothesis_tags,omitempty"`
}
