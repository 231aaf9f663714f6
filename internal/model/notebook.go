package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CellOutput is the captured result of running an analysis cell
type CellOutput struct {
	Text string `json:"text"`
	Plot string `json:"plot,omitempty"` // Reference/URI to a rendered plot, if any
}

// Cell is one notebook analysis cell
type Cell struct {
	ID             string      `json:"id"`
	Query          string      `json:"query"`
	Output         *CellOutput `json:"output,omitempty"`
	HypothesisTags []string    `json:"hypothesis_tags,omitempty"`
	ExecutedAt     time.Time   `json:"executed_at,omitempty"`
}

// Insight is a user-curated takeaway pinned to a cell
type Insight struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	CellID         string    `json:"cell_id,omitempty"`
	TagID          string    `json:"tag_id,omitempty"`
	HypothesisTags []string  `json:"hypothesis_tags,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// Hypothesis is a stated line of inquiry the notebook explores
type Hypothesis struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// NotebookSnapshot is the read-only notebook state supplied by the
// surrounding application. The engine never mutates it.
type NotebookSnapshot struct {
	Cells      []Cell       `json:"cells"`
	Insights   []Insight    `json:"insights"`
	Hypotheses []Hypothesis `json:"hypotheses"`
}

// ContentHash returns a digest of all notebook content. Re-evaluation of
// already-detected claims is keyed off changes to this hash.
func (n NotebookSnapshot) ContentHash() string {
	h := sha256.New()
	for _, c := range n.Cells {
		h.Write([]byte(c.ID))
		h.Write([]byte(c.Query))
		if c.Output != nil {
			h.Write([]byte(c.Output.Text))
		}
	}
	for _, i := range n.Insights {
		h.Write([]byte(i.ID))
		h.Write([]byte(i.Content))
	}
	for _, hy := range n.Hypotheses {
		h.Write([]byte(hy.ID))
		h.Write([]byte(hy.Content))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Empty reports whether the snapshot carries no content at all.
func (n NotebookSnapshot) Empty() bool {
	return len(n.Cells) == 0 && len(n.Insights) == 0 && len(n.Hypotheses) == 0
}
