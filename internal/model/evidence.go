package model

// EvidenceType classifies where a piece of evidence came from
type EvidenceType string

const (
	EvidenceTypeCellOutput     EvidenceType = "cell_output"     // Raw analysis-cell output
	EvidenceTypeInsight        EvidenceType = "insight"         // User-curated insight
	EvidenceTypeHypothesis     EvidenceType = "hypothesis"      // Stated hypothesis
	EvidenceTypeDatasetSummary EvidenceType = "dataset_summary" // Dataset-level summary
)

// StatisticKind classifies an inline statistic found in notebook content
type StatisticKind string

const (
	StatPercentage  StatisticKind = "percentage"
	StatCorrelation StatisticKind = "correlation"
	StatPValue      StatisticKind = "p_value"
	StatRegression  StatisticKind = "regression"
)

// ExtractedStatistic is a numeric finding pulled out of evidence content,
// kept with enough surrounding text to stay interpretable.
type ExtractedStatistic struct {
	Kind    StatisticKind `json:"kind"`
	Value   string        `json:"value"`
	Context string        `json:"context,omitempty"` // Up to 100 chars around the match
}

// Evidence represents one notebook item scored against a claim
type Evidence struct {
	ID              string               `json:"id"`
	SourceID        string               `json:"source_id"`
	SourceType      EvidenceType         `json:"source_type"`
	Content         string               `json:"content"`
	RelevanceScore  float64              `json:"relevance_score"`  // [0,1]
	StrengthScore   float64              `json:"strength_score"`   // [0,1]
	RecencyScore    float64              `json:"recency_score"`    // [0,1]
	ConfidenceScore float64              `json:"confidence_score"` // [0,1]
	HypothesisTags  []string             `json:"hypothesis_tags,omitempty"`
	Statistics      []ExtractedStatistic `json:"extracted_statistics,omitempty"`
}

// HasStatistics reports whether any statistic was extracted from the content.
func (e Evidence) HasStatistics() bool {
	return len(e.Statistics) > 0
}

// MeanStrength averages strength scores over an evidence set. Returns 0 for
// an empty set.
func MeanStrength(evidence []Evidence) float64 {
	if len(evidence) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range evidence {
		sum += e.StrengthScore
	}
	return sum / float64(len(evidence))
}
