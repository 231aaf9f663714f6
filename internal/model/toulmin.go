package model

// WarrantType classifies the inferential link between evidence and claim
type WarrantType string

const (
	WarrantCausal       WarrantType = "causal"
	WarrantStatistical  WarrantType = "statistical"
	WarrantComparative  WarrantType = "comparative"
	WarrantDefinitional WarrantType = "definitional"
	WarrantExpert       WarrantType = "expert"
	WarrantLogical      WarrantType = "logical"
)

// AcceptanceLevel indicates how readily an audience grants a warrant
type AcceptanceLevel string

const (
	AcceptanceWidely        AcceptanceLevel = "widely-accepted"
	AcceptanceDomain        AcceptanceLevel = "domain-specific"
	AcceptanceControversial AcceptanceLevel = "controversial"
	AcceptanceUnknown       AcceptanceLevel = "unknown"
)

// Warrant is the logical bridge justifying why grounds support a claim
type Warrant struct {
	Statement    string          `json:"statement"`
	Type         WarrantType     `json:"type"`
	IsExplicit   bool            `json:"is_explicit"`
	Acceptance   AcceptanceLevel `json:"acceptance_level"`
	NeedsBacking bool            `json:"needs_backing"`
	Confidence   float64         `json:"confidence"` // [0,1]
}

// ArgumentStrength is a deterministic banding of the overall score
type ArgumentStrength string

const (
	StrengthStrong      ArgumentStrength = "strong"      // score >= 80
	StrengthModerate    ArgumentStrength = "moderate"    // score >= 50
	StrengthWeak        ArgumentStrength = "weak"        // score >= 20
	StrengthUnsupported ArgumentStrength = "unsupported" // otherwise
)

// BandStrength maps an overall score (0-100) to its strength band.
func BandStrength(score float64) ArgumentStrength {
	switch {
	case score >= 80:
		return StrengthStrong
	case score >= 50:
		return StrengthModerate
	case score >= 20:
		return StrengthWeak
	default:
		return StrengthUnsupported
	}
}

// Severity indicates the importance of an issue
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// IssueType classifies problems found with an argument
type IssueType string

const (
	IssueNoEvidence           IssueType = "no-evidence"
	IssueWeakEvidence         IssueType = "weak-evidence"
	IssueMissingQualifier     IssueType = "missing-qualifier"
	IssueCausationCorrelation IssueType = "causation-correlation"
	IssueOverclaim            IssueType = "overclaim"
	IssueContradictsEvidence  IssueType = "contradicts-evidence"
	IssueUnsupportedWarrant   IssueType = "unsupported-warrant"
)

// Issue is one identified problem with a claim's argument
type Issue struct {
	Type        IssueType `json:"type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
}

// GapImportance ranks how badly a missing piece of evidence is needed
type GapImportance string

const (
	GapCritical  GapImportance = "critical"
	GapImportant GapImportance = "important"
	GapOptional  GapImportance = "optional"
)

// EvidenceGap describes analysis the notebook lacks for a claim.
// An empty SuggestedQuery (CanBeResolved=false) means no further analysis
// can close the gap and the claim itself should be reconsidered.
type EvidenceGap struct {
	ID              string        `json:"id"`
	Type            string        `json:"type"`
	Description     string        `json:"description"`
	MissingConcepts []string      `json:"missing_concepts,omitempty"`
	Importance      GapImportance `json:"importance"`
	SuggestedQuery  string        `json:"suggested_query,omitempty"`
	CanBeResolved   bool          `json:"can_be_resolved"`
}

// QualifierAnalysis reports on hedging/scope language in a claim
type QualifierAnalysis struct {
	ExistingQualifiers []string      `json:"existing_qualifiers,omitempty"`
	Missing            bool          `json:"missing"`
	MissingImportance  GapImportance `json:"missing_importance,omitempty"`
	Appropriateness    float64       `json:"appropriateness"` // [0,1]
}

// RecommendedAction is the evaluator's top-level verdict on a claim
type RecommendedAction string

const (
	ActionClaimIsFine          RecommendedAction = "claim-is-fine"
	ActionClaimNeedsChange     RecommendedAction = "claim-needs-change"
	ActionClaimMightNeedChange RecommendedAction = "claim-might-need-change"
)

// ToulminDiagram is the full argument model built for one claim
type ToulminDiagram struct {
	ClaimID      string             `json:"claim_id"`
	Grounds      []Evidence         `json:"grounds"`
	Warrant      Warrant            `json:"warrant"`
	Backing      []string           `json:"backing,omitempty"`
	Qualifier    *QualifierAnalysis `json:"qualifier,omitempty"`
	Rebuttal     []string           `json:"rebuttal,omitempty"`
	Strength     ArgumentStrength   `json:"strength"`
	OverallScore float64            `json:"overall_score"` // [0,100]
	Issues       []Issue            `json:"issues,omitempty"`
	Gaps         []EvidenceGap      `json:"gaps,omitempty"`

	Action          RecommendedAction `json:"recommended_action"`
	ActionReasoning string            `json:"action_reasoning,omitempty"`
}

// Verdict is the contract returned by the external LLM judge. Grounds and
// warrant from the judge are advisory; the local heuristics remain the source
// of truth for both (see toulmin.Evaluator).
type Verdict struct {
	Grounds           []string          `json:"grounds,omitempty"`
	Warrant           string            `json:"warrant,omitempty"`
	Issues            []Issue           `json:"issues,omitempty"`
	Gaps              []EvidenceGap     `json:"gaps,omitempty"`
	Qualifier         string            `json:"qualifier,omitempty"`
	Action            RecommendedAction `json:"recommended_action"`
	ActionReasoning   string            `json:"action_reasoning,omitempty"`
	ModificationPaths []string          `json:"modification_paths,omitempty"`
}

// Valid reports whether the verdict carries a recognized action. A verdict
// without one is structurally invalid and must be surfaced, not defaulted.
func (v Verdict) Valid() bool {
	switch v.Action {
	case ActionClaimIsFine, ActionClaimNeedsChange, ActionClaimMightNeedChange:
		return true
	}
	return false
}
