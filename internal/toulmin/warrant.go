package toulmin

import (
	"github.com/ebarkova/lede/internal/model"
)

// noEvidenceConfidence is the fixed warrant confidence when nothing backs
// the claim.
const noEvidenceConfidence = 0.2

// IdentifyWarrant infers the logical link connecting evidence to a claim
// and how readily an audience would accept it. The warrant is always
// implicit: it is reconstructed from the claim type and the character of
// the evidence, not found in the text.
func IdentifyWarrant(claim model.Claim, evidence []model.Evidence) model.Warrant {
	hasStats := false
	for _, ev := range evidence {
		if ev.HasStatistics() {
			hasStats = true
			break
		}
	}

	wtype := warrantType(claim.Type, hasStats)
	acceptance := acceptanceLevel(wtype, len(evidence))

	return model.Warrant{
		Statement:    warrantStatement(wtype),
		Type:         wtype,
		IsExplicit:   false,
		Acceptance:   acceptance,
		NeedsBacking: acceptance == model.AcceptanceControversial || acceptance == model.AcceptanceUnknown,
		Confidence:   warrantConfidence(evidence),
	}
}

func warrantType(claimType model.ClaimType, hasStats bool) model.WarrantType {
	switch claimType {
	case model.ClaimTypeCausal:
		if hasStats {
			return model.WarrantStatistical
		}
		return model.WarrantCausal
	case model.ClaimTypeComparative:
		return model.WarrantComparative
	case model.ClaimTypePredictive:
		return model.WarrantLogical
	default:
		if hasStats {
			return model.WarrantStatistical
		}
		return model.WarrantLogical
	}
}

func warrantStatement(t model.WarrantType) string {
	switch t {
	case model.WarrantStatistical:
		return "Statistical patterns in the analysis generalize to the claimed relationship."
	case model.WarrantCausal:
		return "The observed association reflects a genuine causal mechanism."
	case model.WarrantComparative:
		return "The compared groups are measured consistently enough for the difference to be meaningful."
	case model.WarrantDefinitional:
		return "The terms of the claim match how the data defines them."
	case model.WarrantExpert:
		return "The cited analysis was produced by a competent, unbiased process."
	default:
		return "The evidence logically entails the claim under ordinary assumptions."
	}
}

// acceptanceLevel applies the fixed acceptance rules: well-evidenced
// statistical warrants and all comparative warrants are widely accepted;
// causal warrants are the hardest sell.
func acceptanceLevel(t model.WarrantType, evidenceCount int) model.AcceptanceLevel {
	switch {
	case t == model.WarrantComparative:
		return model.AcceptanceWidely
	case t == model.WarrantStatistical && evidenceCount > 2:
		return model.AcceptanceWidely
	case t == model.WarrantCausal:
		if evidenceCount > 3 {
			return model.AcceptanceDomain
		}
		return model.AcceptanceControversial
	default:
		return model.AcceptanceDomain
	}
}

// warrantConfidence is the mean evidence strength plus a small count bonus,
// clamped to 1. With no evidence it is pinned low but non-zero.
func warrantConfidence(evidence []model.Evidence) float64 {
	if len(evidence) == 0 {
		return noEvidenceConfidence
	}
	bonus := 0.1 * float64(len(evidence))
	if bonus > 0.3 {
		bonus = 0.3
	}
	c := model.MeanStrength(evidence) + bonus
	if c > 1 {
		return 1
	}
	return c
}
