// Package scoring maps stablecoin and platform registry records to a
// bounded 1–10 trust score. Pure functions, no I/O: the same input always
// produces the same score.
package scoring

import (
	"math"
	"strings"

	"github.com/pegwatch/stablecoin-monitor/internal/registry"
)

// Part is one named rule contribution inside a breakdown.
type Part struct {
	Name  string  `json:"name"`
	Delta float64 `json:"delta"`
}

// Breakdown lists every rule that fired and the clamped total they sum to.
type Breakdown struct {
	Parts []Part  `json:"parts"`
	Total float64 `json:"total"`
}

const (
	stablecoinBase = 5.0
	cefiBase       = 5.0
	defiBase       = 6.0

	incidentPenalty    = 0.7
	incidentPenaltyCap = 2.0
)

// auditorBonus holds the recognized attestation firms, decreasing by tier.
var auditorBonus = map[string]float64{
	"Deloitte":       1.2,
	"Grant Thornton": 1.0,
	"BDO":            0.8,
}

// StablecoinScore returns the trust score for a stablecoin record.
func StablecoinScore(sc registry.Stablecoin) float64 {
	return StablecoinBreakdown(sc).Total
}

// StablecoinBreakdown returns the per-rule contributions for a stablecoin
// score. The total is identical to StablecoinScore for the same input.
func StablecoinBreakdown(sc registry.Stablecoin) Breakdown {
	parts := []Part{{Name: "base", Delta: stablecoinBase}}

	if trustRegulated(sc.Jurisdiction) {
		parts = append(parts, Part{Name: "trust_regulated_jurisdiction", Delta: 2})
	}
	if bonus, ok := auditorBonus[sc.Auditor]; ok {
		parts = append(parts, Part{Name: "recognized_auditor", Delta: bonus})
	}
	if sc.Backing == registry.BackingCrypto {
		parts = append(parts, Part{Name: "crypto_collateralized", Delta: -0.8})
	}
	if offshoreOrDecentralized(sc.Jurisdiction) {
		parts = append(parts, Part{Name: "offshore_jurisdiction", Delta: -0.7})
	}
	if sc.Compliance == registry.ComplianceYes || sc.Compliance == registry.ComplianceLikely {
		parts = append(parts, Part{Name: "compliance_framework", Delta: 1.5})
	}
	if sc.DepegIncidents > 0 {
		penalty := math.Min(incidentPenalty*float64(sc.DepegIncidents), incidentPenaltyCap)
		parts = append(parts, Part{Name: "depeg_incidents", Delta: -penalty})
	}

	return finish(parts)
}

// PlatformScore returns the trust score for a platform record. CeFi and
// DeFi use distinct rubrics.
func PlatformScore(p registry.Platform) float64 {
	return PlatformBreakdown(p).Total
}

// PlatformBreakdown returns the per-rule contributions for a platform score.
func PlatformBreakdown(p registry.Platform) Breakdown {
	if p.Type == registry.TypeDeFi {
		return defiBreakdown(p)
	}
	return cefiBreakdown(p)
}

func cefiBreakdown(p registry.Platform) Breakdown {
	parts := []Part{{Name: "base", Delta: cefiBase}}

	if p.KYC {
		parts = append(parts, Part{Name: "kyc_aml", Delta: 1})
	}
	switch p.ProofOfReserves {
	case registry.PoRFull:
		parts = append(parts, Part{Name: "proof_of_reserves_full", Delta: 1.5})
	case registry.PoRPartial:
		parts = append(parts, Part{Name: "proof_of_reserves_partial", Delta: 0.75})
	}
	if p.IndependentAudit {
		parts = append(parts, Part{Name: "independent_audit", Delta: 1})
	}
	switch {
	case p.LicenseCount >= 20:
		parts = append(parts, Part{Name: "license_coverage_broad", Delta: 1.5})
	case p.LicenseCount >= 10:
		parts = append(parts, Part{Name: "license_coverage_multi", Delta: 1})
	case p.LicenseCount >= 1:
		parts = append(parts, Part{Name: "license_coverage_single", Delta: 0.5})
	}
	if p.SecurityAudit {
		parts = append(parts, Part{Name: "security_audit", Delta: 0.5})
	}
	if p.EnforcementActions > 0 {
		penalty := math.Min(0.6*float64(p.EnforcementActions), 1.8)
		parts = append(parts, Part{Name: "enforcement_actions", Delta: -penalty})
	}

	return finish(parts)
}

func defiBreakdown(p registry.Platform) Breakdown {
	parts := []Part{{Name: "base", Delta: defiBase}}

	if p.OnChainTransparency {
		parts = append(parts, Part{Name: "onchain_transparency", Delta: 1})
	}
	if p.AuditCount >= 1 {
		bonus := 1.0
		if p.AuditCount >= 2 {
			bonus += 0.5
		}
		parts = append(parts, Part{Name: "audits", Delta: bonus})
	}
	if p.FormalVerification {
		parts = append(parts, Part{Name: "formal_verification", Delta: 0.5})
	}
	if p.AlgorithmicRisk {
		parts = append(parts, Part{Name: "algorithmic_risk", Delta: -1.5})
	}
	if p.DepegIncidents > 0 {
		parts = append(parts, Part{Name: "depeg_incidents", Delta: -1})
	}

	return finish(parts)
}

func finish(parts []Part) Breakdown {
	var sum float64
	for _, p := range parts {
		sum += p.Delta
	}
	return Breakdown{Parts: parts, Total: clampRound(sum)}
}

// clampRound rounds to one decimal then clamps to [1, 10].
func clampRound(v float64) float64 {
	v = math.Round(v*10) / 10
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func trustRegulated(jurisdiction string) bool {
	j := strings.ToLower(jurisdiction)
	for _, pat := range []string{"nydfs", "mas (", "fca", "trust charter"} {
		if strings.Contains(j, pat) {
			return true
		}
	}
	return false
}

func offshoreOrDecentralized(jurisdiction string) bool {
	j := strings.ToLower(jurisdiction)
	for _, pat := range []string{"offshore", "decentralized", "bvi", "cayman", "seychelles"} {
		if strings.Contains(j, pat) {
			return true
		}
	}
	return false
}
