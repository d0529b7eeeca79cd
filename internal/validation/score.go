package validation

import (
	"github.com/claimshield/compliance-engine/internal/claims"
)

// statusCompliancePenalty maps a category status to its compliance penalty
// before weighting. The curve is deliberately different from the risk
// contribution curve: compliance measures documentation completeness, risk
// estimates denial probability, and the two may diverge for a well-documented
// but unusual claim.
var statusCompliancePenalty = map[claims.CategoryStatus]float64{
	claims.StatusPass:           0,
	claims.StatusWarning:        20,
	claims.StatusReviewRequired: 50,
	claims.StatusFailed:         100,
}

// ComplianceScore computes 100 minus the weighted sum of category penalties,
// clamped to [0,100].
func ComplianceScore(results map[claims.Category]claims.CategoryResult, weights map[claims.Category]float64) float64 {
	penalty := 0.0
	for _, category := range claims.Categories {
		penalty += weights[category] * statusCompliancePenalty[results[category].Status]
	}
	return clampScore(round2(100 - penalty))
}
