package validation

import (
	"fmt"

	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/config"
)

// statusRiskContribution maps a category status to its 0-100 risk
// contribution before weighting.
var statusRiskContribution = map[claims.CategoryStatus]float64{
	claims.StatusPass:           0,
	claims.StatusWarning:        50,
	claims.StatusReviewRequired: 65,
	claims.StatusFailed:         100,
}

// AssessRisk derives a weighted 0-100 risk score from the six category
// results, maps it onto an overall risk level via the configured thresholds,
// and collects one risk factor per non-pass category in canonical order.
// Recommendations and pattern detection are filled in by the engine.
func AssessRisk(results map[claims.Category]claims.CategoryResult, weights map[claims.Category]float64, thresholds config.RiskThresholds) claims.RiskAssessment {
	score := 0.0
	var factors []claims.RiskFactor

	for _, category := range claims.Categories {
		result := results[category]
		score += weights[category] * statusRiskContribution[result.Status]

		if result.Status == claims.StatusPass {
			continue
		}
		factors = append(factors, claims.RiskFactor{
			Category:    category,
			Description: factorDescription(result),
			RiskLevel:   factorLevel(category, result.Status),
		})
	}

	score = clampScore(round2(score))
	return claims.RiskAssessment{
		OverallRisk: RiskLevelFor(score, thresholds),
		RiskScore:   score,
		RiskFactors: factors,
	}
}

// RiskLevelFor maps a risk score onto a risk level. Threshold ordering is
// validated at configuration load, so the mapping is monotone.
func RiskLevelFor(score float64, thresholds config.RiskThresholds) claims.RiskLevel {
	switch {
	case score >= thresholds.Critical:
		return claims.RiskCritical
	case score >= thresholds.High:
		return claims.RiskHigh
	case score >= thresholds.Medium:
		return claims.RiskMedium
	default:
		return claims.RiskLow
	}
}

func factorDescription(result claims.CategoryResult) string {
	if len(result.Issues) > 0 {
		return result.Issues[0]
	}
	if len(result.Warnings) > 0 {
		return result.Warnings[0]
	}
	return fmt.Sprintf("category %s did not pass validation", result.Category)
}

// factorLevel ranks a single factor. Failures of the legally dispositive
// categories are critical: the claim cannot be submitted at all.
func factorLevel(category claims.Category, status claims.CategoryStatus) claims.RiskLevel {
	switch status {
	case claims.StatusFailed:
		if category == claims.CategoryProviderEnrollment || category == claims.CategoryTimelyFiling {
			return claims.RiskCritical
		}
		return claims.RiskHigh
	case claims.StatusReviewRequired:
		return claims.RiskMedium
	default:
		return claims.RiskLow
	}
}

// DetectRecurringFactors groups the current claim's risk factors together
// with factors from recently validated claims and surfaces categories that
// recur. Single-claim runs with no recent context produce no patterns.
func DetectRecurringFactors(current, recent []claims.RiskFactor) []claims.Pattern {
	counts := make(map[claims.Category]int)
	for _, factor := range current {
		counts[factor.Category]++
	}
	for _, factor := range recent {
		counts[factor.Category]++
	}

	var patterns []claims.Pattern
	for _, category := range claims.Categories {
		if counts[category] < 2 {
			continue
		}
		patterns = append(patterns, claims.Pattern{
			Category:    category,
			Occurrences: counts[category],
			Trend:       "recurring",
			Description: fmt.Sprintf("%s findings recurred across %d recent validations", category, counts[category]),
		})
	}
	return patterns
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
