package validation

import (
	"github.com/claimshield/compliance-engine/internal/claims"
)

// categoryRecommendations maps each category to remediation guidance, in the
// order it should be presented.
var categoryRecommendations = map[claims.Category][]string{
	claims.CategoryMedicalNecessity: {
		"Attach medical necessity documentation supporting the billed diagnosis and procedure combination",
		"Confirm prior authorization was obtained and record the authorization number on the service line",
		"Review age and gender restrictions for the billed procedures before resubmission",
	},
	claims.CategoryTimelyFiling: {
		"Submit the claim immediately; the filing window for this payer is closing or closed",
		"Request a timely filing exception with proof of original submission if the deadline has passed",
		"Review claim intake workflow to reduce lag between service date and submission",
	},
	claims.CategoryProviderEnrollment: {
		"Verify the provider's enrollment status with the payer before resubmission",
		"Hold claims for services rendered before the provider's enrollment effective date",
		"Begin revalidation or re-enrollment if the provider's status is not active",
	},
	claims.CategoryFrequencyLimits: {
		"Review the patient's service history against the frequency ceilings for the billed procedures",
		"Reduce billed units to the allowed maximum or document the clinical justification for the excess",
		"Consider an advance beneficiary notice when services exceed coverage frequency limits",
	},
	claims.CategoryPayerCompliance: {
		"Populate the missing payer-required fields before resubmission",
		"Verify NPI and taxonomy information against the provider's enrollment record",
		"Confirm referring provider and authorization details are present where the payer requires them",
	},
	claims.CategoryClaimCompleteness: {
		"Complete the missing claim elements identified by the completeness check",
		"Verify patient and provider identifiers before resubmission",
		"Audit charge amounts and diagnosis pointers for every service line",
	},
}

// tierRecommendations provide general guidance appended when category
// guidance alone does not meet the minimum count for the risk tier.
var tierRecommendations = map[claims.RiskLevel][]string{
	claims.RiskCritical: {
		"Do not submit this claim until all failed categories are resolved",
		"Escalate to the compliance officer for review before resubmission",
		"Audit recent claims from this provider for the same failure pattern",
	},
	claims.RiskHigh: {
		"Resolve all failed categories before submission to avoid denial",
		"Route the claim through manual compliance review",
		"Track this claim's resubmission outcome for the denial-prevention log",
	},
	claims.RiskMedium: {
		"Address the flagged warnings to improve first-pass acceptance",
		"Re-run validation after corrections to confirm a clean pass",
		"Monitor this provider's claims for recurring findings",
	},
	claims.RiskLow: {
		"Claim is ready for submission",
		"Continue routine monitoring of validation outcomes",
	},
}

// tierMinimums are the minimum recommendation counts per risk tier so the
// consumer always has actionable content.
var tierMinimums = map[claims.RiskLevel]int{
	claims.RiskCritical: 3,
	claims.RiskHigh:     3,
	claims.RiskMedium:   3,
	claims.RiskLow:      2,
}

// GenerateRecommendations maps risk factors and the overall risk level to an
// ordered, deduplicated list of remediation actions. The mapping is
// deterministic: the same factors always produce the same list.
func GenerateRecommendations(factors []claims.RiskFactor, overallRisk claims.RiskLevel) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(rec string) {
		if !seen[rec] {
			seen[rec] = true
			out = append(out, rec)
		}
	}

	for _, factor := range factors {
		recs := categoryRecommendations[factor.Category]
		if len(recs) == 0 {
			continue
		}
		// The leading recommendation always applies; deeper guidance is
		// reserved for factors at high or critical level.
		add(recs[0])
		if factor.RiskLevel == claims.RiskHigh || factor.RiskLevel == claims.RiskCritical {
			for _, rec := range recs[1:] {
				add(rec)
			}
		}
	}

	// Top up from the tier list until the tier minimum is met.
	for _, rec := range tierRecommendations[overallRisk] {
		if len(out) >= tierMinimums[overallRisk] {
			break
		}
		add(rec)
	}

	return out
}
