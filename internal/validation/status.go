package validation

import (
	"github.com/claimshield/compliance-engine/internal/claims"
)

// mandatoryCategories are legally dispositive: a failure here means the
// claim cannot be submitted regardless of how well everything else scores.
var mandatoryCategories = []claims.Category{
	claims.CategoryProviderEnrollment,
	claims.CategoryTimelyFiling,
}

// ResolveOverallStatus reduces the six category statuses to one terminal
// status by fixed precedence, first match wins: mandatory-category failure,
// any failure, any review_required, any warning, pass. Precedence, not a
// score threshold, decides the terminal status.
func ResolveOverallStatus(results map[claims.Category]claims.CategoryResult) claims.CategoryStatus {
	for _, category := range mandatoryCategories {
		if results[category].Status == claims.StatusFailed {
			return claims.StatusFailed
		}
	}

	hasReview := false
	hasWarning := false
	for _, category := range claims.Categories {
		switch results[category].Status {
		case claims.StatusFailed:
			return claims.StatusFailed
		case claims.StatusReviewRequired:
			hasReview = true
		case claims.StatusWarning:
			hasWarning = true
		}
	}

	switch {
	case hasReview:
		return claims.StatusReviewRequired
	case hasWarning:
		return claims.StatusWarning
	default:
		return claims.StatusPass
	}
}
