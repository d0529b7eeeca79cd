package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/claimshield/compliance-engine/internal/claims"
)

func TestComplianceScore(t *testing.T) {
	weights := testWeights()

	t.Run("All Pass Scores One Hundred", func(t *testing.T) {
		assert.Equal(t, 100.0, ComplianceScore(resultsWithStatus(claims.StatusPass), weights))
	})

	t.Run("All Failed Scores Zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ComplianceScore(resultsWithStatus(claims.StatusFailed), weights))
	})

	t.Run("Warnings Penalize Less Than Review", func(t *testing.T) {
		warned := ComplianceScore(resultsWithStatus(claims.StatusWarning), weights)
		reviewed := ComplianceScore(resultsWithStatus(claims.StatusReviewRequired), weights)
		assert.Greater(t, warned, reviewed)
		assert.Equal(t, 80.0, warned)
		assert.Equal(t, 50.0, reviewed)
	})

	t.Run("Single Category Failure Reflects Its Weight", func(t *testing.T) {
		results := resultsWithStatus(claims.StatusPass)
		results[claims.CategoryClaimCompleteness] = claims.CategoryResult{
			Category: claims.CategoryClaimCompleteness,
			Status:   claims.StatusFailed,
		}
		// claim_completeness carries weight 0.10 so a full failure costs 10.
		assert.Equal(t, 90.0, ComplianceScore(results, weights))
	})

	t.Run("Score Stays Within Bounds", func(t *testing.T) {
		for _, status := range []claims.CategoryStatus{claims.StatusPass, claims.StatusWarning, claims.StatusReviewRequired, claims.StatusFailed} {
			score := ComplianceScore(resultsWithStatus(status), weights)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	})

	t.Run("Compliance And Risk Use Different Curves", func(t *testing.T) {
		results := resultsWithStatus(claims.StatusWarning)
		compliance := ComplianceScore(results, weights)
		risk := AssessRisk(results, weights, testEngineConfig().RiskThresholds).RiskScore
		// All-warning: risk is 50 while compliance loses only 20 points.
		assert.Equal(t, 50.0, risk)
		assert.Equal(t, 80.0, compliance)
	})
}
