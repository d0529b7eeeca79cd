package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimshield/compliance-engine/internal/claims"
)

func reportWithFactors(validatedAt time.Time, categories ...claims.Category) *claims.ValidationReport {
	report := reportWith(claims.StatusFailed, 50, validatedAt)
	for _, category := range categories {
		report.RiskAssessment.RiskFactors = append(report.RiskAssessment.RiskFactors, claims.RiskFactor{
			Category:  category,
			RiskLevel: claims.RiskHigh,
		})
	}
	return report
}

func TestDetectPatterns(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Single Occurrence Is Not A Pattern", func(t *testing.T) {
		reports := []*claims.ValidationReport{
			reportWithFactors(base, claims.CategoryTimelyFiling),
		}
		assert.Empty(t, DetectPatterns(reports))
	})

	t.Run("Recurring Category Is Detected With Occurrence Count", func(t *testing.T) {
		reports := []*claims.ValidationReport{
			reportWithFactors(base, claims.CategoryTimelyFiling),
			reportWithFactors(base.AddDate(0, 0, 1), claims.CategoryTimelyFiling),
			reportWithFactors(base.AddDate(0, 0, 2), claims.CategoryTimelyFiling),
		}
		patterns := DetectPatterns(reports)
		require.Len(t, patterns, 1)
		assert.Equal(t, claims.CategoryTimelyFiling, patterns[0].Category)
		assert.Equal(t, 3, patterns[0].Occurrences)
	})

	t.Run("Trend Direction Compares Window Halves", func(t *testing.T) {
		// One occurrence in the older half, three in the newer half.
		reports := []*claims.ValidationReport{
			reportWithFactors(base, claims.CategoryPayerCompliance),
			reportWithFactors(base.AddDate(0, 0, 1)),
			reportWithFactors(base.AddDate(0, 0, 2), claims.CategoryPayerCompliance),
			reportWithFactors(base.AddDate(0, 0, 3), claims.CategoryPayerCompliance, claims.CategoryPayerCompliance),
		}
		patterns := DetectPatterns(reports)
		require.Len(t, patterns, 1)
		assert.Equal(t, "rising", patterns[0].Trend)
	})

	t.Run("Stable Trend When Halves Match", func(t *testing.T) {
		reports := []*claims.ValidationReport{
			reportWithFactors(base, claims.CategoryFrequencyLimits),
			reportWithFactors(base.AddDate(0, 0, 1), claims.CategoryFrequencyLimits),
		}
		patterns := DetectPatterns(reports)
		require.Len(t, patterns, 1)
		assert.Equal(t, "stable", patterns[0].Trend)
	})

	t.Run("Patterns Ordered By Occurrences Descending", func(t *testing.T) {
		reports := []*claims.ValidationReport{
			reportWithFactors(base, claims.CategoryTimelyFiling, claims.CategoryPayerCompliance),
			reportWithFactors(base.AddDate(0, 0, 1), claims.CategoryTimelyFiling, claims.CategoryPayerCompliance),
			reportWithFactors(base.AddDate(0, 0, 2), claims.CategoryTimelyFiling),
		}
		patterns := DetectPatterns(reports)
		require.Len(t, patterns, 2)
		assert.Equal(t, claims.CategoryTimelyFiling, patterns[0].Category)
		assert.Equal(t, 3, patterns[0].Occurrences)
		assert.Equal(t, 2, patterns[1].Occurrences)
	})
}
