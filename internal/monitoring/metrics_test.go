package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/claimshield/compliance-engine/internal/claims"
)

var windowEnd = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

// reportWith builds a minimal validation report for aggregation tests.
func reportWith(status claims.CategoryStatus, score float64, validatedAt time.Time) *claims.ValidationReport {
	categories := make(map[claims.Category]claims.CategoryResult)
	for _, category := range claims.Categories {
		categoryStatus := claims.StatusPass
		if status == claims.StatusFailed && category == claims.CategoryTimelyFiling {
			categoryStatus = claims.StatusFailed
		}
		if status == claims.StatusReviewRequired && category == claims.CategoryClaimCompleteness {
			categoryStatus = claims.StatusReviewRequired
		}
		if status == claims.StatusWarning && category == claims.CategoryMedicalNecessity {
			categoryStatus = claims.StatusWarning
		}
		categories[category] = claims.CategoryResult{Category: category, Status: categoryStatus}
	}
	return &claims.ValidationReport{
		ID:              "r-" + validatedAt.Format("20060102150405.000"),
		ClaimID:         "c-" + validatedAt.Format("20060102150405.000"),
		OverallStatus:   status,
		ComplianceScore: score,
		ValidatedAt:     validatedAt,
		Categories:      categories,
	}
}

func TestParseTimeRange(t *testing.T) {
	cases := []struct {
		raw  string
		want TimeRange
		days int
	}{
		{"7d", Range7Days, 7},
		{"30d", Range30Days, 30},
		{"90d", Range90Days, 90},
		{"1y", Range1Year, 365},
		{"", DefaultRange, 30},
		{"2w", DefaultRange, 30},
		{"bogus", DefaultRange, 30},
	}
	for _, tc := range cases {
		timeRange, duration := ParseTimeRange(tc.raw)
		assert.Equal(t, tc.want, timeRange, "range %q", tc.raw)
		assert.Equal(t, time.Duration(tc.days)*24*time.Hour, duration, "range %q", tc.raw)
	}
}

func TestComputeMetrics(t *testing.T) {
	t.Run("Hundred Claim Window", func(t *testing.T) {
		var reports []*claims.ValidationReport
		ts := windowEnd.AddDate(0, 0, -20)
		for i := 0; i < 85; i++ {
			reports = append(reports, reportWith(claims.StatusPass, 100, ts.Add(time.Duration(i)*time.Minute)))
		}
		for i := 0; i < 10; i++ {
			reports = append(reports, reportWith(claims.StatusFailed, 40, ts.Add(time.Duration(100+i)*time.Minute)))
		}
		for i := 0; i < 5; i++ {
			reports = append(reports, reportWith(claims.StatusReviewRequired, 75, ts.Add(time.Duration(200+i)*time.Minute)))
		}

		m := ComputeMetrics(reports, Range30Days, windowEnd.AddDate(0, 0, -30), windowEnd)

		assert.Equal(t, 100, m.TotalClaims)
		assert.Equal(t, 85, m.CompliantClaims)
		assert.Equal(t, 10, m.NonCompliantClaims)
		assert.Equal(t, 5, m.PendingReview)
		assert.Equal(t, m.TotalClaims, m.CompliantClaims+m.NonCompliantClaims+m.PendingReview,
			"counts must sum to the total")
		assert.Equal(t, 85.0, m.ValidationRate)
		assert.Equal(t, 10.0, m.DenialRate)
		assert.Equal(t, 85.0, m.FirstPassRate)
	})

	t.Run("Warnings Count As Compliant But Not First Pass", func(t *testing.T) {
		reports := []*claims.ValidationReport{
			reportWith(claims.StatusPass, 100, windowEnd.AddDate(0, 0, -1)),
			reportWith(claims.StatusWarning, 80, windowEnd.AddDate(0, 0, -1)),
		}
		m := ComputeMetrics(reports, Range7Days, windowEnd.AddDate(0, 0, -7), windowEnd)

		assert.Equal(t, 2, m.CompliantClaims)
		assert.Equal(t, 100.0, m.ValidationRate)
		assert.Equal(t, 50.0, m.FirstPassRate)
	})

	t.Run("Overall Score Is The Mean Compliance Score", func(t *testing.T) {
		reports := []*claims.ValidationReport{
			reportWith(claims.StatusPass, 100, windowEnd.AddDate(0, 0, -1)),
			reportWith(claims.StatusFailed, 50, windowEnd.AddDate(0, 0, -2)),
		}
		m := ComputeMetrics(reports, Range7Days, windowEnd.AddDate(0, 0, -7), windowEnd)
		assert.Equal(t, 75.0, m.OverallScore)
	})

	t.Run("Category Rates Track Category Outcomes", func(t *testing.T) {
		reports := []*claims.ValidationReport{
			reportWith(claims.StatusPass, 100, windowEnd.AddDate(0, 0, -1)),
			reportWith(claims.StatusFailed, 40, windowEnd.AddDate(0, 0, -1)),
		}
		m := ComputeMetrics(reports, Range7Days, windowEnd.AddDate(0, 0, -7), windowEnd)
		// The failed report fails only timely filing.
		assert.Equal(t, 50.0, m.TimelyFilingRate)
		assert.Equal(t, 100.0, m.ProviderEnrollmentRate)
		assert.Equal(t, 100.0, m.MedicalNecessityRate)
	})

	t.Run("Empty Window Yields Zeroes", func(t *testing.T) {
		m := ComputeMetrics(nil, Range30Days, windowEnd.AddDate(0, 0, -30), windowEnd)
		assert.Equal(t, 0, m.TotalClaims)
		assert.Equal(t, 0.0, m.ValidationRate)
		assert.Equal(t, 0.0, m.OverallScore)
	})
}
