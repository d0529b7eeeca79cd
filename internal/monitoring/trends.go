package monitoring

import (
	"sort"
	"time"

	"github.com/claimshield/compliance-engine/internal/claims"
)

// TrendPoint is one day bucket of validation outcomes. The series is
// append-only; historical buckets never change once their day has passed.
type TrendPoint struct {
	Date            string  `json:"date"`
	ComplianceScore float64 `json:"compliance_score"`
	ValidationRate  float64 `json:"validation_rate"`
	ClaimsProcessed int     `json:"claims_processed"`
}

// ComputeTrends groups reports into UTC day buckets and returns one point
// per day that saw at least one validation, oldest first.
func ComputeTrends(reports []*claims.ValidationReport) []TrendPoint {
	type bucket struct {
		scoreSum  float64
		compliant int
		total     int
	}
	buckets := make(map[string]*bucket)

	for _, report := range reports {
		day := report.ValidatedAt.UTC().Format("2006-01-02")
		b := buckets[day]
		if b == nil {
			b = &bucket{}
			buckets[day] = b
		}
		b.total++
		b.scoreSum += report.ComplianceScore
		switch report.OverallStatus {
		case claims.StatusPass, claims.StatusWarning:
			b.compliant++
		}
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		points = append(points, TrendPoint{
			Date:            day,
			ComplianceScore: roundRate(b.scoreSum / float64(b.total)),
			ValidationRate:  roundRate(float64(b.compliant) / float64(b.total) * 100),
			ClaimsProcessed: b.total,
		})
	}
	return points
}

// WindowBounds computes the [from, to) interval for a time range ending at
// the given instant.
func WindowBounds(now time.Time, timeRange TimeRange) (time.Time, time.Time) {
	_, duration := ParseTimeRange(string(timeRange))
	to := now.UTC()
	return to.Add(-duration), to
}
