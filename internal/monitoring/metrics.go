package monitoring

import (
	"math"
	"time"

	"github.com/claimshield/compliance-engine/internal/claims"
)

// TimeRange is a dashboard-selectable reporting window.
type TimeRange string

const (
	Range7Days   TimeRange = "7d"
	Range30Days  TimeRange = "30d"
	Range90Days  TimeRange = "90d"
	Range1Year   TimeRange = "1y"
	DefaultRange           = Range30Days
)

// ParseTimeRange maps a range string to its duration. Unrecognized strings
// fall back to DefaultRange; this feeds dashboards where availability matters
// more than strict validation.
func ParseTimeRange(raw string) (TimeRange, time.Duration) {
	switch TimeRange(raw) {
	case Range7Days:
		return Range7Days, 7 * 24 * time.Hour
	case Range30Days:
		return Range30Days, 30 * 24 * time.Hour
	case Range90Days:
		return Range90Days, 90 * 24 * time.Hour
	case Range1Year:
		return Range1Year, 365 * 24 * time.Hour
	default:
		return ParseTimeRange(string(DefaultRange))
	}
}

// ComplianceMetrics aggregates validation outcomes over a time window.
// OverallScore is recomputed from the validation reports themselves, so it
// can never drift from the per-claim compliance scores.
type ComplianceMetrics struct {
	TimeRange TimeRange `json:"time_range"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`

	TotalClaims        int `json:"total_claims"`
	CompliantClaims    int `json:"compliant_claims"`
	NonCompliantClaims int `json:"non_compliant_claims"`
	PendingReview      int `json:"pending_review"`

	OverallScore           float64 `json:"overall_score"`
	ValidationRate         float64 `json:"validation_rate"`
	FirstPassRate          float64 `json:"first_pass_rate"`
	DenialRate             float64 `json:"denial_rate"`
	TimelyFilingRate       float64 `json:"timely_filing_rate"`
	ProviderEnrollmentRate float64 `json:"provider_enrollment_rate"`
	MedicalNecessityRate   float64 `json:"medical_necessity_rate"`

	CriticalIssues int `json:"critical_issues"`
}

// ComputeMetrics aggregates a window of validation reports. Compliant means
// the claim cleared validation (pass or warning), non-compliant means failed,
// and pending means review_required.
func ComputeMetrics(reports []*claims.ValidationReport, timeRange TimeRange, from, to time.Time) ComplianceMetrics {
	m := ComplianceMetrics{
		TimeRange: timeRange,
		From:      from,
		To:        to,
	}

	var (
		firstPass      int
		scoreSum       float64
		timelyOK       int
		enrollmentOK   int
		necessityOK    int
		criticalIssues int
	)
	for _, report := range reports {
		m.TotalClaims++
		scoreSum += report.ComplianceScore

		switch report.OverallStatus {
		case claims.StatusFailed:
			m.NonCompliantClaims++
		case claims.StatusReviewRequired:
			m.PendingReview++
		default:
			m.CompliantClaims++
		}
		if report.OverallStatus == claims.StatusPass {
			firstPass++
		}
		if categoryCleared(report, claims.CategoryTimelyFiling) {
			timelyOK++
		}
		if categoryCleared(report, claims.CategoryProviderEnrollment) {
			enrollmentOK++
		}
		if categoryCleared(report, claims.CategoryMedicalNecessity) {
			necessityOK++
		}
		for _, factor := range report.RiskAssessment.RiskFactors {
			if factor.RiskLevel == claims.RiskCritical {
				criticalIssues++
			}
		}
	}

	m.CriticalIssues = criticalIssues
	if m.TotalClaims == 0 {
		return m
	}

	total := float64(m.TotalClaims)
	m.OverallScore = roundRate(scoreSum / total)
	m.ValidationRate = roundRate(float64(m.CompliantClaims) / total * 100)
	m.FirstPassRate = roundRate(float64(firstPass) / total * 100)
	m.DenialRate = roundRate(float64(m.NonCompliantClaims) / total * 100)
	m.TimelyFilingRate = roundRate(float64(timelyOK) / total * 100)
	m.ProviderEnrollmentRate = roundRate(float64(enrollmentOK) / total * 100)
	m.MedicalNecessityRate = roundRate(float64(necessityOK) / total * 100)
	return m
}

// categoryCleared reports whether the category passed or only warned. A
// report missing the category counts as not cleared.
func categoryCleared(report *claims.ValidationReport, category claims.Category) bool {
	switch report.CategoryStatusOf(category) {
	case claims.StatusPass, claims.StatusWarning:
		return true
	default:
		return false
	}
}

func roundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
