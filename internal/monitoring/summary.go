package monitoring

import (
	"time"

	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/config"
)

// Compliance level labels for executive reporting.
const (
	LevelExcellent = "excellent"
	LevelGood      = "good"
	LevelFair      = "fair"
	LevelPoor      = "poor"
)

// ExecutiveSummary condenses a monitoring window into the figures an
// executive report leads with.
type ExecutiveSummary struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	TimeRange       TimeRange         `json:"time_range"`
	ComplianceLevel string            `json:"compliance_level"`
	OverallScore    float64           `json:"overall_score"`
	RiskLevel       claims.RiskLevel  `json:"risk_level"`
	Metrics         ComplianceMetrics `json:"metrics"`
	CriticalIssues  int               `json:"critical_issues"`
	OpenAlerts      int               `json:"open_alerts"`
	TopPatterns     []claims.Pattern  `json:"top_patterns,omitempty"`
}

// BuildSummary assembles the executive summary for a window. The window's
// risk level is derived from the inverse of the overall compliance score, so
// a low-scoring window reads as high risk.
func BuildSummary(metrics ComplianceMetrics, patterns []claims.Pattern, alerts []*Alert, thresholds config.RiskThresholds, now time.Time) ExecutiveSummary {
	open := 0
	for _, alert := range alerts {
		if !alert.Acknowledged {
			open++
		}
	}

	if len(patterns) > 3 {
		patterns = patterns[:3]
	}

	return ExecutiveSummary{
		GeneratedAt:     now.UTC(),
		TimeRange:       metrics.TimeRange,
		ComplianceLevel: ComplianceLevel(metrics.OverallScore),
		OverallScore:    metrics.OverallScore,
		RiskLevel:       windowRiskLevel(metrics.OverallScore, thresholds),
		Metrics:         metrics,
		CriticalIssues:  metrics.CriticalIssues,
		OpenAlerts:      open,
		TopPatterns:     patterns,
	}
}

// ComplianceLevel maps an overall score to its label.
func ComplianceLevel(score float64) string {
	switch {
	case score >= 95:
		return LevelExcellent
	case score >= 85:
		return LevelGood
	case score >= 70:
		return LevelFair
	default:
		return LevelPoor
	}
}

func windowRiskLevel(overallScore float64, thresholds config.RiskThresholds) claims.RiskLevel {
	inverse := 100 - overallScore
	switch {
	case inverse >= thresholds.Critical:
		return claims.RiskCritical
	case inverse >= thresholds.High:
		return claims.RiskHigh
	case inverse >= thresholds.Medium:
		return claims.RiskMedium
	default:
		return claims.RiskLow
	}
}
