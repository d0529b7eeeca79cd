package monitoring

import (
	"fmt"
	"sort"

	"github.com/claimshield/compliance-engine/internal/claims"
)

// DetectPatterns finds risk-factor categories that recur across the window's
// reports and classifies each with a trend direction. Direction compares the
// category's occurrence count in the older half of the window against the
// newer half; reports must be ordered oldest first.
func DetectPatterns(reports []*claims.ValidationReport) []claims.Pattern {
	counts := make(map[claims.Category]int)
	olderHalf := make(map[claims.Category]int)
	newerHalf := make(map[claims.Category]int)
	mid := len(reports) / 2

	for i, report := range reports {
		for _, factor := range report.RiskAssessment.RiskFactors {
			counts[factor.Category]++
			if i < mid {
				olderHalf[factor.Category]++
			} else {
				newerHalf[factor.Category]++
			}
		}
	}

	categories := make([]claims.Category, 0, len(counts))
	for category, count := range counts {
		if count >= 2 {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})

	patterns := make([]claims.Pattern, 0, len(categories))
	for _, category := range categories {
		trend := trendDirection(olderHalf[category], newerHalf[category])
		patterns = append(patterns, claims.Pattern{
			Category:    category,
			Occurrences: counts[category],
			Trend:       trend,
			Description: fmt.Sprintf("%s findings occurred %d times in this window (%s)", category, counts[category], trend),
		})
	}
	return patterns
}

func trendDirection(older, newer int) string {
	switch {
	case newer > older:
		return "rising"
	case newer < older:
		return "falling"
	default:
		return "stable"
	}
}
