package validation

import (
	"fmt"
	"time"

	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/claims"
)

// ValidateTimelyFiling compares the days elapsed since the earliest service
// date against the payer-specific filing window. The current time is always
// supplied by the caller so runs are deterministic and replayable. Claims
// inside the warning buffer before the deadline pass with a warning; claims
// past the deadline fail.
func ValidateTimelyFiling(snapshot *claims.ClaimSnapshot, cat *catalog.Catalog, now time.Time, warningBufferDays int) claims.CategoryResult {
	result := claims.CategoryResult{
		Category: claims.CategoryTimelyFiling,
		Status:   claims.StatusPass,
	}

	earliest, ok := snapshot.EarliestServiceDate()
	if !ok {
		result.Issues = append(result.Issues, "claim has no service lines; filing deadline cannot be determined")
		result.Status = claims.StatusFailed
		return result
	}

	payerType := catalog.ResolvePayerType(snapshot.Payer.Name)
	limitDays := cat.FilingLimitFor(payerType)

	daysElapsed := int(now.Sub(earliest).Hours() / 24)
	daysRemaining := limitDays - daysElapsed
	deadline := earliest.AddDate(0, 0, limitDays)

	result.FilingDeadline = &deadline
	result.DaysRemaining = &daysRemaining

	switch {
	case daysElapsed > limitDays:
		result.Issues = append(result.Issues,
			fmt.Sprintf("filing deadline exceeded for %s payer: %d days elapsed, limit is %d days",
				payerType, daysElapsed, limitDays))
	case daysRemaining <= warningBufferDays:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("filing deadline approaching for %s payer: %d days remaining of %d-day limit",
				payerType, daysRemaining, limitDays))
	}

	result.Status = statusFromFindings(result.Issues, result.Warnings)
	return result
}
