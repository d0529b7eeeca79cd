package validation

import (
	"fmt"

	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/claims"
)

// ValidateProviderEnrollment checks that the rendering provider's enrollment
// status permits billing and that no service predates the enrollment date. A
// provider cannot bill for dates before enrollment regardless of status.
func ValidateProviderEnrollment(snapshot *claims.ClaimSnapshot, cat *catalog.Catalog) claims.CategoryResult {
	result := claims.CategoryResult{
		Category: claims.CategoryProviderEnrollment,
		Status:   claims.StatusPass,
	}

	status := snapshot.Provider.EnrollmentStatus
	if status == "" {
		result.Issues = append(result.Issues, "provider enrollment status is missing")
	} else if !cat.IsBillableStatus(status) {
		result.Issues = append(result.Issues,
			fmt.Sprintf("provider enrollment status %q does not permit billing", status))
	}

	if earliest, ok := snapshot.EarliestServiceDate(); ok && !snapshot.Provider.EnrollmentDate.IsZero() {
		if earliest.Before(snapshot.Provider.EnrollmentDate) {
			result.Issues = append(result.Issues,
				fmt.Sprintf("service date %s precedes provider enrollment date %s",
					earliest.Format("2006-01-02"), snapshot.Provider.EnrollmentDate.Format("2006-01-02")))
		}
	}

	result.Status = statusFromFindings(result.Issues, result.Warnings)
	return result
}
