package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimshield/compliance-engine/internal/claims"
)

func TestValidateProviderEnrollment(t *testing.T) {
	cat := defaultCatalog()

	t.Run("Active Provider Passes", func(t *testing.T) {
		result := ValidateProviderEnrollment(cleanClaim(), cat)
		assert.Equal(t, claims.StatusPass, result.Status)
	})

	t.Run("Missing Status Fails", func(t *testing.T) {
		claim := cleanClaim()
		claim.Provider.EnrollmentStatus = ""

		result := ValidateProviderEnrollment(claim, cat)
		assert.Equal(t, claims.StatusFailed, result.Status)
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], "enrollment status is missing")
	})

	t.Run("Non Billable Statuses Fail", func(t *testing.T) {
		for _, status := range []string{"pending", "suspended", "terminated", "deactivated", "unheard_of"} {
			claim := cleanClaim()
			claim.Provider.EnrollmentStatus = status

			result := ValidateProviderEnrollment(claim, cat)
			assert.Equal(t, claims.StatusFailed, result.Status, "status %q should not permit billing", status)
		}
	})

	t.Run("Service Before Enrollment Date Fails", func(t *testing.T) {
		claim := cleanClaim()
		claim.Provider.EnrollmentDate = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

		result := ValidateProviderEnrollment(claim, cat)
		assert.Equal(t, claims.StatusFailed, result.Status)
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], "precedes provider enrollment date")
	})

	t.Run("Zero Enrollment Date Skips The Date Check", func(t *testing.T) {
		claim := cleanClaim()
		claim.Provider.EnrollmentDate = time.Time{}

		result := ValidateProviderEnrollment(claim, cat)
		assert.Equal(t, claims.StatusPass, result.Status)
	})
}
