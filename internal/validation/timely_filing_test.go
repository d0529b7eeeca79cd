package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimshield/compliance-engine/internal/claims"
)

func TestValidateTimelyFiling(t *testing.T) {
	cat := defaultCatalog()

	t.Run("Within Window Passes", func(t *testing.T) {
		result := ValidateTimelyFiling(cleanClaim(), cat, testNow, 30)
		assert.Equal(t, claims.StatusPass, result.Status)
		require.NotNil(t, result.FilingDeadline)
		require.NotNil(t, result.DaysRemaining)
		assert.Greater(t, *result.DaysRemaining, 30)
	})

	t.Run("Medicare Claim 400 Days Old Fails", func(t *testing.T) {
		claim := cleanClaim()
		claim.ServiceLines[0].ServiceDate = testNow.AddDate(0, 0, -400)

		result := ValidateTimelyFiling(claim, cat, testNow, 30)
		assert.Equal(t, claims.StatusFailed, result.Status)
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], "filing deadline exceeded")
		assert.Contains(t, result.Issues[0], "365")
		require.NotNil(t, result.DaysRemaining)
		assert.Negative(t, *result.DaysRemaining)
	})

	t.Run("Inside Warning Buffer Warns", func(t *testing.T) {
		claim := cleanClaim()
		// 350 days elapsed of a 365-day limit leaves 15 days, inside the
		// 30-day buffer.
		claim.ServiceLines[0].ServiceDate = testNow.AddDate(0, 0, -350)

		result := ValidateTimelyFiling(claim, cat, testNow, 30)
		assert.Equal(t, claims.StatusWarning, result.Status)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "filing deadline approaching")
		require.NotNil(t, result.DaysRemaining)
		assert.Equal(t, 15, *result.DaysRemaining)
	})

	t.Run("Unknown Payer Uses Commercial Window", func(t *testing.T) {
		claim := cleanClaim()
		claim.Payer.Name = "Regional Health PPO"
		// 120 days exceeds the 90-day commercial window but not Medicare's.
		claim.ServiceLines[0].ServiceDate = testNow.AddDate(0, 0, -120)

		result := ValidateTimelyFiling(claim, cat, testNow, 30)
		assert.Equal(t, claims.StatusFailed, result.Status)
		assert.Contains(t, result.Issues[0], "commercial")
	})

	t.Run("Earliest Service Line Drives The Deadline", func(t *testing.T) {
		claim := cleanClaim()
		claim.ServiceLines = append(claim.ServiceLines, claims.ServiceLine{
			ProcedureCode:     "99213",
			Units:             1,
			ServiceDate:       testNow.AddDate(0, 0, -400),
			PlaceOfService:    "11",
			DiagnosisPointers: []int{1},
		})

		result := ValidateTimelyFiling(claim, cat, testNow, 30)
		assert.Equal(t, claims.StatusFailed, result.Status)
	})

	t.Run("No Service Lines Fails", func(t *testing.T) {
		claim := cleanClaim()
		claim.ServiceLines = nil

		result := ValidateTimelyFiling(claim, cat, testNow, 30)
		assert.Equal(t, claims.StatusFailed, result.Status)
		assert.Nil(t, result.FilingDeadline)
	})

	t.Run("Deadline Is Service Date Plus Limit", func(t *testing.T) {
		claim := cleanClaim()
		serviceDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		claim.ServiceLines[0].ServiceDate = serviceDate

		result := ValidateTimelyFiling(claim, cat, testNow, 30)
		require.NotNil(t, result.FilingDeadline)
		assert.Equal(t, serviceDate.AddDate(0, 0, 365), *result.FilingDeadline)
	})
}
