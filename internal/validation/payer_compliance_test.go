package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimshield/compliance-engine/internal/claims"
)

func TestValidatePayerCompliance(t *testing.T) {
	cat := defaultCatalog()

	t.Run("Complete Medicare Claim Passes", func(t *testing.T) {
		result := ValidatePayerCompliance(cleanClaim(), cat)
		assert.Equal(t, claims.StatusPass, result.Status)
		assert.Empty(t, result.MissingFields)
	})

	t.Run("Medicare Claim Missing NPI Fails With Field Listed", func(t *testing.T) {
		claim := cleanClaim()
		claim.Provider.NPI = ""

		result := ValidatePayerCompliance(claim, cat)
		assert.Equal(t, claims.StatusFailed, result.Status)
		assert.Contains(t, result.MissingFields, "NPI")
		require.Len(t, result.Issues, 1)
		assert.Contains(t, result.Issues[0], "NPI")
		assert.Contains(t, result.Issues[0], "medicare")
	})

	t.Run("Medicaid Requires Referring Provider", func(t *testing.T) {
		claim := cleanClaim()
		claim.Payer.Name = "State Medicaid"

		result := ValidatePayerCompliance(claim, cat)
		assert.Equal(t, claims.StatusFailed, result.Status)
		assert.Contains(t, result.MissingFields, "referring_provider")
	})

	t.Run("Medicaid With Referring Provider Passes", func(t *testing.T) {
		claim := cleanClaim()
		claim.Payer.Name = "State Medicaid"
		claim.ReferringProvider = &claims.ReferringProvider{NPI: "9876543210", Name: "Dr. Referrer"}

		result := ValidatePayerCompliance(claim, cat)
		assert.Equal(t, claims.StatusPass, result.Status)
	})

	t.Run("TRICARE Requires Authorization On Every Line", func(t *testing.T) {
		claim := cleanClaim()
		claim.Payer.Name = "TRICARE West"

		result := ValidatePayerCompliance(claim, cat)
		assert.Equal(t, claims.StatusFailed, result.Status)
		assert.Contains(t, result.MissingFields, "authorization_number")

		claim.ServiceLines[0].AuthorizationNumber = "AUTH-1"
		result = ValidatePayerCompliance(claim, cat)
		assert.Equal(t, claims.StatusPass, result.Status)
	})

	t.Run("Unknown Payer Uses Commercial Requirements", func(t *testing.T) {
		claim := cleanClaim()
		claim.Payer.Name = "Regional Health PPO"
		claim.Provider.TaxonomyCode = ""

		// Commercial requires only NPI and place of service.
		result := ValidatePayerCompliance(claim, cat)
		assert.Equal(t, claims.StatusPass, result.Status)
	})

	t.Run("Partially Populated Place Of Service Fails", func(t *testing.T) {
		claim := cleanClaim()
		claim.ServiceLines = append(claim.ServiceLines, claims.ServiceLine{
			ProcedureCode:     "99213",
			Units:             1,
			ServiceDate:       claim.ServiceLines[0].ServiceDate,
			DiagnosisPointers: []int{1},
		})

		result := ValidatePayerCompliance(claim, cat)
		assert.Equal(t, claims.StatusFailed, result.Status)
		assert.Contains(t, result.MissingFields, "place_of_service")
	})
}
