package validation

import (
	"fmt"

	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/claims"
)

// ValidatePayerCompliance checks the claim against the required-field set
// for its resolved payer type. Missing fields are listed verbatim and each
// produces an issue; any absence fails the category.
func ValidatePayerCompliance(snapshot *claims.ClaimSnapshot, cat *catalog.Catalog) claims.CategoryResult {
	result := claims.CategoryResult{
		Category: claims.CategoryPayerCompliance,
		Status:   claims.StatusPass,
	}

	payerType := catalog.ResolvePayerType(snapshot.Payer.Name)
	for _, field := range cat.RequiredFieldsFor(payerType) {
		if fieldPresent(snapshot, field) {
			continue
		}
		result.MissingFields = append(result.MissingFields, field)
		result.Issues = append(result.Issues,
			fmt.Sprintf("required field %s is missing for payer type %s", field, payerType))
	}

	result.Status = statusFromFindings(result.Issues, result.Warnings)
	return result
}

func fieldPresent(snapshot *claims.ClaimSnapshot, field string) bool {
	switch field {
	case "NPI":
		return snapshot.Provider.NPI != ""
	case "taxonomy_code":
		return snapshot.Provider.TaxonomyCode != ""
	case "place_of_service":
		if len(snapshot.ServiceLines) == 0 {
			return false
		}
		for _, line := range snapshot.ServiceLines {
			if line.PlaceOfService == "" {
				return false
			}
		}
		return true
	case "referring_provider":
		return snapshot.ReferringProvider != nil && snapshot.ReferringProvider.NPI != ""
	case "authorization_number":
		if len(snapshot.ServiceLines) == 0 {
			return false
		}
		for _, line := range snapshot.ServiceLines {
			if line.AuthorizationNumber == "" {
				return false
			}
		}
		return true
	default:
		// Unknown catalog fields are treated as absent so a catalog typo
		// surfaces as a visible failure instead of a silent pass.
		return false
	}
}
