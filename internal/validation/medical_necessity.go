package validation

import (
	"fmt"

	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/claims"
)

// ValidateMedicalNecessity checks every service line against the catalog's
// high-risk diagnosis/procedure combinations, prior-authorization list, and
// age/gender restrictions. An unresolvable diagnosis pointer is reported as
// a missing-diagnosis issue, never a hard error.
func ValidateMedicalNecessity(snapshot *claims.ClaimSnapshot, cat *catalog.Catalog) claims.CategoryResult {
	result := claims.CategoryResult{
		Category: claims.CategoryMedicalNecessity,
		Status:   claims.StatusPass,
	}

	for i, line := range snapshot.ServiceLines {
		if len(line.DiagnosisPointers) == 0 {
			result.Issues = append(result.Issues,
				fmt.Sprintf("service line %d (%s) has no diagnosis pointer", i+1, line.ProcedureCode))
			continue
		}

		for _, pointer := range line.DiagnosisPointers {
			diagnosis, ok := snapshot.DiagnosisAt(pointer)
			if !ok {
				result.Issues = append(result.Issues,
					fmt.Sprintf("service line %d (%s) points to missing diagnosis position %d", i+1, line.ProcedureCode, pointer))
				continue
			}

			for _, rule := range cat.MedicalNecessity {
				if !rule.Matches(diagnosis.Code, line.ProcedureCode) {
					continue
				}
				if len(snapshot.Attachments) == 0 {
					result.Issues = append(result.Issues,
						fmt.Sprintf("diagnosis %s with procedure %s requires medical necessity documentation; none attached",
							diagnosis.Code, line.ProcedureCode))
				} else if !snapshot.HasAttachmentType(claims.AttachmentTypeMedicalNecessity) {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("diagnosis %s with procedure %s requires medical necessity documentation; attachments lack a medical necessity record",
							diagnosis.Code, line.ProcedureCode))
				}
			}
		}

		if cat.RequiresPriorAuth(line.ProcedureCode) && line.AuthorizationNumber == "" {
			result.Issues = append(result.Issues,
				fmt.Sprintf("procedure %s requires prior authorization; no authorization number on service line %d",
					line.ProcedureCode, i+1))
		}

		age := snapshot.Patient.AgeAt(line.ServiceDate)
		for _, restriction := range cat.AgeGenderRestrictions {
			if restriction.ProcedureCode != line.ProcedureCode {
				continue
			}
			if restriction.MinAge != nil && age < *restriction.MinAge {
				result.Issues = append(result.Issues,
					fmt.Sprintf("procedure %s is restricted to patients %d and older; patient is %d",
						line.ProcedureCode, *restriction.MinAge, age))
			}
			if restriction.MaxAge != nil && age > *restriction.MaxAge {
				result.Issues = append(result.Issues,
					fmt.Sprintf("procedure %s is restricted to patients %d and younger; patient is %d",
						line.ProcedureCode, *restriction.MaxAge, age))
			}
			if restriction.Gender != "" && snapshot.Patient.Gender != restriction.Gender {
				result.Issues = append(result.Issues,
					fmt.Sprintf("procedure %s is restricted to %s patients", line.ProcedureCode, restriction.Gender))
			}
		}
	}

	result.Status = statusFromFindings(result.Issues, result.Warnings)
	return result
}

// statusFromFindings derives a category status from accumulated findings:
// any issue fails the category, warnings alone downgrade it to warning.
func statusFromFindings(issues, warnings []string) claims.CategoryStatus {
	switch {
	case len(issues) > 0:
		return claims.StatusFailed
	case len(warnings) > 0:
		return claims.StatusWarning
	default:
		return claims.StatusPass
	}
}
