package validation

import (
	"math"

	"github.com/claimshield/compliance-engine/internal/claims"
)

// completenessChecks is the payer-agnostic checklist of claim elements. The
// completeness score is the fraction of satisfied checks, scaled to 0-100.
var completenessChecks = []struct {
	element string
	present func(*claims.ClaimSnapshot) bool
}{
	{"patient identity", func(c *claims.ClaimSnapshot) bool {
		return c.Patient.ID != "" && !c.Patient.DateOfBirth.IsZero()
	}},
	{"provider identity", func(c *claims.ClaimSnapshot) bool {
		return c.Provider.NPI != ""
	}},
	{"payer identity", func(c *claims.ClaimSnapshot) bool {
		return c.Payer.Name != ""
	}},
	{"service lines", func(c *claims.ClaimSnapshot) bool {
		return len(c.ServiceLines) > 0
	}},
	{"procedure codes", func(c *claims.ClaimSnapshot) bool {
		if len(c.ServiceLines) == 0 {
			return false
		}
		for _, line := range c.ServiceLines {
			if line.ProcedureCode == "" {
				return false
			}
		}
		return true
	}},
	{"diagnosis codes", func(c *claims.ClaimSnapshot) bool {
		return len(c.Diagnoses) > 0
	}},
	{"charge amounts", func(c *claims.ClaimSnapshot) bool {
		if len(c.ServiceLines) == 0 {
			return false
		}
		for _, line := range c.ServiceLines {
			if line.ChargeAmount < 0 {
				return false
			}
		}
		return true
	}},
}

// ValidateClaimCompleteness scores the claim against the element checklist.
// Claims below the configured threshold require review rather than failing
// outright: an incomplete claim is correctable, not dispositive.
func ValidateClaimCompleteness(snapshot *claims.ClaimSnapshot, threshold float64) claims.CategoryResult {
	result := claims.CategoryResult{
		Category: claims.CategoryClaimCompleteness,
		Status:   claims.StatusPass,
	}

	present := 0
	for _, check := range completenessChecks {
		if check.present(snapshot) {
			present++
			continue
		}
		result.MissingElements = append(result.MissingElements, check.element)
	}

	score := round2(float64(present) / float64(len(completenessChecks)) * 100)
	result.CompletenessScore = &score

	if score < threshold {
		result.Status = claims.StatusReviewRequired
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
