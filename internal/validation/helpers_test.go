package validation

import (
	"time"

	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/config"
)

// testNow is the fixed reference instant used across validator tests.
var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		CategoryWeights: map[string]float64{
			"medical_necessity":   0.20,
			"timely_filing":       0.20,
			"provider_enrollment": 0.20,
			"frequency_limits":    0.15,
			"payer_compliance":    0.15,
			"claim_completeness":  0.10,
		},
		RiskThresholds:          config.RiskThresholds{Critical: 90, High: 70, Medium: 40},
		CompletenessThreshold:   90,
		FilingWarningBufferDays: 30,
		BatchConcurrency:        4,
	}
}

func testWeights() map[claims.Category]float64 {
	weights := make(map[claims.Category]float64)
	for name, weight := range testEngineConfig().CategoryWeights {
		weights[claims.Category(name)] = weight
	}
	return weights
}

// cleanClaim builds a Medicare claim that passes all six categories when
// validated at testNow against the default catalog.
func cleanClaim() *claims.ClaimSnapshot {
	return &claims.ClaimSnapshot{
		ClaimID: "CLM-1001",
		Patient: claims.Patient{
			ID:          "PAT-1",
			DateOfBirth: time.Date(1980, 3, 10, 0, 0, 0, 0, time.UTC),
			Gender:      "male",
		},
		Provider: claims.Provider{
			NPI:              "1234567890",
			TaxonomyCode:     "207Q00000X",
			EnrollmentStatus: "active",
			EnrollmentDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Payer: claims.Payer{ID: "PAY-MCR", Name: "Medicare Part B"},
		ServiceLines: []claims.ServiceLine{
			{
				ProcedureCode:     "99213",
				Units:             1,
				ChargeAmount:      125.00,
				ServiceDate:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				PlaceOfService:    "11",
				DiagnosisPointers: []int{1},
			},
		},
		Diagnoses: []claims.DiagnosisCode{
			{Code: "I10", Pointer: 1},
		},
	}
}

func defaultCatalog() *catalog.Catalog {
	return catalog.Default()
}
