package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/claims"
)

// ValidateFrequencyLimits evaluates the daily, annual, lifetime, and
// age-based ceilings governing each billed procedure. A procedure may be
// governed by several limit types at once; every breached limit produces its
// own issue carrying the measured frequency and the ceiling that was
// exceeded, so reporting can show exactly which rule fired.
func ValidateFrequencyLimits(snapshot *claims.ClaimSnapshot, cat *catalog.Catalog, history *claims.PatientHistory) claims.CategoryResult {
	result := claims.CategoryResult{
		Category: claims.CategoryFrequencyLimits,
		Status:   claims.StatusPass,
	}

	// Daily ceilings apply to units within a single service line.
	for i, line := range snapshot.ServiceLines {
		limit, ok := cat.FrequencyLimitFor(line.ProcedureCode)
		if !ok || limit.DailyMax <= 0 {
			continue
		}
		if line.Units > limit.DailyMax {
			result.Issues = append(result.Issues,
				fmt.Sprintf("procedure %s on service line %d billed %d units on %s, exceeding the daily limit of %d",
					line.ProcedureCode, i+1, line.Units, line.ServiceDate.Format("2006-01-02"), limit.DailyMax))
		}
	}

	// Cumulative ceilings combine patient history with the current claim,
	// evaluated once per distinct procedure code. Annual ceilings are checked
	// for every calendar year the code is billed in, so a claim spanning a
	// year boundary has each year's total evaluated.
	for _, code := range distinctProcedureCodes(snapshot) {
		limit, ok := cat.FrequencyLimitFor(code)
		if !ok {
			continue
		}

		years := claimServiceYears(snapshot, code)

		if limit.AnnualMax > 0 {
			for _, year := range years {
				annual := claimUnitsInYear(snapshot, code, year) + historyUnits(history, code, year)
				if annual > limit.AnnualMax {
					result.Issues = append(result.Issues,
						fmt.Sprintf("procedure %s totals %d units in %d, exceeding the annual limit of %d",
							code, annual, year, limit.AnnualMax))
				}
			}
		}

		if limit.LifetimeMax > 0 {
			lifetime := claimUnitsFor(snapshot, code) + historyUnits(history, code, 0)
			if lifetime > limit.LifetimeMax {
				result.Issues = append(result.Issues,
					fmt.Sprintf("procedure %s totals %d lifetime units, exceeding the lifetime limit of %d",
						code, lifetime, limit.LifetimeMax))
			}
		}

		if len(limit.AgeBrackets) > 0 {
			for _, year := range years {
				age := snapshot.Patient.AgeAt(firstServiceInYear(snapshot, code, year))
				annual := claimUnitsInYear(snapshot, code, year) + historyUnits(history, code, year)
				for _, bracket := range limit.AgeBrackets {
					if age < bracket.MinAge || age > bracket.MaxAge {
						continue
					}
					if annual > bracket.AnnualMax {
						result.Issues = append(result.Issues,
							fmt.Sprintf("procedure %s totals %d units in %d for a %s patient (age %d), exceeding the %s limit of %d",
								code, annual, year, bracket.Label, age, bracket.Label, bracket.AnnualMax))
					}
				}
			}
		}
	}

	result.Status = statusFromFindings(result.Issues, result.Warnings)
	return result
}

func distinctProcedureCodes(snapshot *claims.ClaimSnapshot) []string {
	seen := make(map[string]bool, len(snapshot.ServiceLines))
	var codes []string
	for _, line := range snapshot.ServiceLines {
		if line.ProcedureCode == "" || seen[line.ProcedureCode] {
			continue
		}
		seen[line.ProcedureCode] = true
		codes = append(codes, line.ProcedureCode)
	}
	sort.Strings(codes)
	return codes
}

// claimUnitsFor sums the units billed for a code on the current claim.
func claimUnitsFor(snapshot *claims.ClaimSnapshot, code string) int {
	units := 0
	for _, line := range snapshot.ServiceLines {
		if line.ProcedureCode == code {
			units += line.Units
		}
	}
	return units
}

// claimServiceYears lists the distinct calendar years the code is billed in,
// ascending.
func claimServiceYears(snapshot *claims.ClaimSnapshot, code string) []int {
	seen := make(map[int]bool)
	var years []int
	for _, line := range snapshot.ServiceLines {
		year := line.ServiceDate.Year()
		if line.ProcedureCode != code || seen[year] {
			continue
		}
		seen[year] = true
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// firstServiceInYear returns the earliest service date for the code within
// the given year.
func firstServiceInYear(snapshot *claims.ClaimSnapshot, code string, year int) time.Time {
	var first time.Time
	for _, line := range snapshot.ServiceLines {
		if line.ProcedureCode != code || line.ServiceDate.Year() != year {
			continue
		}
		if first.IsZero() || line.ServiceDate.Before(first) {
			first = line.ServiceDate
		}
	}
	return first
}

func claimUnitsInYear(snapshot *claims.ClaimSnapshot, code string, year int) int {
	total := 0
	for _, line := range snapshot.ServiceLines {
		if line.ProcedureCode == code && line.ServiceDate.Year() == year {
			total += line.Units
		}
	}
	return total
}

// historyUnits sums prior units for a code; a zero year sums the full
// history (lifetime), otherwise only the given calendar year.
func historyUnits(history *claims.PatientHistory, code string, year int) int {
	if history == nil {
		return 0
	}
	total := 0
	for _, entry := range history.Entries {
		if entry.ProcedureCode != code {
			continue
		}
		if year != 0 && entry.ServiceDate.Year() != year {
			continue
		}
		total += entry.Units
	}
	return total
}
