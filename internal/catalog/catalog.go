package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PayerType classifies a payer for rule selection.
type PayerType string

const (
	PayerMedicare    PayerType = "medicare"
	PayerMedicaid    PayerType = "medicaid"
	PayerTricare     PayerType = "tricare"
	PayerWorkersComp PayerType = "workers_comp"
	PayerCommercial  PayerType = "commercial"
)

// ResolvePayerType derives a payer type from the payer name via keyword
// matching. Unknown payers fall back to the commercial rule set.
func ResolvePayerType(payerName string) PayerType {
	name := strings.ToLower(payerName)
	switch {
	case strings.Contains(name, "medicare"):
		return PayerMedicare
	case strings.Contains(name, "medicaid"):
		return PayerMedicaid
	case strings.Contains(name, "tricare"):
		return PayerTricare
	case strings.Contains(name, "workers comp"), strings.Contains(name, "workers' comp"), strings.Contains(name, "workers compensation"):
		return PayerWorkersComp
	default:
		return PayerCommercial
	}
}

// MedicalNecessityRule flags a high-risk diagnosis/procedure combination
// that requires documented justification. DiagnosisPrefix matches the start
// of the pointed ICD-10 code; an empty ProcedureCodes list applies the rule
// to every procedure.
type MedicalNecessityRule struct {
	DiagnosisPrefix string   `yaml:"diagnosis_prefix" json:"diagnosis_prefix"`
	ProcedureCodes  []string `yaml:"procedure_codes" json:"procedure_codes"`
	Description     string   `yaml:"description" json:"description"`
}

// Matches reports whether the rule applies to the given diagnosis code and
// procedure code pair.
func (r MedicalNecessityRule) Matches(diagnosisCode, procedureCode string) bool {
	if !strings.HasPrefix(diagnosisCode, r.DiagnosisPrefix) {
		return false
	}
	if len(r.ProcedureCodes) == 0 {
		return true
	}
	for _, code := range r.ProcedureCodes {
		if code == procedureCode {
			return true
		}
	}
	return false
}

// AgeGenderRestriction limits a procedure to an age range and/or gender.
// Nil age bounds mean unbounded; an empty gender means any.
type AgeGenderRestriction struct {
	ProcedureCode string `yaml:"procedure_code" json:"procedure_code"`
	MinAge        *int   `yaml:"min_age" json:"min_age,omitempty"`
	MaxAge        *int   `yaml:"max_age" json:"max_age,omitempty"`
	Gender        string `yaml:"gender" json:"gender,omitempty"`
	Description   string `yaml:"description" json:"description"`
}

// AgeBracketLimit is an age-dependent frequency ceiling.
type AgeBracketLimit struct {
	MinAge    int    `yaml:"min_age" json:"min_age"`
	MaxAge    int    `yaml:"max_age" json:"max_age"`
	AnnualMax int    `yaml:"annual_max" json:"annual_max"`
	Label     string `yaml:"label" json:"label"`
}

// FrequencyLimit holds the ceilings governing a procedure code. A zero
// ceiling means the limit type does not apply.
type FrequencyLimit struct {
	ProcedureCode string            `yaml:"procedure_code" json:"procedure_code"`
	DailyMax      int               `yaml:"daily_max" json:"daily_max"`
	AnnualMax     int               `yaml:"annual_max" json:"annual_max"`
	LifetimeMax   int               `yaml:"lifetime_max" json:"lifetime_max"`
	AgeBrackets   []AgeBracketLimit `yaml:"age_brackets" json:"age_brackets,omitempty"`
}

// Catalog is the immutable, versioned rule configuration consumed by the
// validators. Rules are data, not code: the engine refuses to run with an
// inconsistent catalog but never hard-codes payer or procedure branches.
type Catalog struct {
	Version               string                 `yaml:"version"`
	MedicalNecessity      []MedicalNecessityRule `yaml:"medical_necessity"`
	PriorAuthProcedures   []string               `yaml:"prior_auth_procedures"`
	AgeGenderRestrictions []AgeGenderRestriction `yaml:"age_gender_restrictions"`
	FilingLimitDays       map[PayerType]int      `yaml:"filing_limit_days"`
	FrequencyLimits       []FrequencyLimit       `yaml:"frequency_limits"`
	EnrollmentBillable    map[string]bool        `yaml:"enrollment_billable"`
	RequiredFields        map[PayerType][]string `yaml:"required_fields"`
}

// Load reads and validates a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse rule catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule catalog %q: %w", path, err)
	}
	return &cat, nil
}

// Validate checks internal consistency. A malformed catalog is a fatal
// configuration error: validating claims against it would mask bugs.
func (c *Catalog) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("catalog version is required")
	}
	if len(c.FilingLimitDays) == 0 {
		return fmt.Errorf("filing limits are required")
	}
	if _, ok := c.FilingLimitDays[PayerCommercial]; !ok {
		return fmt.Errorf("filing limit for the commercial fallback payer type is required")
	}
	for payerType, days := range c.FilingLimitDays {
		if days <= 0 {
			return fmt.Errorf("filing limit for payer type %q must be positive, got %d", payerType, days)
		}
	}
	for _, rule := range c.MedicalNecessity {
		if rule.DiagnosisPrefix == "" {
			return fmt.Errorf("medical necessity rule %q has an empty diagnosis prefix", rule.Description)
		}
	}
	for _, restriction := range c.AgeGenderRestrictions {
		if restriction.ProcedureCode == "" {
			return fmt.Errorf("age/gender restriction %q has no procedure code", restriction.Description)
		}
		if restriction.MinAge != nil && restriction.MaxAge != nil && *restriction.MinAge > *restriction.MaxAge {
			return fmt.Errorf("age/gender restriction for %s has min age %d above max age %d",
				restriction.ProcedureCode, *restriction.MinAge, *restriction.MaxAge)
		}
	}
	seen := make(map[string]bool, len(c.FrequencyLimits))
	for _, limit := range c.FrequencyLimits {
		if limit.ProcedureCode == "" {
			return fmt.Errorf("frequency limit with no procedure code")
		}
		if seen[limit.ProcedureCode] {
			return fmt.Errorf("duplicate frequency limit for procedure %s", limit.ProcedureCode)
		}
		seen[limit.ProcedureCode] = true
		if limit.DailyMax < 0 || limit.AnnualMax < 0 || limit.LifetimeMax < 0 {
			return fmt.Errorf("negative frequency ceiling for procedure %s", limit.ProcedureCode)
		}
		for _, bracket := range limit.AgeBrackets {
			if bracket.MinAge > bracket.MaxAge {
				return fmt.Errorf("frequency limit for %s has inverted age bracket %d-%d",
					limit.ProcedureCode, bracket.MinAge, bracket.MaxAge)
			}
		}
	}
	if len(c.EnrollmentBillable) == 0 {
		return fmt.Errorf("enrollment status table is required")
	}
	return nil
}

// FilingLimitFor returns the timely-filing window in days for a payer type,
// falling back to the commercial window for unknown types.
func (c *Catalog) FilingLimitFor(payerType PayerType) int {
	if days, ok := c.FilingLimitDays[payerType]; ok {
		return days
	}
	return c.FilingLimitDays[PayerCommercial]
}

// FrequencyLimitFor returns the frequency ceilings for a procedure code.
func (c *Catalog) FrequencyLimitFor(procedureCode string) (FrequencyLimit, bool) {
	for _, limit := range c.FrequencyLimits {
		if limit.ProcedureCode == procedureCode {
			return limit, true
		}
	}
	return FrequencyLimit{}, false
}

// RequiresPriorAuth reports whether a procedure is on the prior
// authorization list.
func (c *Catalog) RequiresPriorAuth(procedureCode string) bool {
	for _, code := range c.PriorAuthProcedures {
		if code == procedureCode {
			return true
		}
	}
	return false
}

// IsBillableStatus reports whether the enrollment status permits billing.
// Unknown statuses are not billable.
func (c *Catalog) IsBillableStatus(status string) bool {
	return c.EnrollmentBillable[strings.ToLower(status)]
}

// RequiredFieldsFor returns the required-field set for a payer type, falling
// back to the commercial set for unknown types.
func (c *Catalog) RequiredFieldsFor(payerType PayerType) []string {
	if fields, ok := c.RequiredFields[payerType]; ok {
		return fields
	}
	return c.RequiredFields[PayerCommercial]
}
