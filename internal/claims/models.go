package claims

import (
	"time"
)

// CategoryStatus is the outcome of a single validation category.
type CategoryStatus string

const (
	StatusPass           CategoryStatus = "pass"
	StatusWarning        CategoryStatus = "warning"
	StatusReviewRequired CategoryStatus = "review_required"
	StatusFailed         CategoryStatus = "failed"
)

// Category identifies one of the six validation categories.
type Category string

const (
	CategoryMedicalNecessity   Category = "medical_necessity"
	CategoryTimelyFiling       Category = "timely_filing"
	CategoryProviderEnrollment Category = "provider_enrollment"
	CategoryFrequencyLimits    Category = "frequency_limits"
	CategoryPayerCompliance    Category = "payer_compliance"
	CategoryClaimCompleteness  Category = "claim_completeness"
)

// Categories lists all validation categories in their canonical evaluation
// order. Aggregation and reporting iterate in this order so output is
// deterministic.
var Categories = []Category{
	CategoryMedicalNecessity,
	CategoryTimelyFiling,
	CategoryProviderEnrollment,
	CategoryFrequencyLimits,
	CategoryPayerCompliance,
	CategoryClaimCompleteness,
}

// RiskLevel classifies an aggregated risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Patient contains the demographics needed for age and gender rules.
type Patient struct {
	ID          string    `json:"id"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender"`
}

// AgeAt returns the patient's age in whole years as of the given date.
func (p Patient) AgeAt(date time.Time) int {
	age := date.Year() - p.DateOfBirth.Year()
	anniversary := time.Date(date.Year(), p.DateOfBirth.Month(), p.DateOfBirth.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(anniversary) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// Provider identifies the rendering provider on a claim.
type Provider struct {
	NPI              string    `json:"npi" binding:"omitempty,npi"`
	TaxonomyCode     string    `json:"taxonomy_code"`
	EnrollmentStatus string    `json:"enrollment_status"`
	EnrollmentDate   time.Time `json:"enrollment_date"`
}

// ReferringProvider is the optional referring provider on a claim.
type ReferringProvider struct {
	NPI  string `json:"npi" binding:"omitempty,npi"`
	Name string `json:"name"`
}

// Payer identifies the payer a claim is billed to.
type Payer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServiceLine is a single billed service on a claim.
type ServiceLine struct {
	ProcedureCode       string    `json:"procedure_code"`
	Units               int       `json:"units"`
	ChargeAmount        float64   `json:"charge_amount"`
	ServiceDate         time.Time `json:"service_date"`
	PlaceOfService      string    `json:"place_of_service"`
	DiagnosisPointers   []int     `json:"diagnosis_pointers"`
	AuthorizationNumber string    `json:"authorization_number,omitempty"`
}

// DiagnosisCode is an ICD-10 code with its pointer position on the claim.
type DiagnosisCode struct {
	Code    string `json:"code"`
	Pointer int    `json:"pointer"`
}

// Attachment is supporting documentation submitted with a claim.
type Attachment struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// AttachmentTypeMedicalNecessity marks documentation justifying medical
// necessity for high-risk diagnosis/procedure combinations.
const AttachmentTypeMedicalNecessity = "medical_necessity"

// ClaimSnapshot is the immutable input to a validation run. Revalidation
// creates a new snapshot; the engine never mutates one.
type ClaimSnapshot struct {
	ClaimID           string             `json:"claim_id"`
	Patient           Patient            `json:"patient"`
	Provider          Provider           `json:"provider"`
	ReferringProvider *ReferringProvider `json:"referring_provider,omitempty"`
	Payer             Payer              `json:"payer"`
	ServiceLines      []ServiceLine      `json:"service_lines"`
	Diagnoses         []DiagnosisCode    `json:"diagnoses"`
	Attachments       []Attachment       `json:"attachments,omitempty"`
}

// EarliestServiceDate returns the earliest service-line date on the claim.
// The second return value is false when the claim has no service lines.
func (c *ClaimSnapshot) EarliestServiceDate() (time.Time, bool) {
	if len(c.ServiceLines) == 0 {
		return time.Time{}, false
	}
	earliest := c.ServiceLines[0].ServiceDate
	for _, line := range c.ServiceLines[1:] {
		if line.ServiceDate.Before(earliest) {
			earliest = line.ServiceDate
		}
	}
	return earliest, true
}

// DiagnosisAt resolves a diagnosis pointer to its code.
func (c *ClaimSnapshot) DiagnosisAt(pointer int) (DiagnosisCode, bool) {
	for _, d := range c.Diagnoses {
		if d.Pointer == pointer {
			return d, true
		}
	}
	return DiagnosisCode{}, false
}

// HasAttachmentType reports whether any attachment of the given type is
// present on the claim.
func (c *ClaimSnapshot) HasAttachmentType(attachmentType string) bool {
	for _, a := range c.Attachments {
		if a.Type == attachmentType {
			return true
		}
	}
	return false
}

// HistoryEntry is a prior service from the patient's billing history.
type HistoryEntry struct {
	ProcedureCode string    `json:"procedure_code"`
	ServiceDate   time.Time `json:"service_date"`
	Units         int       `json:"units"`
}

// PatientHistory carries prior services used by frequency checks.
type PatientHistory struct {
	PatientID string         `json:"patient_id"`
	Entries   []HistoryEntry `json:"entries"`
}

// CategoryResult is the outcome of one validator for one claim.
type CategoryResult struct {
	Category Category       `json:"category"`
	Status   CategoryStatus `json:"status"`
	Issues   []string       `json:"issues,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`

	// Category-specific fields.
	FilingDeadline    *time.Time `json:"filing_deadline,omitempty"`
	DaysRemaining     *int       `json:"days_remaining,omitempty"`
	CompletenessScore *float64   `json:"completeness_score,omitempty"`
	MissingElements   []string   `json:"missing_elements,omitempty"`
	MissingFields     []string   `json:"missing_fields,omitempty"`
}

// RiskFactor is one contributing factor in a risk assessment, generated for
// every category that is not a clean pass.
type RiskFactor struct {
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	RiskLevel   RiskLevel `json:"risk_level"`
}

// Pattern is a recurring risk-factor cluster detected across claims.
type Pattern struct {
	Category    Category `json:"category"`
	Occurrences int      `json:"occurrences"`
	Trend       string   `json:"trend"`
	Description string   `json:"description"`
}

// RiskAssessment aggregates category results into a weighted risk view.
type RiskAssessment struct {
	OverallRisk      RiskLevel    `json:"overall_risk"`
	RiskScore        float64      `json:"risk_score"`
	RiskFactors      []RiskFactor `json:"risk_factors"`
	PatternsDetected []Pattern    `json:"patterns_detected,omitempty"`
	Recommendations  []string     `json:"recommendations"`
}

// ValidationReport is the per-claim terminal artifact. It is immutable once
// produced; persistence belongs to the caller.
type ValidationReport struct {
	ID              string                      `json:"id"`
	ClaimID         string                      `json:"claim_id"`
	CatalogVersion  string                      `json:"catalog_version"`
	ValidatedAt     time.Time                   `json:"validated_at"`
	OverallStatus   CategoryStatus              `json:"overall_status"`
	ComplianceScore float64                     `json:"compliance_score"`
	Categories      map[Category]CategoryResult `json:"validation_categories"`
	RiskAssessment  RiskAssessment              `json:"risk_assessment"`
	Recommendations []string                    `json:"recommendations"`
}

// CategoryStatusOf returns the status of the named category, defaulting to
// failed when the category is absent from the report.
func (r *ValidationReport) CategoryStatusOf(cat Category) CategoryStatus {
	if result, ok := r.Categories[cat]; ok {
		return result.Status
	}
	return StatusFailed
}
