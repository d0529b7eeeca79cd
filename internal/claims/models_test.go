package claims

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientAgeAt(t *testing.T) {
	patient := Patient{DateOfBirth: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)}

	t.Run("Before Birthday", func(t *testing.T) {
		assert.Equal(t, 23, patient.AgeAt(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("On Birthday", func(t *testing.T) {
		assert.Equal(t, 24, patient.AgeAt(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("After Birthday", func(t *testing.T) {
		assert.Equal(t, 24, patient.AgeAt(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("Date Before Birth Clamps To Zero", func(t *testing.T) {
		assert.Equal(t, 0, patient.AgeAt(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
}

func TestEarliestServiceDate(t *testing.T) {
	t.Run("No Service Lines", func(t *testing.T) {
		snapshot := &ClaimSnapshot{}
		_, ok := snapshot.EarliestServiceDate()
		assert.False(t, ok)
	})

	t.Run("Earliest Of Several Lines", func(t *testing.T) {
		early := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		snapshot := &ClaimSnapshot{ServiceLines: []ServiceLine{
			{ServiceDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			{ServiceDate: early},
			{ServiceDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		}}
		got, ok := snapshot.EarliestServiceDate()
		require.True(t, ok)
		assert.Equal(t, early, got)
	})
}

func TestDiagnosisAt(t *testing.T) {
	snapshot := &ClaimSnapshot{Diagnoses: []DiagnosisCode{
		{Code: "I10", Pointer: 1},
		{Code: "E11.9", Pointer: 2},
	}}

	diagnosis, ok := snapshot.DiagnosisAt(2)
	require.True(t, ok)
	assert.Equal(t, "E11.9", diagnosis.Code)

	_, ok = snapshot.DiagnosisAt(7)
	assert.False(t, ok)
}

func TestHasAttachmentType(t *testing.T) {
	snapshot := &ClaimSnapshot{Attachments: []Attachment{
		{Type: "operative_note"},
		{Type: AttachmentTypeMedicalNecessity},
	}}
	assert.True(t, snapshot.HasAttachmentType(AttachmentTypeMedicalNecessity))
	assert.False(t, snapshot.HasAttachmentType("referral"))
}

func TestCategoryStatusOf(t *testing.T) {
	report := &ValidationReport{Categories: map[Category]CategoryResult{
		CategoryTimelyFiling: {Category: CategoryTimelyFiling, Status: StatusWarning},
	}}
	assert.Equal(t, StatusWarning, report.CategoryStatusOf(CategoryTimelyFiling))
	assert.Equal(t, StatusFailed, report.CategoryStatusOf(CategoryPayerCompliance),
		"an absent category must read as failed")
}
