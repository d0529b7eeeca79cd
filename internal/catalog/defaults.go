package catalog

func intPtr(v int) *int { return &v }

// Default returns the built-in rule catalog used when no catalog file is
// configured. It mirrors the shipped configs/catalog.yaml.
func Default() *Catalog {
	return &Catalog{
		Version: "2024.1",
		MedicalNecessity: []MedicalNecessityRule{
			{
				DiagnosisPrefix: "M54",
				ProcedureCodes:  []string{"97110", "97140", "98940"},
				Description:     "Dorsalgia with therapeutic exercise or manipulation requires documented medical necessity",
			},
			{
				DiagnosisPrefix: "F32",
				ProcedureCodes:  []string{"90837"},
				Description:     "Extended psychotherapy for depressive episodes requires documented medical necessity",
			},
			{
				DiagnosisPrefix: "Z00",
				Description:     "Procedures billed against general-examination diagnoses require documented medical necessity",
			},
		},
		PriorAuthProcedures: []string{"27447", "29881", "70553", "97810"},
		AgeGenderRestrictions: []AgeGenderRestriction{
			{ProcedureCode: "90460", MaxAge: intPtr(18), Description: "Immunization administration with counseling is limited to patients through age 18"},
			{ProcedureCode: "99397", MinAge: intPtr(65), Description: "Preventive visit 99397 is limited to patients 65 and older"},
			{ProcedureCode: "76801", Gender: "female", Description: "Obstetric ultrasound is limited to female patients"},
			{ProcedureCode: "55250", Gender: "male", Description: "Vasectomy is limited to male patients"},
		},
		FilingLimitDays: map[PayerType]int{
			PayerMedicare:    365,
			PayerMedicaid:    180,
			PayerTricare:     365,
			PayerWorkersComp: 730,
			PayerCommercial:  90,
		},
		FrequencyLimits: []FrequencyLimit{
			{
				ProcedureCode: "97110",
				DailyMax:      4,
				AnnualMax:     60,
				AgeBrackets: []AgeBracketLimit{
					{MinAge: 0, MaxAge: 17, AnnualMax: 30, Label: "pediatric"},
					{MinAge: 18, MaxAge: 120, AnnualMax: 60, Label: "adult"},
				},
			},
			{ProcedureCode: "99213", DailyMax: 1},
			{ProcedureCode: "D0120", AnnualMax: 2},
			{ProcedureCode: "27447", LifetimeMax: 2},
			{
				ProcedureCode: "90460",
				DailyMax:      3,
				AgeBrackets: []AgeBracketLimit{
					{MinAge: 0, MaxAge: 6, AnnualMax: 10, Label: "early childhood"},
					{MinAge: 7, MaxAge: 18, AnnualMax: 4, Label: "school age"},
				},
			},
		},
		EnrollmentBillable: map[string]bool{
			"active":      true,
			"pending":     false,
			"suspended":   false,
			"terminated":  false,
			"deactivated": false,
		},
		RequiredFields: map[PayerType][]string{
			PayerMedicare:    {"NPI", "taxonomy_code", "place_of_service"},
			PayerMedicaid:    {"NPI", "taxonomy_code", "place_of_service", "referring_provider"},
			PayerTricare:     {"NPI", "place_of_service", "authorization_number"},
			PayerWorkersComp: {"NPI", "place_of_service", "authorization_number", "referring_provider"},
			PayerCommercial:  {"NPI", "place_of_service"},
		},
	}
}
