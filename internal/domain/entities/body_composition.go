package entities

// BodyCompositionValues are the fields recovered from a bioimpedance print.
// Every field is optional; nil means the label was not found.
type BodyCompositionValues struct {
	EvaluationDate         *string  `json:"evaluation_date,omitempty" yaml:"evaluation_date,omitempty"`
	WeightKg               *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	BodyFatPercent         *float64 `json:"body_fat_percent,omitempty" yaml:"body_fat_percent,omitempty"`
	LeanMassKg             *float64 `json:"lean_mass_kg,omitempty" yaml:"lean_mass_kg,omitempty"`
	MuscleMassKg           *float64 `json:"muscle_mass_kg,omitempty" yaml:"muscle_mass_kg,omitempty"`
	BodyWaterPercent       *float64 `json:"body_water_percent,omitempty" yaml:"body_water_percent,omitempty"`
	VisceralFatLevel       *float64 `json:"visceral_fat_level,omitempty" yaml:"visceral_fat_level,omitempty"`
	BMI                    *float64 `json:"bmi,omitempty" yaml:"bmi,omitempty"`
	BasalMetabolicRateKcal *float64 `json:"basal_metabolic_rate_kcal,omitempty" yaml:"basal_metabolic_rate_kcal,omitempty"`
}

// BodyCompositionOcrResult is the best-effort extraction handed back to the
// form. It is never persisted.
type BodyCompositionOcrResult struct {
	Values     BodyCompositionValues `json:"values" yaml:"values"`
	Warnings   []string              `json:"warnings" yaml:"warnings"`
	Confidence float64               `json:"confidence" yaml:"confidence"`
	RawText    string                `json:"raw_text" yaml:"raw_text"`
	// PhotoKey is the archived object key when the input was an image.
	PhotoKey string `json:"photo_key,omitempty" yaml:"photo_key,omitempty"`
}
