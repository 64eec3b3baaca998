package ocr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aigymos/gym-console/internal/domain/entities"
)

const (
	// TotalFields is the confidence denominator: eight measurements plus the date.
	TotalFields = 9
	// FewFieldsThreshold triggers the manual-review warning when recovered <= it.
	FewFieldsThreshold = 2

	WarningMissingDate = "Nao foi possivel identificar a data da avaliacao. Usando data atual."
	WarningFewFields   = "Poucos campos foram reconhecidos. Revise os dados manualmente."
)

// labelled builds a case-insensitive "label [:-] number" pattern.
func labelled(labels, number string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + labels + `)\s*[:\-]?\s*(` + number + `(?:[.,]\d+)?)`)
}

type fieldRule struct {
	name     string
	patterns []*regexp.Regexp
	target   func(v *entities.BodyCompositionValues) **float64
}

// fieldRules is evaluated per field; the first matching pattern wins.
var fieldRules = []fieldRule{
	{
		name:     "weight_kg",
		patterns: []*regexp.Regexp{labelled(`peso|weight`, `\d{2,3}`)},
		target:   func(v *entities.BodyCompositionValues) **float64 { return &v.WeightKg },
	},
	{
		name: "body_fat_percent",
		patterns: []*regexp.Regexp{
			labelled(`gordura(?: corporal)?|body fat|bf`, `\d{1,2}`),
			labelled(`% gordura|%fat`, `\d{1,2}`),
		},
		target: func(v *entities.BodyCompositionValues) **float64 { return &v.BodyFatPercent },
	},
	{
		name:     "lean_mass_kg",
		patterns: []*regexp.Regexp{labelled(`massa magra|lean mass`, `\d{2,3}`)},
		target:   func(v *entities.BodyCompositionValues) **float64 { return &v.LeanMassKg },
	},
	{
		name:     "muscle_mass_kg",
		patterns: []*regexp.Regexp{labelled(`massa muscular|muscle mass`, `\d{2,3}`)},
		target:   func(v *entities.BodyCompositionValues) **float64 { return &v.MuscleMassKg },
	},
	{
		name:     "body_water_percent",
		patterns: []*regexp.Regexp{labelled(`agua corporal|body water|% agua`, `\d{1,2}`)},
		target:   func(v *entities.BodyCompositionValues) **float64 { return &v.BodyWaterPercent },
	},
	{
		name:     "visceral_fat_level",
		patterns: []*regexp.Regexp{labelled(`gordura visceral|visceral fat`, `\d{1,2}`)},
		target:   func(v *entities.BodyCompositionValues) **float64 { return &v.VisceralFatLevel },
	},
	{
		name:     "bmi",
		patterns: []*regexp.Regexp{labelled(`imc|bmi`, `\d{1,2}`)},
		target:   func(v *entities.BodyCompositionValues) **float64 { return &v.BMI },
	},
	{
		name:     "basal_metabolic_rate_kcal",
		patterns: []*regexp.Regexp{labelled(`tmb|bmr|metabolismo basal`, `\d{3,4}`)},
		target:   func(v *entities.BodyCompositionValues) **float64 { return &v.BasalMetabolicRateKcal },
	},
}

var (
	inlineSpace = regexp.MustCompile(`[^\S\n]+`)
	dayFirstRe  = regexp.MustCompile(`(\d{2})[/\-](\d{2})[/\-](\d{4})`)
	isoDateRe   = regexp.MustCompile(`(\d{4})[/\-](\d{2})[/\-](\d{2})`)
)

// ExtractBodyComposition scrapes measurements out of OCR text. It is a
// best-effort heuristic: unmatched fields stay nil and an unreadable input
// yields an empty result with confidence 0.
func ExtractBodyComposition(raw string) entities.BodyCompositionOcrResult {
	text := normalizeText(raw)

	var values entities.BodyCompositionValues
	recovered := 0

	if date, ok := extractDate(text); ok {
		values.EvaluationDate = &date
		recovered++
	}

	for _, rule := range fieldRules {
		if value, ok := firstNumber(text, rule.patterns); ok {
			*rule.target(&values) = &value
			recovered++
		}
	}

	warnings := []string{}
	if values.EvaluationDate == nil {
		warnings = append(warnings, WarningMissingDate)
	}
	if recovered <= FewFieldsThreshold {
		warnings = append(warnings, WarningFewFields)
	}

	return entities.BodyCompositionOcrResult{
		Values:     values,
		Warnings:   warnings,
		Confidence: min(1, float64(recovered)/TotalFields),
		RawText:    raw,
	}
}

func normalizeText(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = inlineSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// extractDate prefers day-first DD/MM/YYYY and falls back to YYYY-MM-DD.
// The result is always YYYY-MM-DD; no calendar validation is done.
func extractDate(text string) (string, bool) {
	if m := dayFirstRe.FindStringSubmatch(text); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1], true
	}
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3], true
	}
	return "", false
}

func firstNumber(text string, patterns []*regexp.Regexp) (float64, bool) {
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}
