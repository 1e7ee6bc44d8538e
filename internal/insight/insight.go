// Package insight turns form state and raw model output into the advisories,
// clipped score and category shown to the user. Everything here is pure.
package insight

import (
	"fmt"
	"math"

	"github.com/stemsi/prediksi-nilai/internal/model"
)

const (
	// GradeMin and GradeMax bound the grade scale the model was trained on.
	GradeMin = 0.0
	GradeMax = 20.0

	lowUpperBound    = 8.0
	mediumUpperBound = 14.0

	highFailures      = 3
	highAbsences      = 30
	strongFirstPeriod = 15
)

// Clip clamps a raw prediction into [GradeMin, GradeMax]. NaN maps to GradeMin.
func Clip(x float64) float64 {
	if math.IsNaN(x) {
		return GradeMin
	}
	return math.Max(GradeMin, math.Min(GradeMax, x))
}

// Format renders a score with two decimals.
func Format(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// Scale100 gives a rough 0–100 equivalent of a 0–20 score.
func Scale100(score float64) float64 {
	return math.Round(score*5*100) / 100
}

// Categorize maps a clipped score to exactly one bucket:
// [0,8) low, [8,14) medium, [14,20] high.
func Categorize(score float64) model.Interpretation {
	switch {
	case score < lowUpperBound:
		return model.Interpretation{
			Category: model.CategoryLow,
			Label:    "🔴 Rendah",
			Note:     "Disarankan dukungan belajar tambahan (remedial, pendampingan, konseling belajar).",
		}
	case score < mediumUpperBound:
		return model.Interpretation{
			Category: model.CategoryMedium,
			Label:    "🟡 Sedang",
			Note:     "Cukup baik, tetapi peningkatan bisa fokus pada konsistensi belajar dan mengurangi absen.",
		}
	default:
		return model.Interpretation{
			Category: model.CategoryHigh,
			Label:    "🟢 Tinggi",
			Note:     "Performa akademik baik. Jaga konsistensi dan kebiasaan belajar.",
		}
	}
}

// Advise returns the non-blocking warnings for the current form state, in a
// fixed order. It reads only failures, absences, G1 and G2.
func Advise(r model.StudentRecord) []model.Advisory {
	advisories := make([]model.Advisory, 0, 3)
	if r.Failures >= highFailures {
		advisories = append(advisories, model.Advisory{
			Code:    model.AdvisoryHighFailures,
			Message: "Failures tinggi (≥3). Ini biasanya sangat menurunkan nilai akhir.",
		})
	}
	if r.Absences >= highAbsences {
		advisories = append(advisories, model.Advisory{
			Code:    model.AdvisoryHighAbsences,
			Message: "Absences tinggi (≥30). Ketidakhadiran tinggi umumnya berdampak negatif pada nilai.",
		})
	}
	if r.G2 < r.G1 && r.G1 >= strongFirstPeriod {
		advisories = append(advisories, model.Advisory{
			Code:    model.AdvisoryPerformanceDrop,
			Message: "G2 lebih rendah dari G1. Bisa jadi performa menurun pada periode 2.",
		})
	}
	return advisories
}
