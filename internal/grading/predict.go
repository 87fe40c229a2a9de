package grading

import "github.com/stemsi/studypilot-backend/internal/model"

const predictionSpread = 10.0

// PredictFinalScore extrapolates past scores linearly to exam day.
// With no history it returns 50 within [40, 60].
func PredictFinalScore(scores []float64, daysUntilExam int) model.Prediction {
	if len(scores) == 0 {
		return model.Prediction{Prediction: 50, Range: [2]float64{40, 60}}
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	var trend float64
	if n := len(scores); n > 1 {
		trend = (scores[n-1] - scores[0]) / float64(n-1)
	}

	p := clamp(avg+trend*(float64(daysUntilExam)/7), 0, 100)
	p = round2(p)
	return model.Prediction{
		Prediction: p,
		Range: [2]float64{
			clamp(p-predictionSpread, 0, 100),
			clamp(p+predictionSpread, 0, 100),
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
