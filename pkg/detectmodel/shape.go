package detectmodel

import (
	"fmt"
	"math"

	"ProjectVision/internal/entity"
)

// ConfidenceThreshold is the fixed predict-time cutoff. The model output is
// expected to be pre-filtered to it already; shaping re-applies it anyway.
const ConfidenceThreshold = 0.40

// rawDetection is one output row in model-input coordinates.
type rawDetection struct {
	X1, Y1, X2, Y2 float32
	Score          float32
	ClassID        int
}

// parseOutput splits the flat output tensor into rows of
// [x1, y1, x2, y2, score, class]. Padding rows carry zero scores and fall
// out at the threshold.
func parseOutput(data []float32, rows int) []rawDetection {
	const stride = 6
	raw := make([]rawDetection, 0, rows)
	for i := 0; i < rows && (i+1)*stride <= len(data); i++ {
		row := data[i*stride : (i+1)*stride]
		if row[4] < ConfidenceThreshold {
			continue
		}
		raw = append(raw, rawDetection{
			X1:      row[0],
			Y1:      row[1],
			X2:      row[2],
			Y2:      row[3],
			Score:   row[4],
			ClassID: int(row[5]),
		})
	}
	return raw
}

// shapeDetections maps raw candidates from letterboxed model coordinates back
// into source pixels, resolves labels, rounds coordinates and preserves the
// model's output order.
func shapeDetections(raw []rawDetection, classes []string, gain, padX, padY float64, srcW, srcH int) []entity.Detection {
	detections := make([]entity.Detection, 0, len(raw))

	for _, r := range raw {
		if r.Score < ConfidenceThreshold {
			continue
		}

		label := fmt.Sprintf("unknown class %d", r.ClassID)
		if r.ClassID >= 0 && r.ClassID < len(classes) {
			label = classes[r.ClassID]
		}

		detections = append(detections, entity.Detection{
			Label: label,
			Score: math.Round(float64(r.Score)*10000) / 10000,
			Box: []int{
				toSource(float64(r.X1), padX, gain, srcW),
				toSource(float64(r.Y1), padY, gain, srcH),
				toSource(float64(r.X2), padX, gain, srcW),
				toSource(float64(r.Y2), padY, gain, srcH),
			},
		})
	}

	return detections
}

// toSource undoes the letterbox transform for one coordinate, clamping to the
// source image bounds and rounding to the nearest pixel.
func toSource(coord, pad, gain float64, limit int) int {
	v := (coord - pad) / gain
	if v < 0 {
		v = 0
	}
	if v > float64(limit) {
		v = float64(limit)
	}
	return int(math.Round(v))
}
