package detectmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOutput_FiltersBelowThreshold(t *testing.T) {
	data := []float32{
		10, 20, 30, 40, 0.95, 0,
		50, 60, 70, 80, 0.39, 1,
		15, 25, 35, 45, 0.40, 2,
		0, 0, 0, 0, 0, 0, // padding row
	}

	raw := parseOutput(data, 4)
	require.Len(t, raw, 2)
	require.Equal(t, 0, raw[0].ClassID)
	require.Equal(t, 2, raw[1].ClassID)
	require.InDelta(t, 0.40, float64(raw[1].Score), 1e-6)
}

func TestParseOutput_Empty(t *testing.T) {
	raw := parseOutput(nil, 0)
	require.NotNil(t, raw)
	require.Empty(t, raw)
}

func TestParseOutput_TruncatedTailIgnored(t *testing.T) {
	data := []float32{10, 20, 30, 40, 0.9, 0, 1, 2, 3}

	raw := parseOutput(data, 2)
	require.Len(t, raw, 1)
}

func TestShapeDetections_MapsBackToSourceCoordinates(t *testing.T) {
	// 1280x640 source letterboxed into 640x640: gain 0.5, vertical pad 160
	raw := []rawDetection{
		{X1: 100, Y1: 200, X2: 300, Y2: 400, Score: 0.9, ClassID: 0},
	}

	out := shapeDetections(raw, cocoClasses, 0.5, 0, 160, 1280, 640)
	require.Len(t, out, 1)
	require.Equal(t, "person", out[0].Label)
	require.Equal(t, []int{200, 80, 600, 480}, out[0].Box)
}

func TestShapeDetections_ClampsToImageBounds(t *testing.T) {
	raw := []rawDetection{
		{X1: -10, Y1: 100, X2: 700, Y2: 500, Score: 0.8, ClassID: 0},
	}

	out := shapeDetections(raw, cocoClasses, 0.5, 0, 160, 1280, 640)
	require.Len(t, out, 1)
	require.Equal(t, 0, out[0].Box[0])
	require.Equal(t, 1280, out[0].Box[2])
}

func TestShapeDetections_RoundsToNearestPixel(t *testing.T) {
	raw := []rawDetection{
		{X1: 101.4, Y1: 160, X2: 101.6, Y2: 161, Score: 0.5, ClassID: 0},
	}

	out := shapeDetections(raw, cocoClasses, 0.5, 0, 160, 1280, 640)
	require.Equal(t, 203, out[0].Box[0]) // 101.4 / 0.5 = 202.8
	require.Equal(t, 0, out[0].Box[1])
	require.Equal(t, 203, out[0].Box[2]) // 101.6 / 0.5 = 203.2
	require.Equal(t, 2, out[0].Box[3])
}

func TestShapeDetections_ScoreRounding(t *testing.T) {
	raw := []rawDetection{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.876543, ClassID: 0},
	}

	out := shapeDetections(raw, cocoClasses, 1, 0, 0, 100, 100)
	require.InDelta(t, 0.8765, out[0].Score, 1e-9)
}

func TestShapeDetections_UnknownClassPlaceholder(t *testing.T) {
	raw := []rawDetection{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.9, ClassID: 999},
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.9, ClassID: -1},
	}

	out := shapeDetections(raw, cocoClasses, 1, 0, 0, 100, 100)
	require.Len(t, out, 2)
	require.Equal(t, "unknown class 999", out[0].Label)
	require.Equal(t, "unknown class -1", out[1].Label)
}

func TestShapeDetections_PreservesModelOrder(t *testing.T) {
	raw := []rawDetection{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.5, ClassID: 0},
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.99, ClassID: 1},
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.7, ClassID: 2},
	}

	out := shapeDetections(raw, cocoClasses, 1, 0, 0, 100, 100)
	require.Equal(t, "person", out[0].Label)
	require.Equal(t, "bicycle", out[1].Label)
	require.Equal(t, "car", out[2].Label)
}

func TestShapeDetections_EmptyInputYieldsEmptySlice(t *testing.T) {
	out := shapeDetections(nil, cocoClasses, 1, 0, 0, 100, 100)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestShapeDetections_ThresholdReappliedDefensively(t *testing.T) {
	raw := []rawDetection{
		{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.2, ClassID: 0},
	}

	out := shapeDetections(raw, cocoClasses, 1, 0, 0, 100, 100)
	require.Empty(t, out)
}

func TestCocoClasses_Complete(t *testing.T) {
	require.Len(t, cocoClasses, 80)
	require.Equal(t, "person", cocoClasses[0])
	require.Equal(t, "toothbrush", cocoClasses[79])
}
