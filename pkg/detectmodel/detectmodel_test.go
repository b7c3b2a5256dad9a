package detectmodel

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestMetadata_Defaults(t *testing.T) {
	var m Metadata
	m.applyDefaults()

	require.Equal(t, []int64{1, 3, 640, 640}, m.InputShape)
	require.Equal(t, []int64{1, 300, 6}, m.OutputShape)
	require.Equal(t, "images", m.InputName)
	require.Equal(t, "output0", m.OutputName)
	require.Len(t, m.Classes, 80)
}

func TestMetadata_ExplicitValuesKept(t *testing.T) {
	m := Metadata{
		InputShape: []int64{1, 3, 320, 320},
		InputName:  "input",
		Classes:    []string{"cat", "dog"},
	}
	m.applyDefaults()

	require.Equal(t, []int64{1, 3, 320, 320}, m.InputShape)
	require.Equal(t, "input", m.InputName)
	require.Equal(t, []string{"cat", "dog"}, m.Classes)
	require.Equal(t, "output0", m.OutputName)
}

func TestModel_DetectBeforeLoad(t *testing.T) {
	m := New(logrus.New(), t.TempDir(), "cpu")

	require.False(t, m.IsReady())
	require.Equal(t, "model_not_loaded", m.Status())

	_, err := m.Detect(context.Background(), []byte("image"))
	require.Error(t, err)
}

func TestModel_LoadMissingArtifacts(t *testing.T) {
	m := New(logrus.New(), t.TempDir(), "cpu")

	require.Error(t, m.Load())
	require.False(t, m.IsReady())
	require.Equal(t, "model_loading_failed", m.Status())
}
