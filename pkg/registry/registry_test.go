package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_NotReadyBeforeLoad(t *testing.T) {
	r := New()

	require.False(t, r.IsReady())
	require.Equal(t, StateUnloaded, r.State())
	require.Equal(t, "model_not_loaded", r.Status())
}

func TestRegistry_LoadingIsNotReady(t *testing.T) {
	r := New()
	r.SetLoading()

	require.False(t, r.IsReady())
	require.Equal(t, "model_loading", r.Status())
}

func TestRegistry_Ready(t *testing.T) {
	r := New()
	r.SetLoading()
	r.SetReady()

	require.True(t, r.IsReady())
	require.Equal(t, "ready", r.Status())
	require.NoError(t, r.LoadError())
}

func TestRegistry_FailKeepsCause(t *testing.T) {
	r := New()
	r.SetLoading()

	cause := errors.New("artifact missing")
	r.Fail(cause)

	require.False(t, r.IsReady())
	require.Equal(t, "model_loading_failed", r.Status())
	require.ErrorIs(t, r.LoadError(), cause)
}

func TestRegistry_ReloadAfterFailure(t *testing.T) {
	r := New()
	r.Fail(errors.New("first attempt"))

	r.SetLoading()
	require.NoError(t, r.LoadError())

	r.SetReady()
	require.True(t, r.IsReady())
}
