// Package registry tracks the lifecycle of a loaded model so handlers can
// gate requests on readiness without reaching into the model itself.
package registry

import (
	"sync"
)

type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "model_loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "model_loading_failed"
	default:
		return "model_not_loaded"
	}
}

type Registry struct {
	mu      sync.RWMutex
	state   State
	loadErr error
}

func New() *Registry {
	return &Registry{state: StateUnloaded}
}

func (r *Registry) SetLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateLoading
	r.loadErr = nil
}

func (r *Registry) SetReady() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateReady
	r.loadErr = nil
}

// Fail records the load error and drops the registry into a degraded state.
// Owners must release any partially initialized handles before calling it so
// IsReady stays a reliable signal.
func (r *Registry) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateFailed
	r.loadErr = err
}

func (r *Registry) IsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state == StateReady
}

func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Registry) Status() string {
	return r.State().String()
}

func (r *Registry) LoadError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadErr
}
