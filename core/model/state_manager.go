// Package model provides fitted-state bookkeeping, estimator interfaces and
// persistence helpers shared by treeboost models.
package model

import (
	"sync"
	"sync/atomic"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// StateManager tracks whether a model is fitted, whether a fit is running, and
// the dimensions seen during fitting. It is safe for concurrent use.
type StateManager struct {
	mu        sync.RWMutex
	fitted    bool
	nFeatures int
	nSamples  int

	training atomic.Bool
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model as fitted.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
}

// Reset clears the fitted state and dimensions.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nFeatures = 0
	s.nSamples = 0
}

// SetDimensions sets the number of features and samples seen during fitting.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a ModelError if the model has not been fitted.
func (s *StateManager) RequireFitted(op string) error {
	if !s.IsFitted() {
		return errors.NewModelError(op, "not fitted", nil)
	}
	return nil
}

// BeginTraining marks a fit as running. It fails with ErrTrainingInProgress
// when another fit already holds the flag.
func (s *StateManager) BeginTraining() error {
	if !s.training.CompareAndSwap(false, true) {
		return errors.WithStack(errors.ErrTrainingInProgress)
	}
	return nil
}

// EndTraining clears the flag set by BeginTraining.
func (s *StateManager) EndTraining() {
	s.training.Store(false)
}

// IsTraining reports whether a fit is running.
func (s *StateManager) IsTraining() bool {
	return s.training.Load()
}

// ModelState is a serializable snapshot of a StateManager.
type ModelState struct {
	Fitted    bool `json:"fitted"`
	NFeatures int  `json:"n_features,omitempty"`
	NSamples  int  `json:"n_samples,omitempty"`
}

// GetState returns the current state as a ModelState struct.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ModelState{
		Fitted:    s.fitted,
		NFeatures: s.nFeatures,
		NSamples:  s.nSamples,
	}
}

// SetState restores the state from a ModelState struct.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fitted = state.Fitted
	s.nFeatures = state.NFeatures
	s.nSamples = state.NSamples
}
