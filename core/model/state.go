// Package model provides the building blocks shared by lifeexp estimators:
//
//   - StateManager: fitted-state tracking so untrained models refuse to predict
//   - Model persistence: versioned, checksummed gob files written atomically
//   - scikit-learn interoperability: the JSON model format used by sklearn exporters
//
// Estimators hold a StateManager by composition:
//
//	type MyModel struct {
//		State *model.StateManager
//	}
//
//	func (m *MyModel) Fit(X mat.Matrix, y mat.Vector) error {
//		// training logic
//		m.State.SetFitted()
//		m.State.SetDimensions(nFeatures, nSamples)
//		return nil
//	}
package model

import "sync"

// StateManager tracks whether an estimator has been fitted and the shape of
// the data it was fitted on. It is safe for concurrent use.
type StateManager struct {
	mu        sync.RWMutex
	fitted    bool
	nFeatures int
	nSamples  int
}

// NewStateManager returns a manager for an unfitted estimator.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether the estimator has been trained.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the estimator as trained.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
}

// SetDimensions records the training data shape.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Dimensions returns the recorded (features, samples).
func (s *StateManager) Dimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}
