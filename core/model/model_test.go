package model

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

func TestStateManager_Lifecycle(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("Ensemble.PredictMatrix")
	var modelErr *errors.ModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, "not fitted", modelErr.Kind)

	s.SetDimensions(3, 10)
	s.SetFitted()
	require.NoError(t, s.RequireFitted("op"))
	nf, ns := s.GetDimensions()
	assert.Equal(t, 3, nf)
	assert.Equal(t, 10, ns)

	state := s.GetState()
	s.Reset()
	assert.False(t, s.IsFitted())
	s.SetState(state)
	assert.True(t, s.IsFitted())
}

func TestStateManager_TrainingFlag(t *testing.T) {
	s := NewStateManager()
	require.NoError(t, s.BeginTraining())
	assert.True(t, s.IsTraining())
	assert.True(t, errors.Is(s.BeginTraining(), errors.ErrTrainingInProgress))
	s.EndTraining()
	assert.False(t, s.IsTraining())
}

func TestStateManager_Concurrent(t *testing.T) {
	s := NewStateManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SetDimensions(i, i)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.IsFitted()
			_, _ = s.GetDimensions()
		}()
	}
	wg.Wait()
}

type record struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestJSONPersistence(t *testing.T) {
	in := record{Name: "x", Values: []float64{0.1, 1e-17, 3}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(in, &buf))
	var out record
	require.NoError(t, ReadJSON(&out, &buf))
	assert.Equal(t, in, out)

	path := filepath.Join(t.TempDir(), "m.json")
	require.NoError(t, SaveJSON(in, path))
	var loaded record
	require.NoError(t, LoadJSON(&loaded, path))
	assert.Equal(t, in, loaded)

	assert.Error(t, LoadJSON(&loaded, filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, ReadJSON(&loaded, bytes.NewBufferString("{not json")))
}
