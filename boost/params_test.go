package boost

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0.3, p.LearningRate)
	assert.Equal(t, 4, p.MaxDepth)
	assert.Equal(t, 1.0, p.MinChildWeight)
	assert.Equal(t, 100, p.NumRounds)
	assert.NoError(t, p.Validate())
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		param  string
	}{
		{"zero learning rate", func(p *Params) { p.LearningRate = 0 }, "learning_rate"},
		{"negative learning rate", func(p *Params) { p.LearningRate = -0.1 }, "learning_rate"},
		{"NaN learning rate", func(p *Params) { p.LearningRate = math.NaN() }, "learning_rate"},
		{"negative depth", func(p *Params) { p.MaxDepth = -1 }, "max_depth"},
		{"negative min child weight", func(p *Params) { p.MinChildWeight = -2 }, "min_child_weight"},
		{"zero rounds", func(p *Params) { p.NumRounds = 0 }, "num_rounds"},
		{"negative rounds", func(p *Params) { p.NumRounds = -5 }, "num_rounds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()
			require.Error(t, err)
			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr), "got %v", err)
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}

	p := DefaultParams()
	p.MaxDepth = 0
	p.MinChildWeight = 0
	assert.NoError(t, p.Validate(), "zero depth and zero weight are allowed")
}

func TestNew_Options(t *testing.T) {
	e, err := New(WithLearningRate(0.1), WithMaxDepth(2), WithMinChildWeight(3), WithNumRounds(7))
	require.NoError(t, err)
	assert.Equal(t, Params{LearningRate: 0.1, MaxDepth: 2, MinChildWeight: 3, NumRounds: 7}, e.Params())
	assert.False(t, e.IsFitted())

	_, err = New(WithNumRounds(0))
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = NewWithParams(Params{LearningRate: 1, NumRounds: 1})
	assert.NoError(t, err)
	_, err = NewWithParams(Params{})
	assert.Error(t, err)
}

func TestGetSetParams(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	got := e.GetParams()
	assert.Equal(t, 0.3, got["learning_rate"])
	assert.Equal(t, 4, got["max_depth"])

	require.NoError(t, e.SetParams(map[string]interface{}{
		"learning_rate": 0.05,
		"max_depth":     6.0,
		"num_rounds":    20,
	}))
	assert.Equal(t, Params{LearningRate: 0.05, MaxDepth: 6, MinChildWeight: 1, NumRounds: 20}, e.Params())

	before := e.Params()
	assert.Error(t, e.SetParams(map[string]interface{}{"learning_rate": -1.0}))
	assert.Error(t, e.SetParams(map[string]interface{}{"max_depth": 2.5}))
	assert.Error(t, e.SetParams(map[string]interface{}{"num_leaves": 31}))
	assert.Error(t, e.SetParams(map[string]interface{}{"learning_rate": "fast"}))
	assert.Equal(t, before, e.Params(), "rejected updates leave params unchanged")
}
