package dataset

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

func TestMatrixRoundTrip(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{0, 1, 2.5, -3, 1e-9, 7})

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m))
	got, err := ReadMatrix(&buf)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, got))

	path := filepath.Join(t.TempDir(), "X.npy")
	require.NoError(t, SaveMatrix(path, m))
	loaded, err := LoadMatrix(path)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, loaded))

	rows := Rows(loaded)
	require.Len(t, rows, 3)
	assert.Equal(t, []float64{2.5, -3}, rows[1])
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float64{0, 1, 1, 0, 0.25}
	path := filepath.Join(t.TempDir(), "y.npy")
	require.NoError(t, SaveVector(path, v))
	got, err := LoadVector(path)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, mat.NewDense(3, 1, []float64{1, 2, 3})))
	col, err := ReadVector(&buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, col)
}

func TestShapeErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, mat.NewDense(2, 2, nil)))
	_, err := ReadVector(&buf)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	buf.Reset()
	require.NoError(t, WriteVector(&buf, []float64{1, 2}))
	_, err = ReadMatrix(&buf)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = LoadMatrix(filepath.Join(t.TempDir(), "missing.npy"))
	assert.Error(t, err)
	_, err = ReadMatrix(bytes.NewBufferString("not npy"))
	assert.Error(t, err)
}
