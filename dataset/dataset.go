// Package dataset reads and writes feature matrices and vectors in NumPy's
// .npy format.
package dataset

import (
	"io"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// LoadMatrix reads a 2-D float64 array from path.
func LoadMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	m, err := ReadMatrix(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return m, nil
}

// ReadMatrix reads a 2-D float64 array.
func ReadMatrix(src io.Reader) (*mat.Dense, error) {
	r, err := npyio.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "npy header")
	}
	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, errors.NewInvalidInputErrorf("dataset.ReadMatrix", "expected a 2-D array, got shape %v", shape)
	}
	if shape[0] == 0 || shape[1] == 0 {
		return nil, errors.NewInvalidInputErrorf("dataset.ReadMatrix", "empty array of shape %v", shape)
	}
	m := &mat.Dense{}
	if err := r.Read(m); err != nil {
		return nil, errors.Wrap(err, "npy data")
	}
	return m, nil
}

// LoadVector reads a 1-D float64 array, or a 2-D array with a single column,
// from path.
func LoadVector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	v, err := ReadVector(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return v, nil
}

// ReadVector reads a 1-D float64 array or an n×1 array.
func ReadVector(src io.Reader) ([]float64, error) {
	r, err := npyio.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "npy header")
	}
	shape := r.Header.Descr.Shape
	switch {
	case len(shape) == 1:
	case len(shape) == 2 && shape[1] == 1:
	default:
		return nil, errors.NewInvalidInputErrorf("dataset.ReadVector", "expected a vector, got shape %v", shape)
	}
	var v []float64
	if err := r.Read(&v); err != nil {
		return nil, errors.Wrap(err, "npy data")
	}
	return v, nil
}

// SaveVector writes v to path as a 1-D float64 array.
func SaveVector(path string, v []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return WriteVector(f, v)
}

// WriteVector writes v as a 1-D float64 array.
func WriteVector(w io.Writer, v []float64) error {
	if err := npyio.Write(w, v); err != nil {
		return errors.Wrap(err, "write npy")
	}
	return nil
}

// SaveMatrix writes m to path as a 2-D float64 array.
func SaveMatrix(path string, m *mat.Dense) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return WriteMatrix(f, m)
}

// WriteMatrix writes m as a 2-D float64 array.
func WriteMatrix(w io.Writer, m *mat.Dense) error {
	if err := npyio.Write(w, m); err != nil {
		return errors.Wrap(err, "write npy")
	}
	return nil
}

// Rows returns the rows of m as slices. The slices share m's storage.
func Rows(m *mat.Dense) [][]float64 {
	rows, _ := m.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = m.RawRowView(i)
	}
	return out
}
