package boost

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/YuminosukeSato/treeboost/boost/tree"
	"github.com/YuminosukeSato/treeboost/core/model"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

// FormatVersion is the version written to serialized models.
const FormatVersion = 1

// Record is the JSON form of an Ensemble.
type Record struct {
	FormatVersion int                `json:"format_version"`
	BaseScore     *float64           `json:"base_score,omitempty"`
	NumFeatures   int                `json:"num_features"`
	Params        *ParamsRecord      `json:"params,omitempty"`
	Trees         []*tree.NodeRecord `json:"trees"`
}

// ParamsRecord mirrors Params with optional fields; missing values fall back
// to DefaultParams when decoding.
type ParamsRecord struct {
	LearningRate   *float64 `json:"learning_rate,omitempty"`
	MaxDepth       *int     `json:"max_depth,omitempty"`
	MinChildWeight *float64 `json:"min_child_weight,omitempty"`
	NumRounds      *int     `json:"num_rounds,omitempty"`
}

func (r *ParamsRecord) params() Params {
	p := DefaultParams()
	if r == nil {
		return p
	}
	if r.LearningRate != nil {
		p.LearningRate = *r.LearningRate
	}
	if r.MaxDepth != nil {
		p.MaxDepth = *r.MaxDepth
	}
	if r.MinChildWeight != nil {
		p.MinChildWeight = *r.MinChildWeight
	}
	if r.NumRounds != nil {
		p.NumRounds = *r.NumRounds
	}
	return p
}

// Record returns the serializable form of the ensemble.
func (e *Ensemble) Record() *Record {
	e.mu.RLock()
	defer e.mu.RUnlock()

	base := BaseScore
	p := e.params
	state := e.state.GetState()
	rec := &Record{
		FormatVersion: FormatVersion,
		BaseScore:     &base,
		NumFeatures:   state.NFeatures,
		Params: &ParamsRecord{
			LearningRate:   &p.LearningRate,
			MaxDepth:       &p.MaxDepth,
			MinChildWeight: &p.MinChildWeight,
			NumRounds:      &p.NumRounds,
		},
		Trees: make([]*tree.NodeRecord, len(e.trees)),
	}
	for i, t := range e.trees {
		rec.Trees[i] = t.Record()
	}
	return rec
}

// MarshalJSON implements json.Marshaler.
func (e *Ensemble) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}

// ToJSON encodes the ensemble.
func (e *Ensemble) ToJSON() ([]byte, error) {
	data, err := e.MarshalJSON()
	if err != nil {
		return nil, errors.NewModelError("Ensemble.ToJSON", "encode", err)
	}
	return data, nil
}

// FromJSON decodes an ensemble produced by ToJSON. The options apply to the
// new ensemble; its hyperparameters come from the data.
func FromJSON(data []byte, opts ...Option) (*Ensemble, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := e.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return e, nil
}

// UnmarshalJSON implements json.Unmarshaler. The receiver is left unchanged
// when the data is rejected.
func (e *Ensemble) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return errors.NewModelError("Ensemble.UnmarshalJSON", "malformed JSON", err)
	}
	return e.restore(&rec)
}

func (e *Ensemble) restore(rec *Record) error {
	const op = "Ensemble.restore"
	if rec.FormatVersion != 0 && rec.FormatVersion != FormatVersion {
		return errors.NewModelError(op, "unsupported format version",
			errors.Newf("got %d, want %d", rec.FormatVersion, FormatVersion))
	}
	if rec.BaseScore != nil && *rec.BaseScore != BaseScore {
		return errors.NewModelError(op, "unsupported base score",
			errors.Newf("got %g, want %g", *rec.BaseScore, BaseScore))
	}
	if rec.NumFeatures < 0 {
		return errors.NewModelError(op, "invalid num_features",
			errors.Newf("got %d", rec.NumFeatures))
	}
	p := rec.Params.params()
	if err := p.Validate(); err != nil {
		return errors.NewModelError(op, "invalid params", err)
	}

	trees := make([]*tree.Tree, len(rec.Trees))
	for i, tr := range rec.Trees {
		t, err := tree.FromRecord(tr)
		if err != nil {
			return errors.NewModelError(op, "invalid tree", errors.Wrapf(err, "tree %d", i))
		}
		if rec.NumFeatures > 0 {
			for _, n := range t.Nodes {
				if n.Kind == tree.Split && n.Feature >= rec.NumFeatures {
					return errors.NewModelError(op, "invalid tree",
						errors.Newf("tree %d splits on feature %d of %d", i, n.Feature, rec.NumFeatures))
				}
			}
		}
		trees[i] = t
	}

	if e.state.IsTraining() {
		return errors.WithStack(errors.ErrTrainingInProgress)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p
	e.trees = trees
	e.lossHistory = nil
	e.state.SetState(model.ModelState{
		Fitted:    len(trees) > 0,
		NFeatures: rec.NumFeatures,
	})
	e.logger.Debug("Model restored",
		log.OperationKey, log.OperationDeserialize,
		log.TreesKey, len(trees),
		log.FeaturesKey, rec.NumFeatures,
	)
	return nil
}

// Save writes the ensemble as JSON to path.
func (e *Ensemble) Save(path string) error {
	if err := model.SaveJSON(e.Record(), path); err != nil {
		return errors.NewModelError("Ensemble.Save", "write "+path, err)
	}
	return nil
}

// Load replaces the ensemble with the model stored at path.
func (e *Ensemble) Load(path string) error {
	var rec Record
	if err := model.LoadJSON(&rec, path); err != nil {
		return errors.NewModelError("Ensemble.Load", "read "+path, err)
	}
	return e.restore(&rec)
}

// WriteTo implements io.WriterTo.
func (e *Ensemble) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := model.WriteJSON(e.Record(), &buf); err != nil {
		return 0, errors.NewModelError("Ensemble.WriteTo", "encode", err)
	}
	n, err := buf.WriteTo(w)
	if err != nil {
		return n, errors.Wrap(err, "write model")
	}
	return n, nil
}

// ReadFrom implements io.ReaderFrom. It consumes r to EOF.
func (e *Ensemble) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	n := int64(len(data))
	if err != nil {
		return n, errors.Wrap(err, "read model")
	}
	return n, e.UnmarshalJSON(data)
}
