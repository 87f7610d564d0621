package boost

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// Params holds the boosting hyperparameters.
type Params struct {
	// LearningRate scales every tree's contribution.
	LearningRate float64 `json:"learning_rate" mapstructure:"learning_rate" validate:"gt=0"`
	// MaxDepth bounds the number of split levels per tree. 0 yields single-leaf trees.
	MaxDepth int `json:"max_depth" mapstructure:"max_depth" validate:"gte=0"`
	// MinChildWeight is the minimum number of samples a node needs to be split.
	MinChildWeight float64 `json:"min_child_weight" mapstructure:"min_child_weight" validate:"gte=0"`
	// NumRounds is the number of trees to build.
	NumRounds int `json:"num_rounds" mapstructure:"num_rounds" validate:"gte=1"`
}

// DefaultParams returns the default hyperparameters.
func DefaultParams() Params {
	return Params{
		LearningRate:   0.3,
		MaxDepth:       4,
		MinChildWeight: 1,
		NumRounds:      100,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func paramsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks every hyperparameter and reports the first violation as a
// ValidationError named after the JSON key.
func (p Params) Validate() error {
	err := paramsValidator().Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(fe.Field(), constraintText(fe.Tag(), fe.Param()), fe.Value())
	}
	return errors.Wrap(err, "validate params")
}

func constraintText(tag, param string) string {
	switch tag {
	case "gt":
		return "must be > " + param
	case "gte":
		return "must be >= " + param
	default:
		return fmt.Sprintf("failed %s=%s", tag, param)
	}
}

// asMap returns the parameters keyed by their JSON names.
func (p Params) asMap() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate":    p.LearningRate,
		"max_depth":        p.MaxDepth,
		"min_child_weight": p.MinChildWeight,
		"num_rounds":       p.NumRounds,
	}
}

// apply sets the named parameters on a copy of p. Integers and floats are
// accepted interchangeably where the conversion is exact.
func (p Params) apply(values map[string]interface{}) (Params, error) {
	for key, value := range values {
		switch key {
		case "learning_rate", "eta":
			v, ok := toFloat(value)
			if !ok {
				return p, errors.NewValidationError("learning_rate", "must be a number", value)
			}
			p.LearningRate = v
		case "max_depth":
			v, ok := toInt(value)
			if !ok {
				return p, errors.NewValidationError("max_depth", "must be an integer", value)
			}
			p.MaxDepth = v
		case "min_child_weight":
			v, ok := toFloat(value)
			if !ok {
				return p, errors.NewValidationError("min_child_weight", "must be a number", value)
			}
			p.MinChildWeight = v
		case "num_rounds", "n_estimators":
			v, ok := toInt(value)
			if !ok {
				return p, errors.NewValidationError("num_rounds", "must be an integer", value)
			}
			p.NumRounds = v
		default:
			return p, errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return p, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != float64(int(x)) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}
