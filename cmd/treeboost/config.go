package main

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/treeboost/boost"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
)

// Config is the merged configuration of flags, environment and config file.
type Config struct {
	LogLevel string        `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	Params   boost.Params  `mapstructure:"params"`
	Train    TrainConfig   `mapstructure:"train"`
	Predict  PredictConfig `mapstructure:"predict"`
}

// TrainConfig configures the train command.
type TrainConfig struct {
	Features   string `mapstructure:"features"`
	Labels     string `mapstructure:"labels"`
	Model      string `mapstructure:"model"`
	LossPlot   string `mapstructure:"loss_plot"`
	TreeDir    string `mapstructure:"tree_dir"`
	TreeFormat string `mapstructure:"tree_format" validate:"oneof=dot svg png jpg"`
	MaxTrees   int    `mapstructure:"max_trees" validate:"gte=0"`
	LogEvery   int    `mapstructure:"log_every" validate:"gte=1"`
}

// PredictConfig configures the predict command.
type PredictConfig struct {
	Features string `mapstructure:"features"`
	Model    string `mapstructure:"model"`
	Output   string `mapstructure:"output"`
}

func setDefaults(v *viper.Viper) {
	p := boost.DefaultParams()
	v.SetDefault("log_level", "info")
	v.SetDefault("params.learning_rate", p.LearningRate)
	v.SetDefault("params.max_depth", p.MaxDepth)
	v.SetDefault("params.min_child_weight", p.MinChildWeight)
	v.SetDefault("params.num_rounds", p.NumRounds)
	v.SetDefault("train.model", "model.json")
	v.SetDefault("train.tree_format", "svg")
	v.SetDefault("train.max_trees", 5)
	v.SetDefault("train.log_every", 10)
	v.SetDefault("predict.model", "model.json")
	v.SetDefault("predict.output", "predictions.npy")
}

// commonFlags returns a flag set with the flags shared by every command.
func commonFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "YAML config file")
	fs.String("log-level", "", "debug, info, warn or error")
	return fs
}

// loadConfig parses args into fs and merges it with the config file and the
// environment. bindings maps config keys to flag names.
func loadConfig(fs *pflag.FlagSet, args []string, bindings map[string]string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("TREEBOOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	bindings["log_level"] = "log-level"
	for key, flag := range bindings {
		f := fs.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, errors.Wrapf(err, "bind flag %s", flag)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	return cfg, nil
}

func paramFlags(fs *pflag.FlagSet, bindings map[string]string) {
	p := boost.DefaultParams()
	fs.Float64("learning-rate", p.LearningRate, "shrinkage applied to every tree")
	fs.Int("max-depth", p.MaxDepth, "maximum tree depth")
	fs.Float64("min-child-weight", p.MinChildWeight, "minimum samples in a node to split it")
	fs.Int("num-rounds", p.NumRounds, "number of boosting rounds")
	bindings["params.learning_rate"] = "learning-rate"
	bindings["params.max_depth"] = "max-depth"
	bindings["params.min_child_weight"] = "min-child-weight"
	bindings["params.num_rounds"] = "num-rounds"
}
