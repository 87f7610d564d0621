// Command treeboost trains boosted tree ensembles on .npy data, scores new
// samples and reports feature importance.
//
// Usage:
//
//	treeboost train      --features X.npy --labels y.npy --model model.json [--config treeboost.yaml]
//	treeboost predict    --features X.npy --model model.json --output p.npy
//	treeboost importance --model model.json
//
// Every flag can also be set in the YAML config file or through TREEBOOST_*
// environment variables, e.g. TREEBOOST_PARAMS_NUM_ROUNDS=50.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "treeboost:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return errors.New("missing command")
	}
	switch args[0] {
	case "train":
		return runTrain(args[1:], stdout)
	case "predict":
		return runPredict(args[1:], stdout)
	case "importance":
		return runImportance(args[1:], stdout)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return errors.Newf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage: treeboost <command> [flags]

commands:
  train       fit an ensemble and save it as JSON
  predict     write probabilities for a feature matrix
  importance  print split counts per feature

run "treeboost <command> --help" for the flags of a command`)
}
