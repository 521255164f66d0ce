// Command predict applies saved weights to a single BMI value.
//
//	predict [flags] <weights_path> [bmi]
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ezoic/lifeexp/internal/cli"
	"github.com/ezoic/lifeexp/linear"
	"github.com/ezoic/lifeexp/pkg/log"
)

// DefaultBMI is used when no bmi argument is given.
const DefaultBMI = 21.07931

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("predict", "predict [flags] <weights_path> [bmi]", stderr)
	var common cli.CommonFlags
	common.Register(fs)
	if err := fs.Parse(args); err != nil {
		return cli.ParseFailed(err)
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return cli.UsageError(fs, "expected <weights_path> [bmi]")
	}

	bmi := DefaultBMI
	if fs.NArg() == 2 {
		v, err := strconv.ParseFloat(fs.Arg(1), 64)
		if err != nil {
			return cli.UsageError(fs, "bmi must be a number, got %q", fs.Arg(1))
		}
		bmi = v
	}

	if _, err := common.Setup(); err != nil {
		fmt.Fprintf(stderr, "predict: %v\n", err)
		return cli.ExitFailure
	}

	p, err := linear.LoadParams(fs.Arg(0))
	if err != nil {
		return cli.Fail(err, "Failed to load weights")
	}
	log.GetLoggerWithName("predict").Debug("Weights loaded",
		log.PathKey, fs.Arg(0), log.WeightKey, p.Weight, log.BiasKey, p.Bias)

	fmt.Fprintf(stdout, "BMI %s → predicted life expectancy %s\n",
		strconv.FormatFloat(bmi, 'f', -1, 64),
		strconv.FormatFloat(p.Predict(bmi), 'f', -1, 64))
	return cli.ExitOK
}
