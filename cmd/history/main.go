// Command history lists recent training runs.
//
//	history [flags] [limit]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ezoic/lifeexp/config"
	"github.com/ezoic/lifeexp/history"
	"github.com/ezoic/lifeexp/internal/cli"
)

const defaultLimit = 10

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("history", "history [flags] [limit]", stderr)
	var common cli.CommonFlags
	common.Register(fs)
	dbPath := fs.String("db", "", "history database (overrides history.path)")
	if err := fs.Parse(args); err != nil {
		return cli.ParseFailed(err)
	}
	if fs.NArg() > 1 {
		return cli.UsageError(fs, "expected at most one argument: [limit]")
	}
	limit := defaultLimit
	if fs.NArg() == 1 {
		n, err := strconv.Atoi(fs.Arg(0))
		if err != nil || n <= 0 {
			return cli.UsageError(fs, "limit must be a positive integer, got %q", fs.Arg(0))
		}
		limit = n
	}

	set := cli.Visited(fs)
	cfg, err := common.Setup(func(cfg *config.Config) {
		if set["db"] {
			cfg.History.Path = *dbPath
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return cli.ExitFailure
	}
	if cfg.History.Path == "" {
		return cli.UsageError(fs, "no history database: set history.path or -db")
	}

	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		return cli.Fail(err, "Failed to open history")
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return cli.Fail(err, "Failed to read history")
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tEPOCHS\tLR\tSAMPLES\tWEIGHT\tBIAS\tLOSS\tWEIGHTS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%g\t%d\t%.6g\t%.6g\t%.6g\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Duration, r.Epochs, r.LearningRate,
			r.Samples, r.FinalWeight, r.FinalBias, r.FinalLoss, r.WeightsPath)
	}
	if err := tw.Flush(); err != nil {
		return cli.Fail(err, "Failed to write history")
	}
	return cli.ExitOK
}
