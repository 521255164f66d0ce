// Command serve answers life expectancy predictions over HTTP.
//
//	serve [flags] <weights_path>
//
//	curl -d 'bmi=21.07931' -X POST http://localhost:8080/predict
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ezoic/lifeexp/config"
	"github.com/ezoic/lifeexp/internal/cli"
	"github.com/ezoic/lifeexp/linear"
	"github.com/ezoic/lifeexp/pkg/log"
	"github.com/ezoic/lifeexp/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := cli.NewFlagSet("serve", "serve [flags] <weights_path>", stderr)
	var common cli.CommonFlags
	common.Register(fs)
	addr := fs.String("addr", "", "listen address (overrides server.addr)")
	watch := fs.Bool("watch", false, "reload the weights file when it changes")
	if err := fs.Parse(args); err != nil {
		return cli.ParseFailed(err)
	}
	if fs.NArg() != 1 {
		return cli.UsageError(fs, "expected exactly one argument: <weights_path>")
	}
	weightsPath := fs.Arg(0)

	set := cli.Visited(fs)
	cfg, err := common.Setup(func(cfg *config.Config) {
		if set["addr"] {
			cfg.Server.Addr = *addr
		}
		if set["watch"] {
			cfg.Server.Watch = *watch
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "serve: %v\n", err)
		return cli.ExitFailure
	}
	logger := log.GetLoggerWithName("server")

	p, err := linear.LoadParams(weightsPath)
	if err != nil {
		return cli.Fail(err, "Failed to load weights")
	}
	logger.Info("Weights loaded", log.PathKey, weightsPath, log.WeightKey, p.Weight, log.BiasKey, p.Bias)

	gin.SetMode(gin.ReleaseMode)
	snap := server.NewSnapshot(p)
	srv := server.New(cfg.Server.Addr, server.NewRouter(snap, logger), logger)

	if cfg.Server.Watch {
		w, err := server.NewWatcher(weightsPath, snap, logger)
		if err != nil {
			return cli.Fail(err, "Failed to watch weights")
		}
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() { _ = w.Run(watchCtx) }()
		logger.Info("Watching weights", log.PathKey, weightsPath)
	}

	if err := srv.Run(ctx); err != nil {
		return cli.Fail(err, "Server failed")
	}
	return cli.ExitOK
}
