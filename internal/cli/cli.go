// Package cli holds the setup shared by the lifeexp commands.
package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/ezoic/lifeexp/config"
	"github.com/ezoic/lifeexp/pkg/errors"
	"github.com/ezoic/lifeexp/pkg/log"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// CommonFlags are accepted by every command.
type CommonFlags struct {
	ConfigPath string
	LogLevel   string
}

// Register adds -config and -log-level to fs.
func (c *CommonFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", "", "config file (default $"+config.EnvFile+" or "+config.DefaultFile+")")
	fs.StringVar(&c.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// Setup loads the configuration, applies the log level override and then
// each command's overrides, validates the result and installs the global
// logger.
func (c *CommonFlags) Setup(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := log.Configure(cfg.LogOptions()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Visited returns the names of the flags set on the command line, so an
// explicit empty or zero value still overrides the config.
func Visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// NewFlagSet returns a flag set that reports errors instead of exiting and
// prints usage followed by the flag defaults.
func NewFlagSet(name, usage string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// UsageError reports bad command-line arguments.
func UsageError(fs *flag.FlagSet, format string, args ...interface{}) int {
	fmt.Fprintf(fs.Output(), "%s: %s\n", fs.Name(), fmt.Sprintf(format, args...))
	fs.Usage()
	return ExitUsage
}

// Fail logs err and returns ExitFailure.
func Fail(err error, msg string) int {
	log.LogError(err, msg)
	return ExitFailure
}

// ParseFailed maps a flag.Parse error to an exit code. -h and -help exit
// cleanly; the flag package has already printed the message and usage.
func ParseFailed(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	return ExitUsage
}
