package cli

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/lifeexp/config"
	"github.com/ezoic/lifeexp/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	t.Setenv(config.EnvFile, "")
	path := filepath.Join(t.TempDir(), "lifeexp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSetupLogLevelOverridesConfig(t *testing.T) {
	common := CommonFlags{ConfigPath: writeConfig(t, "log:\n  level: loud\n"), LogLevel: "warn"}

	cfg, err := common.Setup()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	common.LogLevel = ""
	_, err = common.Setup()
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestSetupValidatesOverrides(t *testing.T) {
	common := CommonFlags{ConfigPath: writeConfig(t, "log:\n  level: error\n")}

	_, err := common.Setup(func(cfg *config.Config) { cfg.Train.LearningRate = -1 })
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = common.Setup(func(cfg *config.Config) { cfg.Data.Path = "" })
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	cfg, err := common.Setup(func(cfg *config.Config) { cfg.Train.LearningRate = 0.5 })
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Train.LearningRate)
}

func TestVisited(t *testing.T) {
	fs := NewFlagSet("test", "test [flags]", &bytes.Buffer{})
	fs.String("data", "", "")
	fs.Float64("lr", 0, "")
	require.NoError(t, fs.Parse([]string{"-data", ""}))

	set := Visited(fs)
	assert.True(t, set["data"])
	assert.False(t, set["lr"])
}

func TestParseFailed(t *testing.T) {
	assert.Equal(t, ExitOK, ParseFailed(flag.ErrHelp))
	assert.Equal(t, ExitUsage, ParseFailed(errors.New("flag provided but not defined: -x")))
}
