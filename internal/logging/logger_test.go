package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.Equal(t, os.Stderr, logger.Out)
	assert.Empty(t, logger.FilePath())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "csmell.log")
	logger, err := New(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	assert.Equal(t, path, logger.FilePath())

	logger.WithField("rule", "nested-loop").Debug("finding recorded")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rule":"nested-loop"`)
	assert.Contains(t, string(data), `"msg":"finding recorded"`)
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csmell.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0644))
	require.NoError(t, os.WriteFile(path+".1", []byte("older"), 0644))

	logger, err := New(Config{Output: path, MaxSize: 32, MaxBackups: 3})
	require.NoError(t, err)
	defer logger.Close()

	backup, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Len(t, backup, 64, "current file moves to .1")

	older, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "older", string(older))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestRotation_BelowLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csmell.log")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0644))

	logger, err := New(Config{Output: path, MaxSize: 1024})
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path + ".1")
	assert.True(t, os.IsNotExist(err))
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("dropped")
	assert.NotNil(t, logger.Out)
}
