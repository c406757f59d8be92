package logutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurePersistentLogging(t *testing.T) {
	out := logrus.StandardLogger().Out
	t.Cleanup(func() { logrus.SetOutput(out) })

	path := filepath.Join(t.TempDir(), "indexer.log")
	require.NoError(t, ConfigurePersistentLogging(path))

	logrus.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")

	require.Error(t, ConfigurePersistentLogging(filepath.Join(t.TempDir(), "missing", "indexer.log")))
}

func TestSetVerbosity(t *testing.T) {
	level := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(level) })

	require.NoError(t, SetVerbosity("debug"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	require.Error(t, SetVerbosity("loud"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}
