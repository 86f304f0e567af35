package ashierlog

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToInfoLevel(t *testing.T) {
	t.Setenv("ASHIER_LOG_LEVEL", "")
	entry := New("test")
	assert.Equal(t, logrus.InfoLevel, entry.Logger.GetLevel())
	assert.Equal(t, "test", entry.Data["component"])
}

func TestNewHonorsEnvLevel(t *testing.T) {
	t.Setenv("ASHIER_LOG_LEVEL", "debug")
	entry := New("test")
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
}

func TestSetLevel(t *testing.T) {
	entry := New("test")
	require.NoError(t, SetLevel(entry, "warn"))
	assert.Equal(t, logrus.WarnLevel, entry.Logger.GetLevel())
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	entry := New("test")
	assert.Error(t, SetLevel(entry, "not-a-level"))
}
