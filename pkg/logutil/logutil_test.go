package logutil

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	log "github.com/sirupsen/logrus"
)

func reset(t *testing.T) {
	t.Cleanup(func() {
		log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
		log.SetLevel(log.InfoLevel)
	})
}

func TestConfigureLevel(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "debug", Output: &buf}))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	log.Debug("looking up uni")
	assert.Contains(t, buf.String(), "looking up uni")
}

func TestConfigureDefaultLevel(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Output: &buf}))
	assert.Equal(t, log.InfoLevel, log.GetLevel())

	log.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestConfigureDefaultOutput(t *testing.T) {
	reset(t)
	require.NoError(t, Configure(Config{}))
	assert.Equal(t, os.Stderr, log.StandardLogger().Out)
}

func TestConfigureBadLevel(t *testing.T) {
	reset(t)
	assert.Error(t, Configure(Config{Level: "loud", Output: ioutil.Discard}))
}

func TestConfigureFile(t *testing.T) {
	reset(t)
	file := filepath.Join(t.TempDir(), "aci.log")
	require.NoError(t, Configure(Config{Level: "info", File: file, Output: ioutil.Discard}))

	log.WithField("tenant", "Legacy").Info("Committed")
	data, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tenant":"Legacy"`)
	assert.Contains(t, string(data), `"msg":"Committed"`)
}
