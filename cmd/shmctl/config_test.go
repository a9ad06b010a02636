// Copyright 2016 Aleksandr Demakin. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "shmctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
object = " counter "
global = true
perm = "0640"
log_level = "debug"
`)
	cfg, err := loadConfig(path, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "counter", cfg.Object)
	assert.True(t, cfg.Global)
	assert.Equal(t, os.FileMode(0640), cfg.Perm)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `object = "counter"`)
	cfg, err := loadConfig(path, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "counter", cfg.Object)
	assert.False(t, cfg.Global)
	assert.Equal(t, os.FileMode(0666), cfg.Perm)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), defaultConfig())
	assert.Error(t, err)
	_, err = loadConfig(writeConfig(t, `object = `), defaultConfig())
	assert.Error(t, err)
	_, err = loadConfig(writeConfig(t, `perm = "rw"`), defaultConfig())
	assert.Error(t, err)
	_, err = loadConfig(writeConfig(t, `log_level = "loud"`), defaultConfig())
	assert.Error(t, err)
}

func TestParsePerm(t *testing.T) {
	perm, err := parsePerm("600")
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), perm)
	for _, value := range []string{"", "0", "8", "01000", "-1"} {
		_, err = parsePerm(value)
		assert.Error(t, err, value)
	}
}
