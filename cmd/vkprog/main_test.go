package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnkdev/vkprog/app"
)

func TestRunFlags(t *testing.T) {
	assert.Equal(t, app.CodeOK, run([]string{"-h"}))
	assert.Equal(t, app.CodeUnknown, run([]string{"-nope"}))

	missing := filepath.Join(t.TempDir(), "missing.env")
	assert.Equal(t, app.CodeUnknown, run([]string{"-env", missing, "frobnicate"}))
	assert.Equal(t, app.CodeUnknown, run([]string{"-env", missing, "-config", filepath.Join(t.TempDir(), "missing.yaml")}))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vkprog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 640\n"), 0o600))
	t.Setenv("VKPROG_HEIGHT", "480")

	cfg, err := loadConfig(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)

	t.Setenv("VKPROG_TIE_BREAK", "sideways")
	_, err = loadConfig(path, filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}
