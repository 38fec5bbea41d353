package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smnsjas/go-pomade/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAssets(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[
  {"target": "XX~username", "type": "text", "value": "jakebellacera"},
  {"target": "XX~avatar", "type": "image", "value": "http://www.gravatar.com/avatar/a.png"}
]`), 0600))

	assets, err := loadAssets(good)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, asset.TypeImage, assets[1].Type)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"target": "XX~a", "value": "x"}]`), 0600))

	_, err = loadAssets(bad)
	assert.ErrorIs(t, err, asset.ErrInvalidAssetKeys)

	_, err = loadAssets(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, closeFn, err := newLogger("", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	closeFn()

	_, _, err = newLogger("verbose", "")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "pomade.log")
	logger, closeFn, err = newLogger("info", path)
	require.NoError(t, err)
	logger.Info("published", "password", "hunter2")
	closeFn()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "published")
	assert.NotContains(t, string(b), "hunter2")
}

func TestSetString(t *testing.T) {
	s := "config"
	setString(&s, "")
	assert.Equal(t, "config", s)
	setString(&s, "flag")
	assert.Equal(t, "flag", s)
}
