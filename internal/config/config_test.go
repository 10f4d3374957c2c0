package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, PackageBin, cfg.PackageType)
	assert.True(t, cfg.Std)
}

func TestLoadOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rock.yaml")
	content := "project:\n  name: demo\npackage_type: lib\nverbose: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.ProjectConfig.Name)
	assert.Equal(t, PackageLib, cfg.PackageType)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Std, "unset fields keep Default()'s value")
}
