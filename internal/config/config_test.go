package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		cfg, err := Load(viper.New())
		require.NoError(t, err)

		assert.Equal(t, "Chart.yaml", cfg.Release.ChartFile)
		assert.Equal(t, "values.yaml", cfg.Release.ValuesFile)
		assert.Equal(t, ".drone.yaml", cfg.Release.PipelineFile)
		assert.False(t, cfg.Release.PreserveFormat)
		assert.Equal(t, "origin", cfg.Git.Remote)
		assert.Empty(t, cfg.Git.Token)
	})

	t.Run("should read a config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".ftctl.yaml")
		content := `release:
  pipeline_file: .drone.yml
  preserve_format: true
git:
  remote: upstream
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		v := viper.New()
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())

		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, ".drone.yml", cfg.Release.PipelineFile)
		assert.Equal(t, "values.yaml", cfg.Release.ValuesFile)
		assert.True(t, cfg.Release.PreserveFormat)
		assert.Equal(t, "upstream", cfg.Git.Remote)
	})

	t.Run("should reject file names with a directory", func(t *testing.T) {
		v := viper.New()
		v.Set(ValuesFileKey, "chart/values.yaml")

		_, err := Load(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ValuesFile")
		assert.Contains(t, err.Error(), "excludesall")
	})

	t.Run("should reject blank file names", func(t *testing.T) {
		v := viper.New()
		v.Set(ChartFileKey, "   ")

		_, err := Load(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ChartFile")
	})
}
