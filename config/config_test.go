package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timothyrenner/svl/config"
)

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nonexistent.jsonc"))
	require.NoError(t, err)
	assert.Equal(t, config.Config{}, cfg)
}

func TestLoad_StripsCommentsBeforeDecoding(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".svlrc.jsonc")
	contents := `{
		// default output path
		"output_file": "out.html",
		"backend": "plotly",
		"datasets": {"bigfoot": "./bigfoot.csv"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out.html", cfg.OutputFile)
	assert.Equal(t, "plotly", cfg.Backend)
	assert.Equal(t, "./bigfoot.csv", cfg.Datasets["bigfoot"])
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".svlrc.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend": "d3"}`), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
}
