package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntP("width", "w", 0, "")
	fs.String("copy-to", "", "")
	fs.String("model", "default-model", "")
	fs.String("config", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TESTCODES_WIDTH", "500")
	t.Setenv("TESTCODES_COPY_TO", "static/photo")

	cfg := filepath.Join(t.TempDir(), "codes.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("width: 700\nmodel: file-model\n"), 0o644))

	v, err := Load(flags(t, "--config", cfg), "TESTCODES")
	require.NoError(t, err)
	assert.Equal(t, 500, v.GetInt("width"))
	assert.Equal(t, "static/photo", v.GetString("copy-to"))
	assert.Equal(t, "file-model", v.GetString("model"))

	v, err = Load(flags(t, "-w", "300", "--config", cfg), "TESTCODES")
	require.NoError(t, err)
	assert.Equal(t, 300, v.GetInt("width"))
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := Load(flags(t), "TESTCODES_UNSET")
	require.NoError(t, err)
	assert.Equal(t, 0, v.GetInt("width"))
	assert.Equal(t, "default-model", v.GetString("model"))
}

func TestLoadDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("TESTCODES_DOTENV_MODEL=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TESTCODES_DOTENV_MODEL") })

	v, err := Load(flags(t), "TESTCODES_DOTENV")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", v.GetString("model"))
}

func TestLoadMissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(flags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")), "TESTCODES")
	assert.Error(t, err)
}
