package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"videobatch/pkg/auth"
	"videobatch/pkg/config"
	errs "videobatch/pkg/errors"
	"videobatch/pkg/ui"
)

// isolate points config discovery at an empty directory and clears
// every variable the CLI reads
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, name := range append(auth.APIKeyEnvVars, "DATABASE_URL", "VIDEOBATCH_DATABASE_URL", "VIDEOBATCH_LOG_FILE") {
		t.Setenv(name, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	keyring.MockInit()
	configFile = ""
	logLevel = ""
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	prev := ui.Output
	ui.Output = &out
	t.Cleanup(func() { ui.Output = prev })

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExampleConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, yaml.Unmarshal([]byte(exampleConfig), cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, *config.DefaultConfig(), *cfg)
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"run": false, "status": false, "migrate": false, "config": false, "auth": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "missing command %s", name)
	}
}

func TestConfigInitWritesFile(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created")

	data, err := os.ReadFile(filepath.Join(dir, ".videobatch.yaml"))
	require.NoError(t, err)
	assert.Equal(t, exampleConfig, string(data))

	_, err = execute(t, "config", "init")
	assert.Error(t, err)
}

func TestConfigShowMasksSecrets(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
youtube:
  api_key: "AIzaSySecretValue"
database:
  url: "postgres://batch:hunter2@db:5432/videos"
`), 0600))

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "AIzaSySecretValue")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "db:5432/videos")
}

func TestConfigValidateReportsErrors(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
youtube:
  page_size: 500
batch:
  timezone: "Nowhere/City"
`), 0600))

	_, err := execute(t, "config", "validate", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page size")
	assert.Contains(t, err.Error(), "timezone")
}

func TestRunWithoutAPIKeyIsBootstrapFailure(t *testing.T) {
	isolate(t)
	t.Setenv("VIDEOBATCH_LOG_LEVEL", "error")

	_, err := execute(t, "run")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindBootstrap))
	assert.ErrorIs(t, err, auth.ErrCredentialsNotFound)
}

func TestAuthKeyLifecycle(t *testing.T) {
	isolate(t)

	_, err := execute(t, "auth", "status")
	assert.ErrorIs(t, err, auth.ErrCredentialsNotFound)

	_, err = auth.NewManager("").SetKey("AIzaSyExample1234")
	require.NoError(t, err)

	out, err := execute(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "keyring")
	assert.Contains(t, out, "AIza...1234")

	out, err = execute(t, "auth", "clear-key")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	out, err = execute(t, "auth", "clear-key")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored API key")
}
