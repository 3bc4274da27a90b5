package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 19777, cfg.Server.Port)
	require.Equal(t, "Auntie Luna", cfg.Bot.Name)
	require.Equal(t, 1000, cfg.Bot.DelayMS)
	require.Len(t, cfg.Bot.Rules, 4)
	require.Equal(t, "tired", cfg.Bot.Rules[0].Contains)
	require.Len(t, cfg.Contacts, 3)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("FAMICHAT_TOKEN", "sekrit")
	path := writeConfig(t, "server:\n  auth:\n    token: \"${FAMICHAT_TOKEN}\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sekrit", cfg.Server.Auth.Token)
}

func TestLoad_UnsetEnvVarLeftVerbatim(t *testing.T) {
	path := writeConfig(t, "server:\n  auth:\n    token: \"${FAMICHAT_NO_SUCH_VAR}\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "${FAMICHAT_NO_SUCH_VAR}", cfg.Server.Auth.Token)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := DefaultConfig()
	want.Server.Port = 4000
	want.Bot.Rules = []BotRule{{Contains: "nap", Reply: "sleep tight"}}

	require.NoError(t, Write(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4000, got.Server.Port)
	require.Equal(t, want.Bot.Rules, got.Bot.Rules)
}

func TestGetSet(t *testing.T) {
	cfg := DefaultConfig()
	Set(cfg)
	require.Same(t, cfg, Get())

	Set(nil) // nil must not clobber the current config
	require.Same(t, cfg, Get())
}
