package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-meetings/internal/agent/config"
)

func TestDefaultPath_ReturnsPathInHomeDir(t *testing.T) {
	t.Setenv("MEETINGS_CREDENTIALS", "")

	p, err := config.DefaultPath()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".meetings", "credentials.json"), p)
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("MEETINGS_CREDENTIALS", "/tmp/creds.json")

	p, err := config.DefaultPath()
	require.NoError(t, err)
	require.Equal(t, "/tmp/creds.json", p)
}

func TestLoad_FileNotExists_ReturnsEmptyCredentials(t *testing.T) {
	creds, err := config.Load(filepath.Join(t.TempDir(), "no-such-file.json"))
	require.NoError(t, err)
	require.Equal(t, &config.Credentials{}, creds)
}

func TestLoad_BrokenJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(p, []byte("{"), 0o600))

	_, err := config.Load(p)
	require.Error(t, err)
}

func TestSaveLoad_RoundTripAndPermissions(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "creds.json")
	in := &config.Credentials{Email: "a@mail.com", AccessToken: "access", RefreshToken: "refresh"}

	require.NoError(t, config.Save(p, in))

	out, err := config.Load(p)
	require.NoError(t, err)
	require.Equal(t, in, out)

	if runtime.GOOS != "windows" {
		st, err := os.Stat(p)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), st.Mode().Perm())
	}
}
