package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) error {
	t.Helper()

	rootCmd, cleanup := newRootCmd()
	defer cleanup()

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestStorageFlag_KeepsDefaultSessionFileIntact(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	for _, k := range []string{"DEBTDESK_API_URL", "DEBTDESK_WEB_URL", "DEBTDESK_STORAGE", "DEBTDESK_STORAGE_PATH", "DEBTDESK_PASSPHRASE"} {
		t.Setenv(k, "")
	}
	configDir := filepath.Join(home, ".config", "debtdesk")

	require.NoError(t, runRoot(t, "--storage", "sqlite", "logout"))

	_, err := os.Stat(filepath.Join(configDir, "session.db"))
	assert.NoError(t, err, "sqlite backend should use its own file")
	_, err = os.Stat(filepath.Join(configDir, "session.json"))
	assert.True(t, os.IsNotExist(err), "sqlite backend must not create session.json")

	require.NoError(t, runRoot(t, "logout"))
}
