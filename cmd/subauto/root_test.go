package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommand_Flags(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{
		"directory", "output-dir", "input-language", "output-language",
		"workers", "whisper-model", "schedule", "log-level", "stage-timeout",
	} {
		require.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}

	require.Equal(t, "2", cmd.Flags().Lookup("workers").DefValue)
	require.Equal(t, "en", cmd.Flags().Lookup("output-language").DefValue)
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	require.True(t, names["set-api-key"])
	require.True(t, names["history"])
}

func TestSetAPIKeyCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cmd := newSetAPIKeyCommand()
	cmd.SetArgs([]string{"test-key-1234"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(home, ".subauto", "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "test-key-1234")
}

func TestSetAPIKeyCommand_RequiresArgument(t *testing.T) {
	cmd := newSetAPIKeyCommand()
	cmd.SetArgs(nil)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	require.Error(t, cmd.Execute())
}
