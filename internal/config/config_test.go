package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeVideoTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "season1"), 0755))
	for _, name := range []string{"a.mkv", "b.mp4", "notes.txt", filepath.Join("season1", "c.mov")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	return dir
}

func TestValidate_ResolvesVideosAndDefaults(t *testing.T) {
	in := writeVideoTree(t)
	out := t.TempDir()

	cfg := &VideoConfig{
		Directory:       in,
		OutputDirectory: out,
		OutputLanguage:  "es",
	}
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Videos, 3)
	require.Equal(t, DefaultWorkers, cfg.Workers)
	require.Equal(t, DefaultStageTimeout, cfg.StageTimeout)
}

func TestValidate_NoVideos(t *testing.T) {
	cfg := &VideoConfig{
		Directory:       t.TempDir(),
		OutputDirectory: t.TempDir(),
	}
	require.ErrorContains(t, cfg.Validate(), "no videos found")
}

func TestValidate_SameLanguages(t *testing.T) {
	cfg := &VideoConfig{
		Directory:       writeVideoTree(t),
		OutputDirectory: t.TempDir(),
		InputLanguage:   "es",
		OutputLanguage:  "es",
	}
	require.ErrorContains(t, cfg.Validate(), "cannot be the same")
}

func TestValidate_UnknownLanguage(t *testing.T) {
	cfg := &VideoConfig{
		Directory:       writeVideoTree(t),
		OutputDirectory: t.TempDir(),
		OutputLanguage:  "xx",
	}
	require.ErrorContains(t, cfg.Validate(), "invalid output language")
}

func TestValidate_NegativeWorkers(t *testing.T) {
	cfg := &VideoConfig{
		Directory:       writeVideoTree(t),
		OutputDirectory: t.TempDir(),
		Workers:         -1,
	}
	require.ErrorContains(t, cfg.Validate(), "at least one worker")
}

func TestValidate_MissingInputDir(t *testing.T) {
	cfg := &VideoConfig{
		Directory:       filepath.Join(t.TempDir(), "missing"),
		OutputDirectory: t.TempDir(),
	}
	require.Error(t, cfg.Validate())
}

func TestLanguageName(t *testing.T) {
	name, err := LanguageName("es")
	require.NoError(t, err)
	require.Equal(t, "Spanish", name)

	_, err = LanguageName("???")
	require.Error(t, err)
}
