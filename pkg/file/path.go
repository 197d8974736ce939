package file

import (
	"path/filepath"
	"strings"
)

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReplaceExt swaps the extension of path for ext (with or without a
// leading dot). A path without an extension gets ext appended.
func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	lastDot := strings.LastIndex(filename, ".")

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if lastDot <= 0 {
		return filepath.Join(dir, filename+ext)
	}

	return filepath.Join(dir, filename[:lastDot]+ext)
}

// MirrorDir maps the directory of path, relative to inputRoot, onto
// outputRoot. A video at <inputRoot>/a/b/v.mkv mirrors to <outputRoot>/a/b.
func MirrorDir(inputRoot, path, outputRoot string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(inputRoot), filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return filepath.Join(outputRoot, rel), nil
}
