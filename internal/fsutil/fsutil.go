package fsutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// EnsureDir creates the directory and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// UniqueDir returns baseDir/name, appending " (1)", " (2)", ... until the
// path does not exist yet. Re-runs on the same video land in a fresh
// directory instead of overwriting earlier results.
func UniqueDir(baseDir, name string) string {
	path := filepath.Join(baseDir, name)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(baseDir, fmt.Sprintf("%s (%d)", name, n))
	}
}

// BaseName strips the directory and extension from a video path.
func BaseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// SanitizeName lowercases a name and replaces runs of non-alphanumerics
// with single dashes, yielding a safe directory segment.
func SanitizeName(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// TempAudioPath returns a unique path for an intermediate audio file under
// the system temp directory. ext includes the dot, e.g. ".wav".
func TempAudioPath(ext string) string {
	return filepath.Join(os.TempDir(), "scenesnap-"+uuid.NewString()+ext)
}

// SafeRemove deletes a file, treating a missing file as success.
func SafeRemove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CommandAvailable reports whether a binary can be resolved via PATH (or is
// an existing absolute/relative path).
func CommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".m4v":  true,
	".flv":  true,
}

// IsVideoFile reports whether the path has a recognized video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}
