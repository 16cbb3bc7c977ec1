// Package paths resolves where the toolkit keeps its settings and session
// logs. Scripts run from inside a host application, so everything lives
// under one directory that an environment variable can relocate.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvDir relocates the rtk directory, for tests and sandboxed hosts.
const EnvDir = "RTK_DIR"

// BaseDir returns the rtk directory: the env override, home-expanded, or
// the relative default.
func BaseDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvDir)); dir != "" {
		return filepath.Clean(expandHome(dir))
	}
	return ".rtk"
}

// BaseDirForWorkdir anchors a relative base dir on the given working
// directory. Absolute overrides pass through unchanged.
func BaseDirForWorkdir(workdir string) string {
	base := BaseDir()
	if filepath.IsAbs(base) || strings.TrimSpace(workdir) == "" {
		return base
	}
	return filepath.Join(workdir, base)
}

// SettingsPath returns the default settings file location.
func SettingsPath() string {
	return filepath.Join(BaseDir(), "settings.yaml")
}

// SessionLogPath returns the log file for one session.
func SessionLogPath(session string) string {
	session = strings.TrimSpace(session)
	if session == "" {
		session = "rtk"
	}
	return filepath.Join(BaseDir(), "logs", session+".jsonl")
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil || strings.TrimSpace(home) == "" {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/"))
	}
	return path
}
