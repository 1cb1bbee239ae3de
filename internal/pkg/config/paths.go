package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// ProjectConfigFileName is the repository-local configuration file.
	ProjectConfigFileName = ".aic.toml"
	appDirName            = "aic"
	globalConfigFileName  = "config.toml"
)

// DefaultGlobalPath returns the per-user configuration file path:
// $XDG_CONFIG_HOME/aic/config.toml or ~/.config/aic/config.toml, and
// %AppData%\aic\config.toml on Windows.
func DefaultGlobalPath() (string, error) {
	if runtime.GOOS == "windows" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName, globalConfigFileName), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(xdg) {
		return filepath.Join(xdg, appDirName, globalConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName, globalConfigFileName), nil
}

// FindProjectConfig walks from start towards the filesystem root looking for
// .aic.toml. The walk stops after the first directory that contains .git.
// It returns "" when no project file exists.
func FindProjectConfig(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
