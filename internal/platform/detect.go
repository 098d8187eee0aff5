package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appName = "voxlate"

	// DefaultWorkDir holds both source audio and generated files.
	DefaultWorkDir = "input"
)

func ResolveWorkDir(override string) string {
	if strings.TrimSpace(override) == "" {
		return DefaultWorkDir
	}
	return filepath.Clean(override)
}

// UserEnvFileFor returns the per-user dotenv file location.
func UserEnvFileFor(goos, homeDir, xdgConfigHome string) (string, error) {
	dir, err := configDirFor(goos, homeDir, xdgConfigHome)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "env"), nil
}

// ResolveUserEnvFile returns "" when no home directory can be determined, which
// disables the per-user file instead of failing the run.
func ResolveUserEnvFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	path, err := UserEnvFileFor(runtime.GOOS, homeDir, os.Getenv("XDG_CONFIG_HOME"))
	if err != nil {
		return ""
	}
	return path
}

func configDirFor(goos, homeDir, xdgConfigHome string) (string, error) {
	if homeDir == "" {
		return "", errors.New("home directory is empty")
	}

	switch goos {
	case "linux":
		if xdgConfigHome != "" {
			return filepath.Join(xdgConfigHome, appName), nil
		}
		return filepath.Join(homeDir, ".config", appName), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appName), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}
