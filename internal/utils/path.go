package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// PathResolver resolves config and option list paths relative to the
// listpick binary, the working directory and the user config directory.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}

	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", "listpick")
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "listpick")
		}
		return filepath.Join(homeDir, ".config", "listpick")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "listpick")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "listpick")
	default:
		return filepath.Join(homeDir, ".listpick")
	}
}

// GetOptionsFile resolves an option list file. It tries, in order:
// 1. the path itself (absolute or relative to the working directory)
// 2. relative to the executable directory
// 3. inside the config directory
// The first existing file wins. If none exists the path is returned unchanged
// so the caller can report it.
func (pr *PathResolver) GetOptionsFile(userPath string) string {
	for _, candidate := range pr.optionCandidates(userPath) {
		if FileExists(candidate) {
			log.Debugf("Found option list: %s", candidate)
			return candidate
		}
		log.Debugf("Option list candidate missing: %s", candidate)
	}
	return userPath
}

func (pr *PathResolver) optionCandidates(userPath string) []string {
	if filepath.IsAbs(userPath) {
		return []string{userPath}
	}
	candidates := []string{userPath}
	candidates = append(candidates, filepath.Join(pr.executableDir, userPath))
	candidates = append(candidates, filepath.Join(pr.configDir, userPath))
	return candidates
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}
	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
