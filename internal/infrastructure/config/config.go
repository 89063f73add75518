// Package config provides configuration loading for the plox-version application.
// It reads settings from environment variables and from an optional
// .plox-version.yaml project file, and validates the project directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// Environment variable names.
const (
	// EnvProjectDir is the root of the working tree to version.
	EnvProjectDir = "PROJECT_DIR"

	// EnvDebug forces debug logging when set to any non-empty value.
	EnvDebug = "DEBUG"

	// EnvLogLevel is the log level (debug, info, warn, error).
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogFormat is the log encoding (console, json).
	EnvLogFormat = "LOG_FORMAT"

	// EnvLogAppName is the application name for log context.
	EnvLogAppName = "LOG_APP_NAME"

	// EnvBackend selects the repository backend (exec, gogit).
	EnvBackend = "PLOX_VERSION_BACKEND"

	// EnvGitExecutable is an explicit path to the git executable.
	EnvGitExecutable = "PLOX_VERSION_GIT"

	// EnvConfigFile is an explicit path to the project file.
	EnvConfigFile = "PLOX_VERSION_CONFIG"
)

// Default values.
const (
	DefaultProjectDir = "."
	DefaultLogLevel   = "error"
	DefaultLogFormat  = "console"
	DefaultLogAppName = "plox-version"
	DefaultBackend    = BackendExec

	// ProjectFileName is looked up in the project directory when EnvConfigFile is unset.
	ProjectFileName = ".plox-version.yaml"
)

// Repository backends.
const (
	// BackendExec runs the git executable.
	BackendExec = "exec"

	// BackendGoGit reads the repository with go-git.
	BackendGoGit = "gogit"
)

// Configuration errors.
var (
	// ErrProjectFileNotFound indicates an explicitly configured project file does not exist.
	ErrProjectFileNotFound = errors.New("project configuration file not found")

	// ErrProjectFileInvalid indicates the project file is not valid YAML.
	ErrProjectFileInvalid = errors.New("project configuration file is not valid YAML")

	// ErrUnknownBackend indicates an unsupported repository backend was requested.
	ErrUnknownBackend = errors.New("unknown repository backend")
)

// ProjectFile is the optional per-project configuration file.
type ProjectFile struct {
	// VersionFile is used when neither --version nor --version-file is given.
	// Relative paths are resolved against the project directory.
	VersionFile string `yaml:"version_file"`

	// Backend selects the repository backend; EnvBackend takes precedence.
	Backend string `yaml:"backend"`

	// Output is the default output format (text, json).
	Output string `yaml:"output"`
}

// Config holds all application configuration.
type Config struct {
	// ProjectDir is the validated root of the working tree.
	ProjectDir string

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string

	// LogFormat is the log encoding (console, json).
	LogFormat string

	// LogAppName is the application name for log context.
	LogAppName string

	// Debug is true when EnvDebug is set; it forces debug logging.
	Debug bool

	// Backend is BackendExec or BackendGoGit.
	Backend string

	// GitExecutable is an explicit git path; empty means look it up on PATH.
	GitExecutable string

	// VersionFile is the project file's default version file, already
	// resolved against ProjectDir. Empty when not configured.
	VersionFile string

	// Output is the project file's default output format. Empty when not configured.
	Output string
}

// Load loads the application configuration.
// projectDir overrides EnvProjectDir when non-empty; the result must be an
// existing directory containing a .git entry, otherwise
// domain.ErrRepositoryNotFound is returned.
func Load(projectDir string) (*Config, error) {
	if projectDir == "" {
		projectDir = getEnv(EnvProjectDir, DefaultProjectDir)
	}

	if err := ValidateProjectDir(projectDir); err != nil {
		return nil, err
	}

	pf, err := loadProjectFile(projectDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ProjectDir:    projectDir,
		LogLevel:      getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:     getEnv(EnvLogFormat, DefaultLogFormat),
		LogAppName:    getEnv(EnvLogAppName, DefaultLogAppName),
		Debug:         os.Getenv(EnvDebug) != "",
		Backend:       DefaultBackend,
		GitExecutable: os.Getenv(EnvGitExecutable),
		Output:        pf.Output,
	}

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if pf.Backend != "" {
		cfg.Backend = pf.Backend
	}
	if backend := os.Getenv(EnvBackend); backend != "" {
		cfg.Backend = backend
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend != BackendExec && cfg.Backend != BackendGoGit {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	if pf.VersionFile != "" {
		cfg.VersionFile = pf.VersionFile
		if !filepath.IsAbs(cfg.VersionFile) {
			cfg.VersionFile = filepath.Join(projectDir, cfg.VersionFile)
		}
	}

	return cfg, nil
}

// ValidateProjectDir checks that dir exists and looks like the root of a Git
// working tree. A .git file (worktrees, submodules) is accepted as well as a
// .git directory.
func ValidateProjectDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrRepositoryNotFound, dir)
	}

	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("%w: %s has no .git entry", domain.ErrRepositoryNotFound, dir)
	}

	return nil
}

// loadProjectFile reads the project file from EnvConfigFile or, failing
// that, from ProjectFileName in projectDir. A missing default file is not an error.
func loadProjectFile(projectDir string) (*ProjectFile, error) {
	path := os.Getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(projectDir, ProjectFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, fmt.Errorf("%w: %s", ErrProjectFileNotFound, path)
			}
			return &ProjectFile{}, nil
		}
		return nil, fmt.Errorf("failed to read project configuration: %w", err)
	}

	pf := &ProjectFile{}
	if err := yaml.Unmarshal(data, pf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProjectFileInvalid, path, err)
	}

	return pf, nil
}

// getEnv returns the trimmed value of key, or def when unset or blank.
func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
