package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
	"github.com/shenxiangzhuang/aic/internal/pkg/git"
	"github.com/shenxiangzhuang/aic/internal/pkg/security"
)

// EnvPrefix prefixes the environment variables that override file values.
const EnvPrefix = "AIC"

// Options locate the configuration files.
type Options struct {
	// GlobalPath overrides DefaultGlobalPath.
	GlobalPath string
	// WorkDir is where project discovery starts. Defaults to the current directory.
	WorkDir string
}

// ViperManager resolves configuration with viper on top of the per-scope
// TOML files. It is safe to reuse across Load, Set and List calls; every call
// reads the files again.
type ViperManager struct {
	globalPath  string
	workDir     string
	projectPath string
	overrides   map[string]string
}

// NewManager creates a configuration manager.
func NewManager(opts Options) (*ViperManager, error) {
	globalPath := opts.GlobalPath
	if globalPath == "" {
		p, err := DefaultGlobalPath()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrNoWritableLocation, "failed to determine the user configuration directory")
		}
		globalPath = p
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidArguments, "failed to determine working directory")
		}
		workDir = wd
	}

	m := &ViperManager{
		globalPath: globalPath,
		workDir:    workDir,
		overrides:  make(map[string]string),
	}
	m.projectPath = FindProjectConfig(workDir)
	apperrors.Debug("config: global=%s project=%s", m.globalPath, m.projectPath)
	return m, nil
}

// GlobalPath returns the per-user configuration file path.
func (m *ViperManager) GlobalPath() string {
	return m.globalPath
}

// ProjectPath returns the discovered project file, or "" when there is none.
func (m *ViperManager) ProjectPath() string {
	return m.projectPath
}

// SetOverride sets a value that beats every other source for this process.
// Empty values are ignored so unset flags can be passed through.
func (m *ViperManager) SetOverride(key, value string) error {
	key, err := NormalizeKey(key)
	if err != nil {
		return err
	}
	if value != "" {
		m.overrides[key] = value
	}
	return nil
}

// Load returns the merged configuration.
// Priority: overrides > env > project file > global file > defaults.
func (m *ViperManager) Load() (*Config, error) {
	v, err := m.resolve()
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfigParse, "failed to decode configuration")
	}
	return &cfg, nil
}

// Get returns the resolved value for key.
func (m *ViperManager) Get(key string) (string, error) {
	cfg, err := m.Load()
	if err != nil {
		return "", err
	}
	return cfg.Get(key)
}

// Set stores value under key in the file for scope. An empty value unsets the key.
func (m *ViperManager) Set(key, value string, scope Scope) error {
	key, err := NormalizeKey(key)
	if err != nil {
		return err
	}
	path, err := m.PathFor(scope)
	if err != nil {
		return err
	}
	layer, _, err := readLayer(path)
	if err != nil {
		return err
	}
	layer.set(key, value)
	if err := writeLayer(path, layer); err != nil {
		return err
	}
	if scope == ScopeProject {
		m.projectPath = path
	}
	apperrors.Debug("config: %s %s in %s", verb(value), key, path)
	return nil
}

// Unset removes key from the file for scope.
func (m *ViperManager) Unset(key string, scope Scope) error {
	return m.Set(key, "", scope)
}

// PathFor returns the file a write to scope goes to. Project writes use the
// discovered .aic.toml, or create one at the repository root.
func (m *ViperManager) PathFor(scope Scope) (string, error) {
	if scope == ScopeGlobal {
		return m.globalPath, nil
	}
	if m.projectPath != "" {
		return m.projectPath, nil
	}
	root, err := git.FindRepositoryRoot(m.workDir)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrNoWritableLocation, "no project configuration location").
			WithSuggestion("Run inside a git repository to use --project, or drop the flag to write the global file")
	}
	return filepath.Join(root, ProjectConfigFileName), nil
}

// List returns every key with its resolved value and source. Token values are masked.
func (m *ViperManager) List() ([]Entry, error) {
	entries, err := m.entries()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Value = security.MaskValue(entries[i].Key, entries[i].Value)
	}
	return entries, nil
}

func (m *ViperManager) entries() ([]Entry, error) {
	global, project, err := m.layers()
	if err != nil {
		return nil, err
	}
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(Keys))
	for _, k := range Keys {
		value, _ := cfg.Get(k)
		e := Entry{Key: k, Value: value, Source: SourceDefault}
		switch {
		case m.overrides[k] != "":
			e.Source = SourceOverride
		case os.Getenv(envName(k)) != "":
			e.Source, e.Origin = SourceEnv, envName(k)
		case has(project, k):
			e.Source, e.Origin = SourceProject, m.projectPath
		case has(global, k):
			e.Source, e.Origin = SourceGlobal, m.globalPath
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (m *ViperManager) layers() (*fileLayer, *fileLayer, error) {
	global, _, err := readLayer(m.globalPath)
	if err != nil {
		return nil, nil, err
	}
	project, _, err := readLayer(m.projectPath)
	if err != nil {
		return nil, nil, err
	}
	return global, project, nil
}

func (m *ViperManager) resolve() (*viper.Viper, error) {
	global, project, err := m.layers()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)
	if err := v.MergeConfigMap(global.values()); err != nil {
		return nil, apperrors.NewConfigParseError(m.globalPath, err)
	}
	if err := v.MergeConfigMap(project.values()); err != nil {
		return nil, apperrors.NewConfigParseError(m.projectPath, err)
	}
	for k, val := range m.overrides {
		v.Set(k, val)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	for _, k := range Keys {
		v.SetDefault(k, defaults[k])
	}
}

// bindEnvVars binds AIC_API_TOKEN, AIC_MODEL and friends.
func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	for _, k := range Keys {
		_ = v.BindEnv(k, envName(k))
	}
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

func has(l *fileLayer, key string) bool {
	_, ok := l.lookup(key)
	return ok
}

func verb(value string) string {
	if value == "" {
		return "unset"
	}
	return "set"
}
