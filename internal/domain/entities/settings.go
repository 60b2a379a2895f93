package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBranch        = "master"
	DefaultCommitMessage = "🔄 Auto commit changes"
	DefaultResetMessage  = "🚀 Clean reset push"
	DefaultAuthorName    = "autosync"
	DefaultAuthorEmail   = "autosync@localhost"
	DefaultWorkers       = 1
)

// Settings is the immutable run configuration, loaded once at startup.
type Settings struct {
	Root          string             `yaml:"root"`
	Branch        string             `yaml:"branch"`
	CommitMessage string             `yaml:"commit_message"`
	ResetMessage  string             `yaml:"reset_message"`
	Author        AuthorSettings     `yaml:"author"`
	Exclude       []string           `yaml:"exclude"`
	Workers       int                `yaml:"workers"`
	Timeout       time.Duration      `yaml:"timeout"`
	Providers     []ProviderSettings `yaml:"providers"`
}

// AuthorSettings is the identity used for automatic commits.
type AuthorSettings struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// ProviderSettings describes a single hosting provider account.
type ProviderSettings struct {
	Type         string `yaml:"type"`         // "github", "gitlab", "bitbucket", "azuredevops"
	Token        string `yaml:"token"`        // Inline, ${ENV_VAR}, or file path
	Namespace    string `yaml:"namespace"`    // user, org, group, workspace or "org/project"
	Host         string `yaml:"host"`         // optional self-hosted or enterprise host
	Remote       string `yaml:"remote"`       // local remote label, defaults to Type
	Username     string `yaml:"username"`     // basic-auth user where the provider needs one
	Private      bool   `yaml:"private"`      // visibility of newly created repositories
	Organization bool   `yaml:"organization"` // namespace is an org/group rather than the token owner
}

// RemoteName returns the label under which this provider is registered as a
// git remote.
func (p ProviderSettings) RemoteName() string {
	if p.Remote != "" {
		return p.Remote
	}
	return p.Type
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving token file paths. A non-empty root replaces the
// configured one.
func NewSettings(path, root string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Root = envVarPattern.ReplaceAllStringFunc(settings.Root, expandEnvVar)
	if root != "" {
		settings.Root = root
	}
	for i := range settings.Providers {
		settings.Providers[i].Token = resolveToken(settings.Providers[i].Token)
	}

	settings.applyDefaults()
	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// NewSettingsFromEnv builds the settings from environment variables only.
// A provider is configured when its token variable is set.
func NewSettingsFromEnv(root string) (*Settings, error) {
	settings := Settings{
		Root:   os.Getenv("AUTOSYNC_ROOT"),
		Branch: os.Getenv("AUTOSYNC_BRANCH"),
	}
	if root != "" {
		settings.Root = root
	}

	if token := firstEnv("GITHUB_TOKEN", "GH_TOKEN"); token != "" {
		settings.Providers = append(settings.Providers, ProviderSettings{
			Type:      "github",
			Token:     token,
			Namespace: os.Getenv("GITHUB_USERNAME"),
		})
	}
	if token := firstEnv("GITLAB_TOKEN", "GL_TOKEN"); token != "" {
		settings.Providers = append(settings.Providers, ProviderSettings{
			Type:      "gitlab",
			Token:     token,
			Namespace: os.Getenv("GITLAB_NAMESPACE"),
		})
	}
	if token := os.Getenv("BITBUCKET_TOKEN"); token != "" {
		settings.Providers = append(settings.Providers, ProviderSettings{
			Type:      "bitbucket",
			Token:     token,
			Namespace: os.Getenv("BITBUCKET_WORKSPACE"),
			Username:  os.Getenv("BITBUCKET_USERNAME"),
		})
	}
	if token := firstEnv("AZURE_DEVOPS_EXT_PAT", "SYSTEM_ACCESSTOKEN"); token != "" {
		settings.Providers = append(settings.Providers, ProviderSettings{
			Type:      "azuredevops",
			Token:     token,
			Namespace: os.Getenv("AZURE_DEVOPS_NAMESPACE"),
		})
	}

	settings.applyDefaults()
	if err := validate(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".autosync.yaml",
		".autosync.yml",
		"autosync.yaml",
		"autosync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

func (s *Settings) applyDefaults() {
	if s.Branch == "" {
		s.Branch = DefaultBranch
	}
	if s.CommitMessage == "" {
		s.CommitMessage = DefaultCommitMessage
	}
	if s.ResetMessage == "" {
		s.ResetMessage = DefaultResetMessage
	}
	if s.Author.Name == "" {
		s.Author.Name = DefaultAuthorName
	}
	if s.Author.Email == "" {
		s.Author.Email = DefaultAuthorEmail
	}
	if s.Workers <= 0 {
		s.Workers = DefaultWorkers
	}
	if s.Root != "" {
		if abs, err := filepath.Abs(s.Root); err == nil {
			s.Root = abs
		}
	}
}

// IsExcluded reports whether a directory name is listed in Exclude.
func (s *Settings) IsExcluded(name string) bool {
	for _, excluded := range s.Exclude {
		if excluded == name {
			return true
		}
	}
	return false
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, expandEnvVar)

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func expandEnvVar(match string) string {
	varName := envVarPattern.FindStringSubmatch(match)[1]
	if val := os.Getenv(varName); val != "" {
		return val
	}
	logger.Warnf("Environment variable %q is not set", varName)
	return ""
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// validate checks for required configuration values.
func validate(settings *Settings) error {
	if settings.Root == "" {
		return errors.New("root is required (set in config or via AUTOSYNC_ROOT)")
	}
	if len(settings.Providers) == 0 {
		return ErrNoProviders
	}

	labels := make(map[string]int, len(settings.Providers))
	for i, p := range settings.Providers {
		if p.Type == "" {
			return fmt.Errorf("providers[%d].type is required", i)
		}
		if p.Token == "" {
			return fmt.Errorf(
				"providers[%d].token is required (set inline, via ${ENV_VAR}, or as file path)",
				i,
			)
		}
		if p.Namespace == "" {
			return fmt.Errorf("providers[%d].namespace is required", i)
		}
		if prev, ok := labels[p.RemoteName()]; ok {
			return fmt.Errorf(
				"providers[%d] and providers[%d] share the remote name %q",
				prev, i, p.RemoteName(),
			)
		}
		labels[p.RemoteName()] = i
	}

	return nil
}
