package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lorehq/create-lore/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys. Each is also readable from the environment as LORE_<KEY>.
const (
	KeyTemplate     = "template"
	KeyTemplateRepo = "template_repo"
	KeyTemplateRef  = "template_ref"
	KeyTransport    = "transport"
	KeyFilterPolicy = "filter_policy"
	KeyTools        = "tools"
)

// Transports understood by the acquire package.
const (
	TransportGoGit = "go-git"
	TransportGit   = "git"
)

// Filter policies understood by the tree package.
const (
	PolicyAllowlist = "allowlist"
	PolicyDenylist  = "denylist"
)

// DefaultTools is the tool selection used when nothing else is configured.
var DefaultTools = []string{"claude", "cursor", "opencode"}

// Settings is the resolved view of every key.
type Settings struct {
	Template     string
	TemplateRepo string
	TemplateRef  string
	Transport    string
	FilterPolicy string
	Tools        []string
}

// Config wraps a viper instance scoped to one invocation.
type Config struct {
	v *viper.Viper
}

// Dir returns the path to the config directory (~/.lore/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.lore/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load initializes viper to read from the given config file and environment.
// An empty path means FilePath(). A missing file is not an error; a file that
// exists but cannot be parsed is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FilePath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	v.SetDefault(KeyTemplateRepo, branding.TemplateRepoURL())
	v.SetDefault(KeyTransport, TransportGoGit)
	v.SetDefault(KeyFilterPolicy, PolicyAllowlist)
	v.SetDefault(KeyTools, DefaultTools)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return &Config{v: v}, nil
}

// Viper exposes the underlying instance so commands can bind flags to keys.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// Settings resolves and validates every key.
func (c *Config) Settings() (*Settings, error) {
	s := &Settings{
		Template:     c.v.GetString(KeyTemplate),
		TemplateRepo: c.v.GetString(KeyTemplateRepo),
		TemplateRef:  c.v.GetString(KeyTemplateRef),
		Transport:    strings.ToLower(c.v.GetString(KeyTransport)),
		FilterPolicy: strings.ToLower(c.v.GetString(KeyFilterPolicy)),
		Tools:        splitList(c.v.GetStringSlice(KeyTools)),
	}

	switch s.Transport {
	case TransportGoGit, TransportGit:
	default:
		return nil, fmt.Errorf("invalid %s %q: must be %q or %q", KeyTransport, s.Transport, TransportGoGit, TransportGit)
	}

	switch s.FilterPolicy {
	case PolicyAllowlist, PolicyDenylist:
	default:
		return nil, fmt.Errorf("invalid %s %q: must be %q or %q", KeyFilterPolicy, s.FilterPolicy, PolicyAllowlist, PolicyDenylist)
	}

	if len(s.Tools) == 0 {
		s.Tools = append([]string(nil), DefaultTools...)
	}

	return s, nil
}

// splitList normalizes a list that may arrive as ["a,b"] from an env var or
// flag into ["a", "b"], dropping blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
