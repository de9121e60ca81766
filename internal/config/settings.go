// Package config loads the optional per-project settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/picklr-io/flydeploy/internal/identity"
)

const (
	// FileName is looked up in the Wasp project directory.
	FileName = ".flydeploy.yaml"

	// FlyctlEnvVar overrides the flyctl binary name.
	FlyctlEnvVar = "FLYDEPLOY_FLYCTL"
)

// Settings tunes how deployments are provisioned. Every field has a default
// so the file is optional.
type Settings struct {
	Platform PlatformSettings `yaml:"platform"`
	Server   ServerSettings   `yaml:"server"`
	Client   ClientSettings   `yaml:"client"`
	Postgres PostgresSettings `yaml:"postgres"`
	Deploy   DeploySettings   `yaml:"deploy"`
}

type PlatformSettings struct {
	// Binary is the flyctl executable.
	Binary string `yaml:"binary"`
	// Domain serves every app as https://<app>.<domain>.
	Domain string `yaml:"domain"`
}

type ServerSettings struct {
	Port int `yaml:"port"`
}

type ClientSettings struct {
	// Port is what the goStatic image listens on.
	Port int `yaml:"port"`
	// DefaultPort is what `flyctl launch` writes into a fresh fly.toml.
	DefaultPort int `yaml:"defaultPort"`
}

type PostgresSettings struct {
	VMSize             string `yaml:"vmSize"`
	InitialClusterSize int    `yaml:"initialClusterSize"`
	VolumeSize         int    `yaml:"volumeSize"`
	Org                string `yaml:"org"`
}

type DeploySettings struct {
	// Strategy is "remote" (build on Fly.io) or "local" (local Docker daemon).
	Strategy string `yaml:"strategy"`
}

const (
	StrategyRemote = "remote"
	StrategyLocal  = "local"
)

// Default returns the settings used when no file is present.
func Default() *Settings {
	return &Settings{
		Platform: PlatformSettings{Binary: "flyctl", Domain: identity.DefaultDomain},
		Server:   ServerSettings{Port: 8080},
		Client:   ClientSettings{Port: 8043, DefaultPort: 8080},
		Postgres: PostgresSettings{VMSize: "shared-cpu-1x", InitialClusterSize: 1, VolumeSize: 1},
		Deploy:   DeploySettings{Strategy: StrategyRemote},
	}
}

// Load reads <waspDir>/.flydeploy.yaml over the defaults.
func Load(waspDir string) (*Settings, error) {
	s := Default()
	path := filepath.Join(waspDir, FileName)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if bin := os.Getenv(FlyctlEnvVar); bin != "" {
		s.Platform.Binary = bin
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return s, nil
}

func (s *Settings) Validate() error {
	for name, port := range map[string]int{
		"server.port":        s.Server.Port,
		"client.port":        s.Client.Port,
		"client.defaultPort": s.Client.DefaultPort,
	} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
		}
	}
	if s.Postgres.InitialClusterSize < 1 {
		return fmt.Errorf("postgres.initialClusterSize must be at least 1")
	}
	if s.Postgres.VolumeSize < 1 {
		return fmt.Errorf("postgres.volumeSize must be at least 1")
	}
	switch s.Deploy.Strategy {
	case StrategyRemote, StrategyLocal:
	default:
		return fmt.Errorf("deploy.strategy must be %q or %q, got %q", StrategyRemote, StrategyLocal, s.Deploy.Strategy)
	}
	if s.Platform.Binary == "" {
		return fmt.Errorf("platform.binary must not be empty")
	}
	return nil
}
