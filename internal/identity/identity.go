// Package identity derives the Fly.io resource names of a deployment from its
// base name, and recovers the base name from a recorded app name.
package identity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultDomain is the public domain Fly.io serves apps under.
const DefaultDomain = "fly.dev"

// ErrMalformedConfig is returned when a configuration record does not carry an
// app name this tool could have produced.
var ErrMalformedConfig = errors.New("malformed config")

// Tier is one half of a two-tier deployment.
type Tier string

const (
	Server Tier = "server"
	Client Tier = "client"
)

// Tiers lists every tier in the order lifecycles visit them.
var Tiers = []Tier{Server, Client}

// ParseTier validates a --context value.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case Server:
		return Server, nil
	case Client:
		return Client, nil
	default:
		return "", fmt.Errorf("unknown context %q: must be one of %q or %q", s, Server, Client)
	}
}

// Suffix is appended to the base name to form the tier's app name.
func (t Tier) Suffix() string {
	return "-" + string(t)
}

// Names holds every platform-side name of one logical deployment.
type Names struct {
	Base      string
	Server    string
	ServerURL string
	Client    string
	ClientURL string
	Database  string
}

// App returns the app name of the given tier.
func (n Names) App(t Tier) string {
	if t == Client {
		return n.Client
	}
	return n.Server
}

// URL returns the public URL of the given tier.
func (n Names) URL(t Tier) string {
	if t == Client {
		return n.ClientURL
	}
	return n.ServerURL
}

// Derive returns the names for base under DefaultDomain.
func Derive(base string) Names {
	return DeriveWithDomain(base, DefaultDomain)
}

// DeriveWithDomain returns the names for base, with URLs under domain.
func DeriveWithDomain(base, domain string) Names {
	if domain == "" {
		domain = DefaultDomain
	}
	server := base + Server.Suffix()
	client := base + Client.Suffix()
	return Names{
		Base:      base,
		Server:    server,
		ServerURL: appURL(server, domain),
		Client:    client,
		ClientURL: appURL(client, domain),
		Database:  base + "-db",
	}
}

func appURL(app, domain string) string {
	return fmt.Sprintf("https://%s.%s", app, domain)
}

// Recover strips the tier suffix from a recorded app name.
func Recover(app string, tier Tier) (string, error) {
	app = strings.TrimSpace(app)
	if app == "" {
		return "", fmt.Errorf("%w: %s config has no app name", ErrMalformedConfig, tier)
	}
	base, ok := strings.CutSuffix(app, tier.Suffix())
	if !ok || base == "" {
		return "", fmt.Errorf("%w: app %q in %s config does not end in %q", ErrMalformedConfig, app, tier, tier.Suffix())
	}
	return base, nil
}

// Fly app names are lowercase alphanumerics and dashes.
var basePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateBase rejects base names Fly.io would refuse once suffixed.
func ValidateBase(base string) error {
	if !basePattern.MatchString(base) {
		return fmt.Errorf("invalid base name %q: use lowercase letters, digits and dashes", base)
	}
	if strings.HasSuffix(base, "-") {
		return fmt.Errorf("invalid base name %q: must not end with a dash", base)
	}
	return nil
}
