package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"
)

// Configuration represents the YAML/JSON configuration file structure
type Configuration struct {
	General struct {
		Threads   int     `yaml:"threads" json:"threads"`
		Timeout   int     `yaml:"timeout" json:"timeout"`
		Retries   int     `yaml:"retries" json:"retries"`
		RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
		Verbose   int     `yaml:"verbose" json:"verbose"`
		LogDir    string  `yaml:"log_dir" json:"log_dir"`
	} `yaml:"general" json:"general"`

	Input struct {
		Domain   string `yaml:"domain" json:"domain"`
		Wordlist string `yaml:"wordlist" json:"wordlist"`
	} `yaml:"input" json:"input"`

	Output struct {
		File     string `yaml:"file" json:"file"`
		Silent   bool   `yaml:"silent" json:"silent"`
		Progress bool   `yaml:"progress" json:"progress"`
		NoColor  bool   `yaml:"no_color" json:"no_color"`
	} `yaml:"output" json:"output"`

	Network struct {
		DNSServers      []string `yaml:"dns_servers" json:"dns_servers"`
		IPv6            bool     `yaml:"ipv6" json:"ipv6"`
		IncludeWildcard bool     `yaml:"include_wildcard" json:"include_wildcard"`
	} `yaml:"network" json:"network"`

	Features struct {
		Database string `yaml:"database" json:"database"`
		APIPort  int    `yaml:"api_port" json:"api_port"`
	} `yaml:"features" json:"features"`

	Notifications struct {
		Slack string `yaml:"slack" json:"slack"`
	} `yaml:"notifications" json:"notifications"`
}

// Default returns the configuration used when neither flags nor a file
// override a setting.
func Default() Configuration {
	var c Configuration
	c.General.Threads = 100
	c.General.Timeout = 5
	c.General.Verbose = 1
	c.Network.IPv6 = true
	return c
}

// Load reads a configuration file on top of the defaults. Files ending in
// .json are decoded as JSON, anything else as YAML.
func Load(path string) (Configuration, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = json.Unmarshal(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return c, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return c, nil
}

// Validate checks the settings and normalises the target domain in place.
func (c *Configuration) Validate() error {
	domain, err := NormalizeDomain(c.Input.Domain)
	if err != nil {
		return err
	}
	c.Input.Domain = domain

	switch {
	case c.General.Threads < 1:
		return fmt.Errorf("concurrency must be at least 1, got %d", c.General.Threads)
	case c.General.Timeout < 1:
		return fmt.Errorf("timeout must be at least 1 second, got %d", c.General.Timeout)
	case c.General.Retries < 0:
		return fmt.Errorf("retries must not be negative, got %d", c.General.Retries)
	case c.General.RateLimit < 0:
		return fmt.Errorf("rate limit must not be negative, got %v", c.General.RateLimit)
	case c.General.Verbose < 0 || c.General.Verbose > 3:
		return fmt.Errorf("verbosity must be between 0 and 3, got %d", c.General.Verbose)
	case c.Features.APIPort < 0 || c.Features.APIPort > 65535:
		return fmt.Errorf("invalid API port %d", c.Features.APIPort)
	}

	return nil
}

// NormalizeDomain lower-cases the name, drops a trailing dot and converts
// international names to their ASCII form.
func NormalizeDomain(domain string) (string, error) {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if domain == "" {
		return "", errors.New("target domain is not specified")
	}

	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", domain, err)
	}
	return strings.ToLower(ascii), nil
}
