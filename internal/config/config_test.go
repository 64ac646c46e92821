package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "subprobe.yaml", `
general:
  threads: 25
  retries: 1
input:
  domain: Example.COM
network:
  dns_servers: ["8.8.8.8", "1.1.1.1"]
  include_wildcard: true
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.General.Threads != 25 || c.General.Retries != 1 {
		t.Errorf("unexpected general section %+v", c.General)
	}
	if c.General.Timeout != 5 {
		t.Errorf("unset timeout must keep its default, got %d", c.General.Timeout)
	}
	if len(c.Network.DNSServers) != 2 || !c.Network.IncludeWildcard {
		t.Errorf("unexpected network section %+v", c.Network)
	}

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Input.Domain != "example.com" {
		t.Errorf("domain not normalised: %q", c.Input.Domain)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "subprobe.json", `{"general": {"timeout": 9}, "output": {"file": "out.txt", "silent": true}}`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.General.Timeout != 9 || c.Output.File != "out.txt" || !c.Output.Silent {
		t.Errorf("unexpected config %+v", c)
	}
	if c.General.Threads != 100 {
		t.Errorf("unset threads must keep its default, got %d", c.General.Threads)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "general: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Configuration){
		"missing domain": func(c *Configuration) { c.Input.Domain = "" },
		"zero threads":   func(c *Configuration) { c.General.Threads = 0 },
		"zero timeout":   func(c *Configuration) { c.General.Timeout = 0 },
		"negative retry": func(c *Configuration) { c.General.Retries = -1 },
		"negative rate":  func(c *Configuration) { c.General.RateLimit = -1 },
		"verbosity":      func(c *Configuration) { c.General.Verbose = 4 },
		"api port":       func(c *Configuration) { c.Features.APIPort = 70000 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			c.Input.Domain = "example.com"
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{in: "example.com", want: "example.com"},
		{in: " Example.COM. ", want: "example.com"},
		{in: "bücher.de", want: "xn--bcher-kva.de"},
		{in: "", wantErr: true},
		{in: ".", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeDomain(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeDomain(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeDomain(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
