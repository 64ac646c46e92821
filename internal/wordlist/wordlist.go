package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads candidate labels from path. An empty path yields the built-in
// list.
func Load(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wordlist: %w", err)
	}
	defer file.Close()

	words, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("reading wordlist %s: %w", path, err)
	}
	return words, nil
}

// Parse returns the trimmed, non-empty lines of r that are not comments.
func Parse(r io.Reader) ([]string, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}

	return words, scanner.Err()
}

// Default returns a copy of the built-in list of common labels.
func Default() []string {
	res := make([]string, len(builtin))
	copy(res, builtin)
	return res
}

var builtin = []string{
	"www", "mail", "ftp", "localhost", "webmail", "smtp", "pop", "pop3", "imap", "ns",
	"ns1", "ns2", "ns3", "ns4", "dns", "dns1", "dns2", "mx", "mx1", "mx2",
	"email", "exchange", "owa", "autodiscover", "autoconfig", "vpn", "proxy", "gateway", "firewall", "router",
	"admin", "administrator", "portal", "cpanel", "whm", "webdisk", "panel", "dashboard", "console", "manage",
	"api", "api1", "api2", "api-v1", "api-v2", "graphql", "rest", "ws", "websocket", "rpc",
	"dev", "develop", "development", "staging", "stage", "test", "testing", "qa", "uat", "sandbox",
	"beta", "alpha", "demo", "preview", "preprod", "prod", "production", "live", "canary", "release",
	"app", "apps", "mobile", "m", "wap", "web", "www1", "www2", "www3", "site",
	"blog", "news", "forum", "forums", "community", "wiki", "kb", "docs", "doc", "help",
	"support", "helpdesk", "ticket", "tickets", "status", "monitor", "monitoring", "metrics", "grafana", "kibana",
	"prometheus", "elastic", "elasticsearch", "logs", "log", "sentry", "nagios", "zabbix", "cacti", "stats",
	"cdn", "static", "assets", "img", "images", "media", "video", "files", "file", "download",
	"downloads", "upload", "uploads", "storage", "s3", "backup", "backups", "bak", "old", "new",
	"git", "gitlab", "github", "svn", "repo", "jenkins", "ci", "build", "jira", "confluence",
	"db", "database", "mysql", "postgres", "sql", "redis", "mongo", "mongodb", "cache", "memcache",
	"auth", "login", "signin", "sso", "oauth", "id", "identity", "accounts", "account", "ldap",
	"ad", "internal", "intranet", "extranet", "corp", "office", "remote", "secure", "ssl", "cloud",
	"shop", "store", "payment", "payments", "pay", "billing", "checkout", "cart", "order", "orders",
	"crm", "erp", "hr", "sales", "marketing", "partners", "partner", "careers", "jobs", "events",
	"chat", "meet", "calendar", "search", "lb", "edge", "origin", "host", "server", "mta",
	"v1", "v2", "v3", "cms", "wp", "wordpress", "shopify", "info", "public", "private",
}
