package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/miekg/dns"
)

func init() {
	color.NoColor = true
}

// startZone serves A records from records. Unknown names get wildcardIP when
// set, NXDOMAIN otherwise.
func startZone(t *testing.T, records map[string]string, wildcardIP string) string {
	t.Helper()

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		q := req.Question[0]

		ip, ok := records[strings.ToLower(q.Name)]
		if !ok && wildcardIP != "" {
			ip, ok = wildcardIP, true
		}
		if !ok {
			m.SetRcode(req, dns.RcodeNameError)
			w.WriteMsg(m)
			return
		}

		m.SetReply(req)
		if q.Qtype == dns.TypeA {
			rr, _ := dns.NewRR(fmt.Sprintf("%s 60 IN A %s", q.Name, ip))
			m.Answer = append(m.Answer, rr)
		}
		w.WriteMsg(m)
	})

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go srv.ActivateAndServe()
	<-started
	t.Cleanup(func() { srv.Shutdown() })

	return pc.LocalAddr().String()
}

func writeWordlist(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Fields(string(data))
	sort.Strings(lines)
	return lines
}

func TestRunSilent(t *testing.T) {
	server := startZone(t, map[string]string{
		"www.example.com.":  "93.184.216.34",
		"mail.example.com.": "93.184.216.35",
	}, "")
	words := writeWordlist(t, "# common", "www", "mail", "", "doesnotexist123", "www")
	out := filepath.Join(t.TempDir(), "found.txt")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-d", "example.com", "-w", words, "-r", server, "-o", out, "-silent", "-c", "2",
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	want := "mail.example.com,www.example.com"
	printed := strings.Fields(stdout.String())
	sort.Strings(printed)
	if strings.Join(printed, ",") != want {
		t.Errorf("stdout %q, want bare names %s", stdout.String(), want)
	}
	if got := readLines(t, out); strings.Join(got, ",") != want {
		t.Errorf("output file %v, want %s", got, want)
	}
}

func TestRunWildcard(t *testing.T) {
	server := startZone(t, map[string]string{
		"www.example.com.":  "93.184.216.34",
		"mail.example.com.": "1.2.3.4",
	}, "1.2.3.4")
	words := writeWordlist(t, "www", "mail", "doesnotexist123")

	for _, tt := range []struct {
		include bool
		want    string
	}{
		{false, "www.example.com"},
		{true, "doesnotexist123.example.com,mail.example.com,www.example.com"},
	} {
		out := filepath.Join(t.TempDir(), "found.txt")
		args := []string{"-d", "example.com", "-w", words, "-r", server, "-o", out}
		if tt.include {
			args = append(args, "-include-wildcard")
		}

		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
			t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
		}
		if got := readLines(t, out); strings.Join(got, ",") != tt.want {
			t.Errorf("include=%v: got %v, want %s", tt.include, got, tt.want)
		}
		if !strings.Contains(stdout.String(), "Wildcard detected! Filtering results pointing to: 1.2.3.4") {
			t.Errorf("wildcard warning missing:\n%s", stdout.String())
		}
		if !strings.Contains(stdout.String(), "Saved") {
			t.Errorf("save confirmation missing:\n%s", stdout.String())
		}
	}
}

func TestRunNothingFound(t *testing.T) {
	server := startZone(t, nil, "")
	words := writeWordlist(t, "a", "b")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-d", "example.com", "-w", words, "-r", server}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("empty result must still succeed, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Subdomains found: 0") {
		t.Errorf("summary missing:\n%s", stdout.String())
	}
}

func TestRunStartupErrors(t *testing.T) {
	dir := t.TempDir()
	words := writeWordlist(t, "www")

	tests := map[string][]string{
		"missing domain":    {"-w", words},
		"unreadable list":   {"-d", "example.com", "-w", filepath.Join(dir, "missing.txt")},
		"unwritable output": {"-d", "example.com", "-w", words, "-o", filepath.Join(dir, "no", "such", "out.txt")},
		"bad concurrency":   {"-d", "example.com", "-c", "0"},
		"unknown flag":      {"-d", "example.com", "-bogus"},
		"missing config":    {"-d", "example.com", "-config", filepath.Join(dir, "none.yaml")},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), args, &stdout, &stderr); code != 1 {
				t.Errorf("exit code %d, want 1", code)
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if strings.TrimSpace(stdout.String()) != VERSION {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}

func TestParseFlagsConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subprobe.yaml")
	err := os.WriteFile(path, []byte(`
general:
  threads: 20
  timeout: 8
input:
  domain: example.org
network:
  dns_servers: ["9.9.9.9"]
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	opts, err := parseFlags([]string{"-config", path, "-c", "7", "-d", "example.com"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	c := opts.cfg
	if c.General.Threads != 7 || c.Input.Domain != "example.com" {
		t.Errorf("explicit flags must win: %+v", c)
	}
	if c.General.Timeout != 8 {
		t.Errorf("file value must apply when flag is unset, got %d", c.General.Timeout)
	}
	if len(c.Network.DNSServers) != 1 || c.Network.DNSServers[0] != "9.9.9.9" {
		t.Errorf("unexpected servers %v", c.Network.DNSServers)
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags([]string{"-d", "example.com", "-r", "8.8.8.8, 1.1.1.1"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	c := opts.cfg
	if c.General.Threads != 100 || c.General.Timeout != 5 || c.Output.Silent || c.Network.IncludeWildcard {
		t.Errorf("unexpected defaults %+v", c)
	}
	if strings.Join(c.Network.DNSServers, "|") != "8.8.8.8|1.1.1.1" {
		t.Errorf("unexpected servers %v", c.Network.DNSServers)
	}
}
