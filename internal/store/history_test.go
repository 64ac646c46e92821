package store

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"subprobe/internal/enum"
	"subprobe/internal/report"
)

func openHistory(t *testing.T) *History {
	t.Helper()

	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		// go-sqlite3 needs cgo
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func scanOf(domain string, names ...string) report.Scan {
	scan := report.Scan{Domain: domain, Started: time.Now()}
	for _, n := range names {
		scan.Results = append(scan.Results, enum.Result{
			Subdomain: n,
			Addresses: []net.IP{net.ParseIP("10.0.0.1")},
			Timestamp: time.Now(),
		})
	}
	scan.Stats.Total = len(names)
	return scan
}

func TestHistoryReportAndKnown(t *testing.T) {
	h := openHistory(t)
	ctx := context.Background()

	if err := h.Report(ctx, scanOf("example.com", "www.example.com", "mail.example.com")); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if err := h.Report(ctx, scanOf("example.com", "www.example.com", "api.example.com")); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if err := h.Report(ctx, scanOf("example.org", "www.example.org")); err != nil {
		t.Fatalf("Report: %v", err)
	}

	known, err := h.Known(ctx, "example.com")
	if err != nil {
		t.Fatalf("Known: %v", err)
	}
	if len(known) != 3 || !known["api.example.com"] || known["www.example.org"] {
		t.Errorf("unexpected known set %v", known)
	}

	n, err := h.Scans(ctx, "example.com")
	if err != nil {
		t.Fatalf("Scans: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 scans, got %d", n)
	}
}

func TestHistoryEmptyScan(t *testing.T) {
	h := openHistory(t)
	ctx := context.Background()

	if err := h.Report(ctx, scanOf("example.com")); err != nil {
		t.Fatalf("Report: %v", err)
	}
	known, err := h.Known(ctx, "example.com")
	if err != nil {
		t.Fatalf("Known: %v", err)
	}
	if len(known) != 0 {
		t.Errorf("expected no known names, got %v", known)
	}
}
