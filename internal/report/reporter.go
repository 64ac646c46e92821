package report

import (
	"context"
	"time"

	"subprobe/internal/enum"
	"subprobe/internal/wildcard"
)

// Scan is the finished outcome of one enumeration run.
type Scan struct {
	Domain   string
	Wildcard *wildcard.Signature
	Results  []enum.Result
	Stats    enum.StatsSnapshot
	Started  time.Time
}

// Names returns the discovered subdomains in discovery order.
func (s Scan) Names() []string {
	names := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		names = append(names, r.Subdomain)
	}
	return names
}

type Reporter interface {
	Report(ctx context.Context, scan Scan) error
}
