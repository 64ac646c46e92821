package report

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

// Multi fans a scan out to several reporters. Every reporter runs even when
// an earlier one fails.
type Multi struct {
	reporters []Reporter
}

func NewMulti(reporters ...Reporter) *Multi {
	return &Multi{
		reporters: reporters,
	}
}

func (m *Multi) Add(r Reporter) {
	m.reporters = append(m.reporters, r)
}

func (m *Multi) Report(ctx context.Context, scan Scan) error {
	var result error

	for _, reporter := range m.reporters {
		if err := reporter.Report(ctx, scan); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result
}
