package enum

import (
	"net"
	"sync"
	"time"
)

// Result is a discovered subdomain.
type Result struct {
	Subdomain string    `json:"subdomain"`
	Addresses []net.IP  `json:"addresses"`
	Wildcard  bool      `json:"wildcard,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AddressStrings returns the textual form of the resolved addresses.
func (r Result) AddressStrings() []string {
	res := make([]string, 0, len(r.Addresses))
	for _, ip := range r.Addresses {
		res = append(res, ip.String())
	}
	return res
}

// Aggregator collects results keyed by subdomain, keeping first-discovery
// order. Safe for concurrent use.
type Aggregator struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	results []Result
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		seen: make(map[string]struct{}),
	}
}

// Submit records name with its addresses and reports whether the name was new.
func (a *Aggregator) Submit(name string, addrs []net.IP) bool {
	return a.Add(Result{
		Subdomain: name,
		Addresses: addrs,
		Timestamp: time.Now(),
	})
}

// Add is Submit for a fully populated result.
func (a *Aggregator) Add(res Result) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.seen[res.Subdomain]; ok {
		return false
	}
	a.seen[res.Subdomain] = struct{}{}
	a.results = append(a.results, res)
	return true
}

// Snapshot returns a copy of the results in discovery order.
func (a *Aggregator) Snapshot() []Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	res := make([]Result, len(a.results))
	copy(res, a.results)
	return res
}

func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// Names returns the discovered subdomains in discovery order.
func (a *Aggregator) Names() []string {
	snap := a.Snapshot()
	names := make([]string, 0, len(snap))
	for _, r := range snap {
		names = append(names, r.Subdomain)
	}
	return names
}
