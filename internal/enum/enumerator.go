package enum

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/miekg/dns"

	"subprobe/internal/logging"
	"subprobe/internal/resolver"
	"subprobe/internal/wildcard"
)

const (
	DefaultConcurrency = 100
	DefaultTimeout     = 5 * time.Second
)

type Options struct {
	Concurrency     int
	Timeout         time.Duration
	Retries         int
	IncludeWildcard bool
}

// Enumerator resolves candidate labels under a root domain with a bounded
// number of lookups in flight.
type Enumerator struct {
	resolver   resolver.Resolver
	opts       Options
	logger     *logging.Logger
	results    *Aggregator
	stats      *Stats
	onFound    func(Result)
	onProgress func()
}

func New(r resolver.Resolver, opts Options, logger *logging.Logger) *Enumerator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Enumerator{
		resolver: r,
		opts:     opts,
		logger:   logger,
		results:  NewAggregator(),
		stats:    NewStats(),
	}
}

// OnFound registers fn to be called once for every newly discovered
// subdomain. fn is called from worker goroutines.
func (e *Enumerator) OnFound(fn func(Result)) *Enumerator {
	e.onFound = fn
	return e
}

// OnProgress registers fn to be called each time a lookup reaches a terminal
// outcome. fn is called from worker goroutines.
func (e *Enumerator) OnProgress(fn func()) *Enumerator {
	e.onProgress = fn
	return e
}

func (e *Enumerator) Results() *Aggregator {
	return e.results
}

func (e *Enumerator) Stats() *Stats {
	return e.stats
}

// Run probes every candidate under domain and blocks until all of them have
// been resolved, filtered or dropped. sig may be nil.
func (e *Enumerator) Run(ctx context.Context, domain string, candidates []string, sig *wildcard.Signature) *Aggregator {
	defer e.logger.Timing("Enumerator.Run")()

	e.stats.Start(len(candidates))
	defer e.stats.Finish()

	e.logger.Debugf("Starting enumeration of %d candidates under %s (concurrency %d, timeout %v)",
		len(candidates), domain, e.opts.Concurrency, e.opts.Timeout)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.opts.Concurrency)

	for _, candidate := range candidates {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(label string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			e.probe(ctx, label+"."+domain, sig)
			if e.onProgress != nil {
				e.onProgress()
			}
		}(candidate)
	}

	wg.Wait()
	return e.results
}

func (e *Enumerator) probe(ctx context.Context, name string, sig *wildcard.Signature) {
	addrs, err := e.lookup(ctx, name)
	if err != nil {
		e.logger.Tracef("Lookup of %s failed: %v", name, err)
		e.stats.IncrementFailed()
		return
	}

	noise := sig.Matches(addrs)
	if noise && !e.opts.IncludeWildcard {
		e.logger.Debugf("Dropping %s: matches wildcard answer %s", name, sig)
		e.stats.IncrementFiltered()
		return
	}

	res := Result{
		Subdomain: name,
		Addresses: addrs,
		Wildcard:  noise,
		Timestamp: time.Now(),
	}
	if !e.results.Add(res) {
		e.stats.IncrementDuplicates()
		return
	}
	e.stats.IncrementFound()

	if e.onFound != nil {
		e.onFound(res)
	}
}

func (e *Enumerator) lookup(ctx context.Context, name string) ([]net.IP, error) {
	var err error
	for attempt := 0; attempt <= e.opts.Retries; attempt++ {
		var addrs []net.IP
		addrs, err = e.resolveOnce(ctx, name)
		if err == nil {
			return addrs, nil
		}
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}
	return nil, err
}

func (e *Enumerator) resolveOnce(ctx context.Context, name string) ([]net.IP, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	addrs, err := e.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, resolver.ErrNoRecords
	}
	return addrs, nil
}

// retryable excludes answers a second attempt will not change.
func retryable(err error) bool {
	if errors.Is(err, resolver.ErrNoRecords) {
		return false
	}
	var rerr *resolver.RcodeError
	if errors.As(err, &rerr) && rerr.Rcode == dns.RcodeNameError {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return false
	}
	return true
}
