package resolver

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
)

// RcodeError reports a non-success DNS response code.
type RcodeError struct {
	Name  string
	Rcode int
}

func (e *RcodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, dns.RcodeToString[e.Rcode])
}

// DNSResolver sends A and AAAA queries straight to a fixed set of recursive
// nameservers, rotating between them per query.
type DNSResolver struct {
	client  *dns.Client
	servers []string
	qtypes  []uint16
	next    uint32
}

// NewDNSResolver accepts servers as "host" or "host:port". Port 53 is assumed
// when missing.
func NewDNSResolver(servers []string, timeout time.Duration, ipv6 bool) (*DNSResolver, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("no nameservers given")
	}

	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		normalized = append(normalized, s)
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("no nameservers given")
	}

	qtypes := []uint16{dns.TypeA}
	if ipv6 {
		qtypes = append(qtypes, dns.TypeAAAA)
	}

	return &DNSResolver{
		client: &dns.Client{
			Timeout: timeout,
		},
		servers: normalized,
		qtypes:  qtypes,
	}, nil
}

func (r *DNSResolver) Servers() []string {
	return r.servers
}

func (r *DNSResolver) pick() string {
	n := atomic.AddUint32(&r.next, 1)
	return r.servers[int(n-1)%len(r.servers)]
}

func (r *DNSResolver) Resolve(ctx context.Context, name string) ([]net.IP, error) {
	var (
		ips     []net.IP
		lastErr error
	)

	for _, qtype := range r.qtypes {
		answer, err := r.query(ctx, name, qtype)
		if err != nil {
			lastErr = err
			// NXDOMAIN for A means the name does not exist at all.
			if rerr, ok := err.(*RcodeError); ok && rerr.Rcode == dns.RcodeNameError {
				return nil, err
			}
			continue
		}
		ips = append(ips, answer...)
	}

	if len(ips) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrNoRecords
	}
	return ips, nil
}

func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) ([]net.IP, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)

	in, _, err := r.client.ExchangeContext(ctx, msg, r.pick())
	if err != nil {
		return nil, err
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, &RcodeError{Name: name, Rcode: in.Rcode}
	}

	var ips []net.IP
	for _, ans := range in.Answer {
		switch rr := ans.(type) {
		case *dns.A:
			ips = append(ips, rr.A)
		case *dns.AAAA:
			ips = append(ips, rr.AAAA)
		}
	}
	return ips, nil
}
