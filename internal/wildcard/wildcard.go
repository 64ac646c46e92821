package wildcard

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"subprobe/internal/resolver"
)

const (
	// ProbeTimeout bounds the single pre-flight lookup.
	ProbeTimeout = 3 * time.Second
	probePrefix  = "wildcard-check"
)

// Signature is the address set a zone's catch-all record answers with.
type Signature struct {
	Name  string
	addrs []net.IP
	index map[string]struct{}
}

func NewSignature(name string, addrs []net.IP) *Signature {
	s := &Signature{
		Name:  name,
		addrs: addrs,
		index: make(map[string]struct{}, len(addrs)),
	}
	for _, ip := range addrs {
		s.index[ip.String()] = struct{}{}
	}
	return s
}

func (s *Signature) Addrs() []net.IP {
	return s.addrs
}

// Matches reports whether addrs shares at least one address with the
// signature. A nil signature matches nothing.
func (s *Signature) Matches(addrs []net.IP) bool {
	if s == nil {
		return false
	}
	for _, ip := range addrs {
		if _, ok := s.index[ip.String()]; ok {
			return true
		}
	}
	return false
}

func (s *Signature) String() string {
	parts := make([]string, 0, len(s.addrs))
	for _, ip := range s.addrs {
		parts = append(parts, ip.String())
	}
	return strings.Join(parts, ", ")
}

// ProbeName builds a name under domain that should not exist.
func ProbeName(domain string, now time.Time) string {
	return fmt.Sprintf("%s-%d.%s", probePrefix, now.UnixNano(), domain)
}

// Detect resolves a single nonexistent name under domain. A nil result means
// the zone has no wildcard record, or the probe failed, and no filtering
// should take place.
func Detect(ctx context.Context, r resolver.Resolver, domain string, timeout time.Duration) *Signature {
	if timeout <= 0 {
		timeout = ProbeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := ProbeName(domain, time.Now())
	addrs, err := r.Resolve(ctx, name)
	if err != nil || len(addrs) == 0 {
		return nil
	}

	return NewSignature(name, addrs)
}
