package resolver

import (
	"context"
	"errors"
	"net"
)

// ErrNoRecords is returned when a name resolves but carries no addresses.
var ErrNoRecords = errors.New("no records found")

// Resolver looks up the addresses of a fully qualified name. Implementations
// must be safe for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, name string) ([]net.IP, error)
}

// SystemResolver resolves through the operating system's configured
// nameservers.
type SystemResolver struct {
	r *net.Resolver
}

func NewSystemResolver() *SystemResolver {
	return &SystemResolver{
		r: net.DefaultResolver,
	}
}

func (s *SystemResolver) Resolve(ctx context.Context, name string) ([]net.IP, error) {
	addrs, err := s.r.LookupIPAddr(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, ErrNoRecords
	}

	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP)
	}
	return ips, nil
}
