package udpsend

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
)

// Network is the only network udpsend works on: IPv4, datagram socket, UDP.
const Network = "udp4"

// Endpoint is the result of resolving a host/port pair: one or more IPv4 UDP candidates.
type Endpoint struct {
	Network string
	Addrs   []*net.UDPAddr
	// Passive is set for the wildcard endpoint used for binding
	Passive bool
}

// First returns the candidate used for socket creation and sending.
func (e *Endpoint) First() *net.UDPAddr {
	if e == nil || len(e.Addrs) == 0 {
		return nil
	}
	return e.Addrs[0]
}

func (e *Endpoint) String() string {
	if e == nil {
		return "<nil>"
	}
	addrs := make([]string, len(e.Addrs))
	for i, a := range e.Addrs {
		addrs[i] = a.String()
	}
	return e.Network + "://" + strings.Join(addrs, ",")
}

// Resolver turns host and port strings into endpoints.
type Resolver struct {
	// LookupIP resolves symbolic host names; nil means net.DefaultResolver.LookupIP
	LookupIP func(ctx context.Context, network, host string) ([]net.IP, error)
}

// Resolve resolves a destination. Dotted-quad literals never touch DNS.
func (r *Resolver) Resolve(ctx context.Context, host, port string) (*Endpoint, error) {
	portNum, err := resolvePort(port)
	if err != nil {
		return nil, &ResolutionError{Host: host, Port: port, Status: StatusServiceNotFound, Err: err}
	}
	ips, status, err := r.resolveHost(ctx, host)
	if err != nil {
		return nil, &ResolutionError{Host: host, Port: port, Status: status, Err: err}
	}
	e := &Endpoint{Network: Network}
	for _, ip := range ips {
		e.Addrs = append(e.Addrs, &net.UDPAddr{IP: ip, Port: portNum})
	}
	return e, nil
}

// ResolvePassive resolves the local wildcard endpoint 0.0.0.0:port used for binding.
func (r *Resolver) ResolvePassive(ctx context.Context, port string) (*Endpoint, error) {
	portNum, err := resolvePort(port)
	if err != nil {
		return nil, &ResolutionError{Port: port, Status: StatusServiceNotFound, Err: err}
	}
	return &Endpoint{
		Network: Network,
		Addrs:   []*net.UDPAddr{{IP: net.IPv4zero, Port: portNum}},
		Passive: true,
	}, nil
}

func (r *Resolver) resolveHost(ctx context.Context, host string) ([]net.IP, int, error) {
	if host == "" {
		return nil, StatusHostNotFound, errors.New("empty host name")
	}
	if ip := net.ParseIP(host); ip != nil {
		// NOTE: IPv4-mapped IPv6 literals like ::ffff:10.1.2.3 are IPv6 too
		if strings.Contains(host, ":") {
			return nil, StatusFamilyNotSupported, errors.New("not an IPv4 address: " + host)
		}
		return []net.IP{ip.To4()}, 0, nil
	}
	lookup := r.LookupIP
	if lookup == nil {
		lookup = net.DefaultResolver.LookupIP
	}
	found, err := lookup(ctx, "ip4", host)
	if err != nil {
		return nil, lookupStatus(err), err
	}
	var ips []net.IP
	for _, ip := range found {
		// NOTE: "ip4" lookups should only return IPv4, but filter anyway
		if ip4 := ip.To4(); ip4 != nil {
			ips = append(ips, ip4)
		}
	}
	if len(ips) == 0 {
		return nil, StatusHostNotFound, errors.New("no IPv4 address for host " + host)
	}
	return ips, 0, nil
}

// lookupStatus maps a lookup failure onto a getaddrinfo status
func lookupStatus(err error) int {
	var dnsErr *net.DNSError
	if !errors.As(err, &dnsErr) {
		return StatusNoRecovery
	}
	switch {
	case dnsErr.IsNotFound:
		return StatusHostNotFound
	case dnsErr.IsTemporary, dnsErr.IsTimeout:
		return StatusTryAgain
	default:
		return StatusNoRecovery
	}
}

// resolvePort accepts decimal ports [0;65535] and UDP service names
func resolvePort(port string) (int, error) {
	if port == "" {
		return 0, errors.New("empty port")
	}
	if isDigits(port) {
		p, err := strconv.Atoi(port)
		if err != nil {
			return 0, errors.New("port malformed: " + err.Error())
		}
		if p > 65535 {
			return 0, errors.New("port out of range: allowed range is [0;65535]")
		}
		return p, nil
	}
	p, err := net.LookupPort("udp", port)
	if err != nil {
		return 0, errors.New("unknown service: " + err.Error())
	}
	return p, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
