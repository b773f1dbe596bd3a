package udpsend

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okdestinations = []struct {
	host, port string
	wantIP     string
	wantPort   int
}{
	{"127.0.0.1", "9999", "127.0.0.1", 9999},
	{"192.168.0.2", "8080", "192.168.0.2", 8080},
	{"0.0.0.0", "0", "0.0.0.0", 0},
	{"255.255.255.255", "65535", "255.255.255.255", 65535},
	{"10.1.2.3", "00053", "10.1.2.3", 53},
	{"10.1.2.3", "domain", "10.1.2.3", 53},
}

var nokdestinations = []struct {
	host, port string
	status     int
}{
	{"127.0.0.1", "65536", StatusServiceNotFound},
	{"127.0.0.1", "99999", StatusServiceNotFound},
	{"127.0.0.1", "", StatusServiceNotFound},
	{"127.0.0.1", "nosvc", StatusServiceNotFound},
	{"::1", "9999", StatusFamilyNotSupported},
	{"fe80::1", "9999", StatusFamilyNotSupported},
	{"::ffff:10.1.2.3", "9999", StatusFamilyNotSupported},
	{"::", "9999", StatusFamilyNotSupported},
	{"", "9999", StatusHostNotFound},
}

// noLookup fails the test if DNS is consulted
func noLookup(t *testing.T) func(context.Context, string, string) ([]net.IP, error) {
	return func(ctx context.Context, network, host string) ([]net.IP, error) {
		t.Errorf("unexpected lookup of %s %s", network, host)
		return nil, errors.New("no lookup allowed")
	}
}

func TestResolveLiteralWithoutLookup(t *testing.T) {
	r := &Resolver{LookupIP: noLookup(t)}
	for _, d := range okdestinations {
		e, err := r.Resolve(context.Background(), d.host, d.port)
		if !assert.NoError(t, err, "destination %s:%s", d.host, d.port) {
			continue
		}
		assert.Equal(t, Network, e.Network)
		assert.False(t, e.Passive)
		require.Len(t, e.Addrs, 1)
		assert.Equal(t, d.wantIP, e.First().IP.String())
		assert.Len(t, e.First().IP, net.IPv4len, "address family of %s", d.host)
		assert.Equal(t, d.wantPort, e.First().Port)
	}
}

func TestResolveRejectsBadDestinations(t *testing.T) {
	r := &Resolver{LookupIP: noLookup(t)}
	for _, d := range nokdestinations {
		e, err := r.Resolve(context.Background(), d.host, d.port)
		assert.Nil(t, e)
		var resErr *ResolutionError
		if assert.ErrorAs(t, err, &resErr, "destination %q:%q", d.host, d.port) {
			assert.Equal(t, d.status, resErr.Status, "status for %q:%q", d.host, d.port)
		}
		assert.Equal(t, ResolutionFailed, KindOf(err))
	}
}

func TestResolveHostName(t *testing.T) {
	var gotNetwork, gotHost string
	r := &Resolver{LookupIP: func(ctx context.Context, network, host string) ([]net.IP, error) {
		gotNetwork, gotHost = network, host
		return []net.IP{net.ParseIP("2001:db8::1"), net.ParseIP("10.0.0.7"), net.ParseIP("10.0.0.8")}, nil
	}}
	e, err := r.Resolve(context.Background(), "receiver.example", "4000")
	require.NoError(t, err)
	assert.Equal(t, "ip4", gotNetwork)
	assert.Equal(t, "receiver.example", gotHost)
	require.Len(t, e.Addrs, 2, "IPv6 candidate must be dropped")
	assert.Equal(t, "10.0.0.7:4000", e.First().String())
	assert.Equal(t, "udp4://10.0.0.7:4000,10.0.0.8:4000", e.String())
}

func TestResolveLookupFailures(t *testing.T) {
	cases := []struct {
		err    error
		ips    []net.IP
		status int
	}{
		{&net.DNSError{Err: "no such host", Name: "x", IsNotFound: true}, nil, StatusHostNotFound},
		{&net.DNSError{Err: "server misbehaving", Name: "x", IsTemporary: true}, nil, StatusTryAgain},
		{&net.DNSError{Err: "i/o timeout", Name: "x", IsTimeout: true}, nil, StatusTryAgain},
		{&net.DNSError{Err: "bad", Name: "x"}, nil, StatusNoRecovery},
		{errors.New("something else"), nil, StatusNoRecovery},
		{nil, []net.IP{net.ParseIP("2001:db8::1")}, StatusHostNotFound},
		{nil, nil, StatusHostNotFound},
	}
	for i, c := range cases {
		c := c
		r := &Resolver{LookupIP: func(ctx context.Context, network, host string) ([]net.IP, error) {
			return c.ips, c.err
		}}
		_, err := r.Resolve(context.Background(), "x", "1")
		var resErr *ResolutionError
		if assert.ErrorAs(t, err, &resErr, "case #%d", i) {
			assert.Equal(t, c.status, resErr.Status, "case #%d", i)
			if c.err != nil {
				assert.ErrorIs(t, err, c.err, "case #%d cause", i)
			}
		}
	}
}

func TestResolvePassive(t *testing.T) {
	r := &Resolver{LookupIP: noLookup(t)}
	e, err := r.ResolvePassive(context.Background(), "40000")
	require.NoError(t, err)
	assert.True(t, e.Passive)
	assert.Equal(t, "0.0.0.0:40000", e.First().String())

	_, err = r.ResolvePassive(context.Background(), "70000")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, StatusServiceNotFound, resErr.Status)
}

func TestEndpointFirstOnEmpty(t *testing.T) {
	var e *Endpoint
	assert.Nil(t, e.First())
	assert.Nil(t, (&Endpoint{}).First())
	assert.Equal(t, "<nil>", e.String())
}
