package validators

import (
	"context"
	"errors"
	"net"
	"testing"
)

type fakeResolver struct {
	mx  map[string]bool
	ips map[string]bool
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if f.mx[name] {
		return []*net.MX{{Host: "mx." + name}}, nil
	}
	return nil, errors.New("no mx")
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if f.ips[host] {
		return []net.IPAddr{{IP: net.IPv4(127, 0, 0, 1)}}, nil
	}
	return nil, errors.New("no host")
}

func TestEmailDomainResolves(t *testing.T) {
	r := fakeResolver{
		mx:  map[string]bool{"mail.com": true},
		ips: map[string]bool{"site.com": true},
	}
	cases := map[string]bool{
		"ana@mail.com":    true,
		"ana@site.com":    true,
		"ana@nowhere.com": false,
		"no-at-sign":      false,
		"trailing@":       false,
	}
	for email, want := range cases {
		if got := EmailDomainResolves(context.Background(), r, email); got != want {
			t.Fatalf("%s: got %v want %v", email, got, want)
		}
	}
}
