// Package resolve implements DNS SRV-aware endpoint resolution for Java
// Edition hosts, backed by the SRV TTL cache in internal/cache.
package resolve

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/mcobservatory/observatory/internal/cache"
	"github.com/mcobservatory/observatory/internal/obslog"
	"github.com/mcobservatory/observatory/internal/record"
)

// Resolver resolves Java Edition endpoints via "_minecraft._tcp.<host>"
// SRV lookups, caching hits for cache.SRVTTL.
type Resolver struct {
	cache   *cache.SRVCache
	timeout time.Duration
}

// NewResolver constructs a Resolver backed by srvCache.
func NewResolver(srvCache *cache.SRVCache) *Resolver {
	return &Resolver{cache: srvCache, timeout: 2 * time.Second}
}

// Resolve looks up the SRV record for host:defaultPort. On a cache hit,
// no DNS query is issued. On success, used_srv is true and the returned
// endpoint differs from the original, satisfying the invariant in
// spec.md §3. Any failure (no record, timeout, parse error) is silent:
// the original endpoint is returned with used_srv=false, and the failure
// is logged informationally, never surfaced to the caller.
func (r *Resolver) Resolve(ctx context.Context, host string, defaultPort int) record.ResolvedEndpoint {
	original := record.Endpoint{Host: host, Port: defaultPort, Kind: record.KindJava}

	if hit, ok := r.cache.Get(host); ok {
		return record.ResolvedEndpoint{
			Original: original,
			Resolved: record.Endpoint{Host: hit.Host, Port: hit.Port, Kind: record.KindJava},
			UsedSRV:  true,
		}
	}

	target, port, err := r.lookupSRV(ctx, host)
	if err != nil {
		obslog.Infof("srv lookup miss for %s: %v", host, err)
		return record.ResolvedEndpoint{Original: original, Resolved: original, UsedSRV: false}
	}

	r.cache.Set(host, target, port)
	return record.ResolvedEndpoint{
		Original: original,
		Resolved: record.Endpoint{Host: target, Port: port, Kind: record.KindJava},
		UsedSRV:  true,
	}
}

// lookupSRV first tries github.com/miekg/dns against the system resolver
// (the "native resolver library" path from spec.md §4.2), then falls
// back to net.DefaultResolver.LookupSRV if the miekg/dns client cannot be
// constructed (e.g. no resolv.conf visible, a sandboxed environment).
// Only the first answer is used; priority/weight are parsed but not
// honored, per the decided Open Question in DESIGN.md.
func (r *Resolver) lookupSRV(ctx context.Context, host string) (target string, port int, err error) {
	name := "_minecraft._tcp." + strings.TrimSuffix(host, ".")

	target, port, err = r.lookupSRVMiekg(ctx, name)
	if err == nil {
		return target, port, nil
	}
	if err != errNoSystemResolver {
		return "", 0, err
	}

	_, records, lookupErr := net.DefaultResolver.LookupSRV(ctx, "minecraft", "tcp", host)
	if lookupErr != nil {
		return "", 0, lookupErr
	}
	if len(records) == 0 {
		return "", 0, errNoSRVRecords
	}
	return strings.TrimSuffix(records[0].Target, "."), int(records[0].Port), nil
}

func (r *Resolver) lookupSRVMiekg(ctx context.Context, name string) (string, int, error) {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return "", 0, errNoSystemResolver
	}

	client := &dns.Client{Timeout: r.timeout}
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeSRV)

	server := net.JoinHostPort(conf.Servers[0], conf.Port)
	resp, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return "", 0, err
	}
	if resp.Rcode != dns.RcodeSuccess || len(resp.Answer) == 0 {
		return "", 0, errNoSRVRecords
	}

	for _, rr := range resp.Answer {
		if srv, ok := rr.(*dns.SRV); ok {
			return strings.TrimSuffix(srv.Target, "."), int(srv.Port), nil
		}
	}
	return "", 0, errNoSRVRecords
}
