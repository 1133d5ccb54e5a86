// Package cache implements the status and SRV TTL caches (backed by
// patrickmn/go-cache) and the persistent on-disk mod-list cache.
package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mcobservatory/observatory/internal/record"
)

// StatusTTL and SRVTTL are the fixed cache lifetimes from spec.md §3.
const (
	StatusTTL = 60 * time.Second
	SRVTTL    = 300 * time.Second
)

// StatusResult is the cached payload shape; callers overlay any live
// SrvInfo derived from the current call's resolution, since SRV info is
// never itself cached (spec.md §4.6).
type StatusResult = any

// StatusCache caches normalized probe results keyed by resolved endpoint
// + kind, for StatusTTL.
type StatusCache struct {
	c *gocache.Cache
}

// NewStatusCache constructs an empty status cache. go-cache runs its own
// janitor goroutine to purge expired entries every cleanupInterval; Get
// checks expiry itself, so an expired entry is never returned even
// before the janitor has swept it.
func NewStatusCache() *StatusCache {
	return &StatusCache{c: gocache.New(StatusTTL, 2*StatusTTL)}
}

func statusKey(host string, port int, kind record.Kind) string {
	return fmt.Sprintf("%s|%d|%s", host, port, kind)
}

// Get returns the stored entry as-is, if present and unexpired. The
// value is shared with the cache, not cloned: slice fields (e.g.
// Players.Sample, Mods) alias the cached copy, so callers that mutate a
// hit must copy it first.
func (s *StatusCache) Get(host string, port int, kind record.Kind) (any, bool) {
	v, ok := s.c.Get(statusKey(host, port, kind))
	return v, ok
}

// Set stores result for StatusTTL.
func (s *StatusCache) Set(host string, port int, kind record.Kind, result any) {
	s.c.Set(statusKey(host, port, kind), result, gocache.DefaultExpiration)
}

// Clear empties the in-memory cache. Does not touch the on-disk mod
// cache (spec.md §4.6/§9: clear_all_caches does not purge mod files).
func (s *StatusCache) Clear() {
	s.c.Flush()
}

// SRVCache caches SRV resolution results keyed by original host, for
// SRVTTL.
type SRVCache struct {
	c *gocache.Cache
}

// SRVHit is a cached SRV resolution.
type SRVHit struct {
	Host string
	Port int
}

// NewSRVCache constructs an empty SRV cache.
func NewSRVCache() *SRVCache {
	return &SRVCache{c: gocache.New(SRVTTL, 2*SRVTTL)}
}

// Get returns the cached SRV target for host, if unexpired.
func (s *SRVCache) Get(host string) (SRVHit, bool) {
	v, ok := s.c.Get(host)
	if !ok {
		return SRVHit{}, false
	}
	hit, ok := v.(SRVHit)
	return hit, ok
}

// Set caches host -> (target, port) for SRVTTL.
func (s *SRVCache) Set(host, target string, port int) {
	s.c.Set(host, SRVHit{Host: target, Port: port}, gocache.DefaultExpiration)
}

// Clear empties the in-memory SRV cache.
func (s *SRVCache) Clear() {
	s.c.Flush()
}

// Caches bundles both in-memory caches so callers (e.g. the CLI's
// clear-all-caches command) can invalidate them together.
type Caches struct {
	Status *StatusCache
	SRV    *SRVCache
}

// NewCaches constructs both in-memory TTL caches.
func NewCaches() *Caches {
	return &Caches{Status: NewStatusCache(), SRV: NewSRVCache()}
}

// ClearAll empties both in-memory caches.
func (c *Caches) ClearAll() {
	c.Status.Clear()
	c.SRV.Clear()
}
