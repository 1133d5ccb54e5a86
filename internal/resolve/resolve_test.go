package resolve

import (
	"context"
	"testing"

	"github.com/mcobservatory/observatory/internal/cache"
)

func TestResolveReturnsCacheHitWithoutDNSLookup(t *testing.T) {
	srvCache := cache.NewCaches().SRV
	srvCache.Set("play.example.com", "mc1.example.com", 25566)

	r := NewResolver(srvCache)
	resolved := r.Resolve(context.Background(), "play.example.com", 25565)

	if !resolved.UsedSRV {
		t.Fatal("expected UsedSRV to be true on a cache hit")
	}
	if resolved.Resolved.Host != "mc1.example.com" || resolved.Resolved.Port != 25566 {
		t.Fatalf("got %+v", resolved.Resolved)
	}
	if resolved.Original.Host != "play.example.com" || resolved.Original.Port != 25565 {
		t.Fatalf("original endpoint changed: %+v", resolved.Original)
	}
}

func TestResolveFallsBackToOriginalWhenNoResolverAvailable(t *testing.T) {
	srvCache := cache.NewCaches().SRV
	r := NewResolver(srvCache)

	resolved := r.Resolve(context.Background(), "no-such-srv-record.invalid", 25565)

	if resolved.UsedSRV {
		t.Fatal("expected UsedSRV to be false when no SRV record resolves")
	}
	if resolved.Resolved != resolved.Original {
		t.Fatalf("expected resolved to equal original on fallback, got %+v vs %+v", resolved.Resolved, resolved.Original)
	}
}
