package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/mcobservatory/observatory/internal/cache"
	"github.com/mcobservatory/observatory/internal/obslog"
	"github.com/mcobservatory/observatory/internal/obsmetrics"
	"github.com/mcobservatory/observatory/internal/probe"
	"github.com/mcobservatory/observatory/internal/record"
	"github.com/mcobservatory/observatory/internal/resolve"
)

// Prober is the subset of probe operations the orchestrator needs,
// narrowed to an interface so tests can substitute a fake.
type Prober interface {
	ProbeJava(ctx context.Context, host string, port int) (probe.Result, error)
	ProbeBedrock(ctx context.Context, host string, port int) (probe.Result, error)
}

// FleetOptions configures one fan-out round.
type FleetOptions struct {
	PerProbeTimeout time.Duration
	TotalTimeout    time.Duration // spec.md §4.7: capped at 15s
	Progress        func(done, total int)
	Cancel          *CancelFlag

	// Prober, when set, routes probes through the resolve+cache pipeline
	// (see NewDefaultProber) instead of dialing directly. Port scans
	// never set this, since they intentionally probe cache-free.
	Prober Prober
}

// ProbeFleet launches one probe task per record (spec.md §4.7: "up to a
// concurrency ceiling ... bounded implicitly by system limits" — every
// record gets its own goroutine here, matching that default), writes
// each normalized ProbeResult into an indexed slot, and updates the
// owning record's history. Cancellation is checked at each task's
// natural checkpoint (before and after the probe call); cancelled tasks
// report results of the record's own Kind with an error of "canceled".
//
// Total wait is capped at opts.TotalTimeout; on expiry, results gathered
// so far are returned and the rest are filled with a timeout error.
func ProbeFleet(ctx context.Context, records []*record.ServerRecord, opts FleetOptions) []probe.Result {
	if opts.TotalTimeout <= 0 {
		opts.TotalTimeout = 15 * time.Second
	}
	if opts.Cancel == nil {
		opts.Cancel = &CancelFlag{}
	}
	defer opts.Cancel.Reset()

	ctx, cancel := context.WithTimeout(ctx, opts.TotalTimeout)
	defer cancel()

	runLog := obslog.WithField("run_id", obslog.NewRunID())
	runLog.Infof("fan-out probe round starting for %d records", len(records))

	results := make([]probe.Result, len(records))
	var wg sync.WaitGroup
	var doneCount int
	var mu sync.Mutex

	report := func() {
		mu.Lock()
		doneCount++
		n := doneCount
		mu.Unlock()
		if opts.Progress != nil {
			opts.Progress(n, len(records))
		}
	}

	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec *record.ServerRecord) {
			defer wg.Done()
			defer report()

			if opts.Cancel.Canceled() {
				results[i] = canceledResult(rec)
				return
			}

			result, err := fleetProbeOne(ctx, rec, opts.Prober, opts.PerProbeTimeout)
			if err != nil {
				results[i] = probe.Result{Kind: rec.Kind, Timestamp: time.Now(), Error: err.Error()}
				obsmetrics.ProbesTotal.WithLabelValues(string(rec.Kind), "error").Inc()
			} else {
				results[i] = result
				obsmetrics.ProbesTotal.WithLabelValues(string(rec.Kind), "ok").Inc()
			}

			if opts.Cancel.Canceled() {
				results[i] = canceledResult(rec)
				return
			}

			mods := result.Mods
			if rec.Kind != record.KindJava || err != nil {
				mods = nil
			}
			rec.RecordQuery(time.Now(), result.QueryMs, result.Players.Online, result.Players.Max, mods)
		}(i, rec)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	return results
}

func canceledResult(rec *record.ServerRecord) probe.Result {
	return probe.Result{Kind: rec.Kind, Timestamp: time.Now(), Error: string(probe.ErrCanceled)}
}

// defaultProber wires the resolve+cache+probe pipeline together for a
// single (host, port) pair, used by both the orchestrator and the
// monitor sampler.
type defaultProber struct {
	resolver *resolve.Resolver
	caches   *cache.Caches
}

// NewDefaultProber builds the standard probe pipeline: SRV-aware
// resolution, status-cache lookup/population, and the Java/Bedrock
// probers.
func NewDefaultProber(resolver *resolve.Resolver, caches *cache.Caches) Prober {
	return &defaultProber{resolver: resolver, caches: caches}
}

func (p *defaultProber) ProbeJava(ctx context.Context, host string, port int) (probe.Result, error) {
	resolved := p.resolver.Resolve(ctx, host, port)

	if hit, ok := p.caches.Status.Get(resolved.Resolved.Host, resolved.Resolved.Port, record.KindJava); ok {
		obsmetrics.CacheLookupsTotal.WithLabelValues("status", "hit").Inc()
		result := hit.(probe.Result)
		if resolved.UsedSRV {
			result.SrvInfo = &probe.SrvInfo{
				OriginalHost: resolved.Original.Host, OriginalPort: resolved.Original.Port,
				ResolvedHost: resolved.Resolved.Host, ResolvedPort: resolved.Resolved.Port,
			}
		}
		return result, nil
	}
	obsmetrics.CacheLookupsTotal.WithLabelValues("status", "miss").Inc()

	addr := record.Endpoint{Host: resolved.Resolved.Host, Port: resolved.Resolved.Port}.String()
	result, err := probe.PingJava(ctx, addr, resolved.Original.Host, resolved.Original.Port, probe.JavaOptions{Timeout: 5 * time.Second})
	if err != nil && resolved.UsedSRV {
		fallbackAddr := resolved.Original.String()
		if result2, err2 := probe.PingJava(ctx, fallbackAddr, resolved.Original.Host, resolved.Original.Port, probe.JavaOptions{Timeout: 5 * time.Second}); err2 == nil {
			result2.SrvFallback = true
			p.caches.Status.Set(resolved.Original.Host, resolved.Original.Port, record.KindJava, result2)
			return result2, nil
		}
		return probe.Result{}, err
	}
	if err != nil {
		return probe.Result{}, err
	}

	p.caches.Status.Set(resolved.Resolved.Host, resolved.Resolved.Port, record.KindJava, result)
	if resolved.UsedSRV {
		result.SrvInfo = &probe.SrvInfo{
			OriginalHost: resolved.Original.Host, OriginalPort: resolved.Original.Port,
			ResolvedHost: resolved.Resolved.Host, ResolvedPort: resolved.Resolved.Port,
		}
	}
	return result, nil
}

func (p *defaultProber) ProbeBedrock(ctx context.Context, host string, port int) (probe.Result, error) {
	endpoint := record.Endpoint{Host: host, Port: port}

	if hit, ok := p.caches.Status.Get(host, port, record.KindBedrock); ok {
		obsmetrics.CacheLookupsTotal.WithLabelValues("status", "hit").Inc()
		return hit.(probe.Result), nil
	}
	obsmetrics.CacheLookupsTotal.WithLabelValues("status", "miss").Inc()

	result, err := probe.PingBedrock(ctx, endpoint.String(), probe.BedrockOptions{Timeout: 5 * time.Second})
	if err != nil {
		return probe.Result{}, err
	}
	p.caches.Status.Set(host, port, record.KindBedrock, result)
	return result, nil
}

// fleetProbeOne dispatches through opts.Prober when one is configured
// (the resolve+cache pipeline), else dials directly.
func fleetProbeOne(ctx context.Context, rec *record.ServerRecord, prober Prober, timeout time.Duration) (probe.Result, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if prober != nil {
		if rec.Kind == record.KindBedrock {
			return prober.ProbeBedrock(ctx, rec.IP, rec.Port)
		}
		return prober.ProbeJava(ctx, rec.IP, rec.Port)
	}

	// The endpoint's own Kind decides which protocol to try; Kind
	// KindUnknown is resolved the way spec.md's original detect_server_type
	// does, trying Java first then Bedrock.
	return retryTransient(ctx, func() (probe.Result, error) {
		switch rec.Kind {
		case record.KindBedrock:
			return probe.PingBedrock(ctx, rec.Endpoint().String(), probe.BedrockOptions{Timeout: timeout})
		case record.KindUnknown:
			if result, err := probe.PingJava(ctx, rec.Endpoint().String(), rec.IP, rec.Port, probe.JavaOptions{Timeout: timeout}); err == nil {
				return result, nil
			}
			return probe.PingBedrock(ctx, rec.Endpoint().String(), probe.BedrockOptions{Timeout: timeout})
		default:
			return probe.PingJava(ctx, rec.Endpoint().String(), rec.IP, rec.Port, probe.JavaOptions{Timeout: timeout})
		}
	})
}
