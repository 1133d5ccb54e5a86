package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/juju/ratelimit"

	"github.com/mcobservatory/observatory/internal/obslog"
	"github.com/mcobservatory/observatory/internal/probe"
	"github.com/mcobservatory/observatory/internal/record"
)

// CommonPorts is the small, well-known port list tried sequentially
// before a full sweep is considered (spec.md §4.7 "common ports").
var CommonPorts = []int{25565, 25566, 19132, 19133}

// ScanHit is one discovered endpoint from a port scan.
type ScanHit struct {
	Port   int
	Kind   record.Kind
	Result probe.Result
}

// ScanCommonPorts tries each port in CommonPorts in turn, Java then
// Bedrock, and records the first hit per port. Sequential by design —
// spec.md §4.7 distinguishes this from the concurrent full sweep.
func ScanCommonPorts(ctx context.Context, host string, opts ScanOptions) []ScanHit {
	opts.withDefaults()
	defer opts.Cancel.Reset()
	var hits []ScanHit
	for _, port := range CommonPorts {
		if opts.Cancel.Canceled() || ctx.Err() != nil {
			break
		}
		if hit, ok := probePort(ctx, host, port, opts.PerProbeTimeout); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

// ScanOptions configures a port scan.
type ScanOptions struct {
	PerProbeTimeout time.Duration
	Workers         int // full sweep only; default 50
	Progress        func(scanned, total, found int)
	Cancel          *CancelFlag
}

func (o *ScanOptions) withDefaults() {
	if o.PerProbeTimeout <= 0 {
		o.PerProbeTimeout = time.Second
	}
	if o.Workers <= 0 {
		o.Workers = 50
	}
	if o.Cancel == nil {
		o.Cancel = &CancelFlag{}
	}
}

// ScanFullRange sweeps ports 1-65535 using a bounded worker pool
// (github.com/gammazero/workerpool, the producer-consumer pool the
// full sweep spec.md §4.7 describes by hand), gated through a token
// bucket (github.com/juju/ratelimit) so 65535 near-simultaneous dials
// don't exhaust ephemeral ports. A reporter goroutine redraws progress
// at <=10Hz. Ctrl-C (opts.Cancel) drains the pool without submitting
// further work; results already in flight are allowed to finish.
func ScanFullRange(ctx context.Context, host string, opts ScanOptions) []ScanHit {
	opts.withDefaults()
	defer opts.Cancel.Reset()

	runLog := obslog.WithField("run_id", obslog.NewRunID())
	runLog.Infof("full port sweep starting for %s with %d workers", host, opts.Workers)

	const maxPort = 65535
	bucket := ratelimit.NewBucketWithRate(float64(opts.Workers*4), int64(opts.Workers*4))

	pool := workerpool.New(opts.Workers)

	var mu sync.Mutex
	var hits []ScanHit
	var scanned int

	reportTicker := time.NewTicker(100 * time.Millisecond) // <=10Hz
	defer reportTicker.Stop()
	stopReport := make(chan struct{})
	reportDone := make(chan struct{})
	go func() {
		defer close(reportDone)
		for {
			select {
			case <-stopReport:
				return
			case <-reportTicker.C:
				mu.Lock()
				s, f := scanned, len(hits)
				mu.Unlock()
				if opts.Progress != nil {
					opts.Progress(s, maxPort, f)
				}
			}
		}
	}()

	for port := 1; port <= maxPort; port++ {
		if opts.Cancel.Canceled() || ctx.Err() != nil {
			break
		}
		port := port
		bucket.Wait(1)
		pool.Submit(func() {
			if opts.Cancel.Canceled() || ctx.Err() != nil {
				mu.Lock()
				scanned++
				mu.Unlock()
				return
			}
			hit, ok := probePort(ctx, host, port, opts.PerProbeTimeout)
			mu.Lock()
			scanned++
			if ok {
				hits = append(hits, hit)
			}
			mu.Unlock()
		})
	}

	pool.StopWait()
	close(stopReport)
	<-reportDone

	if opts.Progress != nil {
		mu.Lock()
		opts.Progress(scanned, maxPort, len(hits))
		mu.Unlock()
	}

	return hits
}

func probePort(ctx context.Context, host string, port int, timeout time.Duration) (ScanHit, bool) {
	endpoint := record.Endpoint{Host: host, Port: port}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	result, err := probe.PingJava(probeCtx, endpoint.String(), host, port, probe.JavaOptions{Timeout: timeout})
	cancel()
	if err == nil {
		return ScanHit{Port: port, Kind: record.KindJava, Result: result}, true
	}

	probeCtx, cancel = context.WithTimeout(ctx, timeout)
	result, err = probe.PingBedrock(probeCtx, endpoint.String(), probe.BedrockOptions{Timeout: timeout})
	cancel()
	if err == nil {
		return ScanHit{Port: port, Kind: record.KindBedrock, Result: result}, true
	}

	return ScanHit{}, false
}
