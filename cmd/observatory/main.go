// Command observatory is a thin CLI that exercises every exported core
// operation end-to-end: fleet listing, cache refresh/invalidation, port
// scanning, and monitoring. The richer interactive dispatcher (add/
// delete/update, sort, filter menus) remains a collaborator concern per
// spec.md §1; this binary favors direct, scriptable subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcobservatory/observatory/internal/cache"
	"github.com/mcobservatory/observatory/internal/config"
	"github.com/mcobservatory/observatory/internal/dashboard"
	"github.com/mcobservatory/observatory/internal/monitor"
	"github.com/mcobservatory/observatory/internal/obslog"
	"github.com/mcobservatory/observatory/internal/obsmetrics"
	"github.com/mcobservatory/observatory/internal/orchestrator"
	"github.com/mcobservatory/observatory/internal/pager"
	"github.com/mcobservatory/observatory/internal/probe"
	"github.com/mcobservatory/observatory/internal/record"
	"github.com/mcobservatory/observatory/internal/render"
	"github.com/mcobservatory/observatory/internal/repo"
	"github.com/mcobservatory/observatory/internal/resolve"
)

var (
	serversPath string
	metricsAddr string
)

func main() {
	root := &cobra.Command{
		Use:   "observatory",
		Short: "Minecraft server observatory: probes, caching, and live monitoring",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if metricsAddr != "" {
				obsmetrics.Serve(metricsAddr)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&serversPath, "servers", "servers.json", "path to the server fleet file")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "bind a Prometheus /metrics endpoint, e.g. 127.0.0.1:9090")

	root.AddCommand(
		newListCmd(),
		newRefreshCmd(),
		newClearCachesCmd(),
		newScanCmd(),
		newMonitorCmd(),
		newModsCmd(),
		newFleetDashboardCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list the servers in the fleet file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fleet, err := repo.Load(serversPath)
			if err != nil {
				return err
			}
			for _, rec := range fleet {
				fmt.Printf("%-20s %-22s %-6d %s\n", rec.Name, rec.IP, rec.Port, rec.Kind)
			}
			return nil
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "probe every server in the fleet, invalidating caches first",
		RunE: func(cmd *cobra.Command, args []string) error {
			fleet, err := repo.Load(serversPath)
			if err != nil {
				return err
			}
			caches := cache.NewCaches()
			caches.ClearAll()

			settings, err := config.LoadSettings(defaultSettingsPath())
			if err != nil {
				return err
			}
			prober := orchestrator.NewDefaultProber(resolve.NewResolver(caches.SRV), caches)

			cancel := &orchestrator.CancelFlag{}
			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-sigCtx.Done()
				cancel.Set()
			}()

			results := orchestrator.ProbeFleet(sigCtx, fleet, orchestrator.FleetOptions{
				PerProbeTimeout: settings.ProbeTimeout(),
				TotalTimeout:    settings.FanOutTimeout(),
				Cancel:          cancel,
				Prober:          prober,
				Progress: func(done, total int) {
					fmt.Fprintf(os.Stderr, "\rprobed %d/%d", done, total)
				},
			})
			fmt.Fprintln(os.Stderr)

			for i, rec := range fleet {
				r := results[i]
				if r.Failed() {
					fmt.Printf("%-20s down: %s\n", rec.Name, r.Error)
					continue
				}
				fmt.Printf("%-20s %s  players:%s  latency:%s\n",
					rec.Name, render.VersionLabel(r.Version), render.PlayerCountLabel(r.Players), render.LatencyLabel(r.QueryMs))
			}
			return nil
		},
	}
}

func newClearCachesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-caches",
		Short: "empty the in-memory status and SRV caches (mod-list files are untouched)",
		RunE: func(cmd *cobra.Command, args []string) error {
			caches := cache.NewCaches()
			caches.ClearAll()
			obslog.Infof("caches cleared")
			return nil
		},
	}
}

func newScanCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "scan <host>",
		Short: "scan a host's common ports, or the full 1-65535 range with --full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]
			cancel := &orchestrator.CancelFlag{}
			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-sigCtx.Done()
				cancel.Set()
			}()

			var hits []orchestrator.ScanHit
			if full {
				hits = orchestrator.ScanFullRange(sigCtx, host, orchestrator.ScanOptions{
					Cancel: cancel,
					Progress: func(scanned, total, found int) {
						fmt.Fprintf(os.Stderr, "\rscanned %d/%d found %d", scanned, total, found)
					},
				})
				fmt.Fprintln(os.Stderr)
			} else {
				hits = orchestrator.ScanCommonPorts(sigCtx, host, orchestrator.ScanOptions{Cancel: cancel})
			}

			for _, h := range hits {
				fmt.Printf("%s:%d %s\n", host, h.Port, h.Kind)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "sweep the full 1-65535 port range instead of the common-ports list")
	return cmd
}

func newMonitorCmd() *cobra.Command {
	var intervalSeconds int
	var openUI bool
	cmd := &cobra.Command{
		Use:   "monitor <server-name>",
		Short: "monitor one server from the fleet file, appending derived events to its daily log (events are not printed; use --ui to view them)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			fleet, err := repo.Load(serversPath)
			if err != nil {
				return err
			}
			var target *record.ServerRecord
			for _, rec := range fleet {
				if rec.Name == name {
					target = rec
					break
				}
			}
			if target == nil {
				return fmt.Errorf("no server named %q in %s", name, serversPath)
			}

			caches := cache.NewCaches()
			prober := orchestrator.NewDefaultProber(resolve.NewResolver(caches.SRV), caches)
			sampler := monitor.NewSampler(target, prober, time.Duration(intervalSeconds)*time.Second)

			if err := monitor.CleanupOldLogs(".", target.Name, 0); err != nil {
				obslog.Warnf("cleanup old logs: %v", err)
			}
			mon := monitor.NewMonitor(target, sampler, &monitor.Persister{Dir: ".", ServerName: target.Name})

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			mon.Start(sigCtx)

			if openUI {
				err := dashboard.Run(mon, func() error {
					mon.EnterPager()
					defer mon.ExitPager()
					return pager.Run(mon.Stream, target.Name)
				})
				mon.Stop()
				return err
			}

			<-sigCtx.Done()
			mon.Stop()
			return nil
		},
	}
	cmd.Flags().IntVar(&intervalSeconds, "interval", 30, "sampling interval in seconds, clamped to [5,300]")
	cmd.Flags().BoolVar(&openUI, "ui", false, "open the interactive single-server dashboard (press l for the full log pager) instead of waiting for Ctrl-C")
	return cmd
}

func newFleetDashboardCmd() *cobra.Command {
	var intervalSeconds int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "monitor every server in the fleet file in the interactive multi-server dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fleet, err := repo.Load(serversPath)
			if err != nil {
				return err
			}
			if len(fleet) == 0 {
				return fmt.Errorf("no servers in %s", serversPath)
			}

			caches := cache.NewCaches()
			prober := orchestrator.NewDefaultProber(resolve.NewResolver(caches.SRV), caches)

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			monitors := make([]*monitor.Monitor, len(fleet))
			for i, rec := range fleet {
				if err := monitor.CleanupOldLogs(".", rec.Name, 0); err != nil {
					obslog.Warnf("cleanup old logs for %s: %v", rec.Name, err)
				}
				sampler := monitor.NewSampler(rec, prober, time.Duration(intervalSeconds)*time.Second)
				mon := monitor.NewMonitor(rec, sampler, &monitor.Persister{Dir: ".", ServerName: rec.Name})
				mon.Start(sigCtx)
				monitors[i] = mon
			}

			err = dashboard.RunMulti(monitors)
			for _, mon := range monitors {
				mon.Stop()
			}
			return err
		},
	}
	cmd.Flags().IntVar(&intervalSeconds, "interval", 30, "sampling interval in seconds, clamped to [5,300]")
	return cmd
}

func newModsCmd() *cobra.Command {
	var username string
	var cacheDir string
	cmd := &cobra.Command{
		Use:   "mods <server-name>",
		Short: "run the Forge/FML login-phase dialog and print the server's mod list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			fleet, err := repo.Load(serversPath)
			if err != nil {
				return err
			}
			var target *record.ServerRecord
			for _, rec := range fleet {
				if rec.Name == name {
					target = rec
					break
				}
			}
			if target == nil {
				return fmt.Errorf("no server named %q in %s", name, serversPath)
			}

			modCache := cache.NewModCache(cacheDir)
			if cached, ok := modCache.Get(target.IP, target.Port); ok {
				for _, m := range cached {
					fmt.Printf("%s %s (cached)\n", m.ModID, m.Version)
				}
				return nil
			}

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			mods, err := probe.DiscoverMods(sigCtx, target.Endpoint().String(), target.IP, target.Port, probe.ForgeOptions{
				Timeout:  5 * time.Second,
				Username: username,
			})
			if err != nil {
				return err
			}
			if err := modCache.Set(target.IP, target.Port, mods); err != nil {
				obslog.Warnf("persist mod cache: %v", err)
			}
			for _, m := range mods {
				fmt.Printf("%s %s\n", m.ModID, m.Version)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "ObservatoryBot", "username sent with LoginStart during mod discovery")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "mods_config", "directory for the persistent per-endpoint mod-list cache")
	return cmd
}

func defaultSettingsPath() string {
	path, err := config.DefaultSettingsPath()
	if err != nil {
		return "observatory.json"
	}
	return path
}
