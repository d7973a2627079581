package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/relaymesh-simulator/core"
	"github.com/signalsfoundry/relaymesh-simulator/internal/logging"
	"github.com/signalsfoundry/relaymesh-simulator/internal/observability"
	"github.com/signalsfoundry/relaymesh-simulator/timectrl"
)

func main() {
	scenarioPath := flag.String("scenario", "configs/marslink.yaml", "path to the scenario YAML")
	duration := flag.Duration("duration", 60*time.Second, "total simulated duration (0 runs forever)")
	tick := flag.Duration("tick", 1*time.Second, "tick interval")
	accelerated := flag.Bool("accelerated", true, "run in accelerated mode (vs real-time)")
	metricsAddr := flag.String("metrics-addr", ":9090", "address for the /metrics endpoint (empty disables)")

	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.Any("error", err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewFlowCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.Any("error", err))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			log.Info(ctx, "metrics endpoint listening", logging.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error(ctx, "metrics endpoint failed", logging.Any("error", err))
			}
		}()
	}

	kb := core.NewKnowledgeBase()

	f, err := os.Open(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to open scenario", logging.String("path", *scenarioPath), logging.Any("error", err))
		os.Exit(1)
	}
	scn, err := core.LoadScenario(kb, f)
	f.Close()
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("path", *scenarioPath), logging.Any("error", err))
		os.Exit(1)
	}
	log.Info(ctx, "scenario loaded",
		logging.String("path", *scenarioPath),
		logging.Int("relays", len(scn.RelayIDs)),
	)

	engine := core.NewEngine(scn.Build, scn.Budget, log, collector)

	start := time.Now().UTC()
	sim := core.NewSimulation(kb, engine, start, log)

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(start, *tick, mode)

	tc.AddListener(func(simTime time.Time) {
		res := sim.Step(ctx, simTime)

		fmt.Printf("[%s] tick=%d status=%s max_flow=%.1f Mbps paths=%d active_links=%d\n",
			simTime.Format(time.RFC3339),
			res.Tick,
			res.Status,
			res.MaxFlowMbps,
			len(res.Paths),
			countActiveLinks(res),
		)
		if res.LatencyPath.Reachable {
			fmt.Printf("↳ fastest path %v latency=%.1f s\n",
				res.LatencyPath.Nodes, res.LatencyPath.MetricSeconds)
		}
		for _, p := range res.Paths {
			fmt.Printf("↳ flow path %v rate=%6.1f Mbps span=%.0f km\n",
				p.Nodes, p.FlowMbps, p.DistanceKm)
		}
	})

	log.Info(ctx, "starting simulation",
		logging.String("duration", duration.String()),
		logging.String("tick", tick.String()),
		logging.Int("mode", int(mode)),
	)
	<-tc.Start(ctx, *duration)
	log.Info(ctx, "simulation complete")
}

func countActiveLinks(res core.TickResult) int {
	n := 0
	for _, l := range res.ActiveLinks {
		if l.ActiveRateMbps > 0 {
			n++
		}
	}
	return n
}
