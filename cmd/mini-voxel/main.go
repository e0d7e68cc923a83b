package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"mini-voxel/internal/config"
	"mini-voxel/internal/logging"

	"github.com/faiface/mainthread"
	"github.com/xlab/closer"
)

var (
	configPath  = flag.String("config", "", "path to a YAML config file (default $VOXEL_CONFIG)")
	seedFlag    = flag.Int64("seed", 0, "world seed, overrides the config when non-zero")
	metricsAddr = flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :2112")
	logLevel    = flag.String("log", "", "log level: debug, info, warn, error, off")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	applyFlags(cfg)

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(os.Stderr, level)

	a := newApp(cfg, log)
	// On SIGINT/SIGTERM ask the frame loop to stop and wait for it to release
	// GPU and worker resources before the process exits.
	closer.Bind(func() {
		a.requestQuit()
		select {
		case <-a.done:
		case <-time.After(cfg.World.ShutdownTimeout + time.Second):
			log.Warnf("shutdown did not finish in time")
		}
	})

	mainthread.Run(func() {
		closer.Checked(a.run, true)
	})
	closer.Close()
}

func applyFlags(cfg *config.Config) {
	if *seedFlag != 0 {
		cfg.World.Seed = *seedFlag
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
}
