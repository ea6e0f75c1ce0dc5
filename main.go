package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"draft-value/config"
	"draft-value/logging"
	"draft-value/pipeline"
)

var (
	configPath = flag.String("config", config.DefaultPath, "TOML config file (optional)")
	watch      = flag.Bool("watch", false, "Rerun whenever projections, rankings or team notes change")
	verbose    = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		die("load config: %v", err)
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log := logging.New(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		if err := pipeline.Watch(ctx, cfg, log, pipeline.WatchOptions{}); err != nil {
			stop()
			die("watch: %v", err)
		}
		return
	}

	if _, err := pipeline.Run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("run failed")
		stop()
		os.Exit(1)
	}
	fmt.Println("Done")
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "draft-value: "+format+"\n", args...)
	os.Exit(1)
}
