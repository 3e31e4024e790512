package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-word-flock/internal/termview"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "configs/wordflock.toml", "path to a .json or .toml config file")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	flag.Parse()

	// the terminal owns stdout while running
	logger := log.DiscardLogger

	cfg, err := simulation.LoadConfig(*configFile)
	if err != nil {
		stdlog.Fatal(err)
	}
	world, err := simulation.NewWorldFromConfig(cfg, *seed, logger)
	if err != nil {
		stdlog.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		stdlog.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		stdlog.Fatal(err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = termview.New(screen, world, cfg.TPS, logger).Run(ctx)
	screen.Fini()
	if err != nil && ctx.Err() == nil {
		stdlog.Fatal(err)
	}
}
