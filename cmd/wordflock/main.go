package main

import (
	"flag"
	stdlog "log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-word-flock/internal/ebitenview"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "configs/wordflock.json", "path to a .json or .toml config file")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	logger := log.DefaultLogger
	if *verbose {
		logger = log.New(log.DebugLevel, os.Stdout)
	}

	cfg, err := simulation.LoadConfig(*configFile)
	if err != nil {
		stdlog.Fatal(err)
	}

	// only the first world honours -seed, restarts draw a new one
	first := true
	newWorld := func() (*simulation.World, error) {
		s := uint64(0)
		if first {
			s, first = *seed, false
		}
		return simulation.NewWorldFromConfig(cfg, s, logger)
	}
	world, err := newWorld()
	if err != nil {
		stdlog.Fatal(err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Word Flock")
	ebiten.SetTPS(cfg.TPS)

	game := ebitenview.New(world, newWorld, cfg.FontScale, logger)
	if err := ebiten.RunGame(game); err != nil {
		stdlog.Fatal(err)
	}
}
