package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/charfsm/config"
	"github.com/milk9111/charfsm/prefabs"
	"github.com/milk9111/charfsm/telemetry"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("note: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Prefab, "prefab", cfg.Prefab, "character prefab (yaml)")
	flag.StringVar(&cfg.Arena, "arena", cfg.Arena, "arena prefab (yaml)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log rejected transition queries")
	flag.BoolVar(&cfg.HotReload, "watch", cfg.HotReload, "reload prefabs and skill scripts on change")
	flag.DurationVar(&cfg.EvalInterval, "interval", cfg.EvalInterval, "override the machine evaluation interval")
	flag.IntVar(&cfg.Scale, "scale", cfg.Scale, "window scale")
	flag.Parse()

	prefabs.Dir = cfg.PrefabDir

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.Printf("warning: telemetry setup failed: %v", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("telemetry shutdown: %v", err)
			}
		}()
	}

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatalf("new game: %v", err)
	}
	defer game.Close()

	ebiten.SetWindowSize(baseWidth*cfg.Scale, baseHeight*cfg.Scale)
	ebiten.SetWindowTitle("charfsm")

	if err := ebiten.RunGame(game); err != nil {
		log.Print(err)
	}
}
