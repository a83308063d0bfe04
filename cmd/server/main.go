// Command server runs the authoritative voxel FPS server: it parses
// flags into a config.Config, wires up structured logging and a
// wall-clock, and blocks running the tick loop until an interrupt or
// terminate signal arrives, grounded on the teacher's root main.go
// flag-parsing and graceful-shutdown shape.
package main

import (
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/stormcoast/voxelwar/internal/clock"
	"github.com/stormcoast/voxelwar/internal/config"
	"github.com/stormcoast/voxelwar/internal/core"
	"github.com/stormcoast/voxelwar/internal/telemetry"
)

func main() {
	cfg := config.Default()

	name := flag.String("name", cfg.Name, "server name announced to clients")
	port := flag.Int("port", cfg.Port, "UDP port to listen on")
	maxPlayers := flag.Int("max-players", cfg.MaxPlayers, "maximum simultaneous players")
	mapPath := flag.String("map", cfg.MapPath, "path to the voxel map file")
	packs := flag.String("packs", "", "comma-separated content pack paths")
	gameMode := flag.String("mode", cfg.GameMode, `game mode: "ctf", "tc", or "bomb"`)
	scoreLimit := flag.Int("score-limit", cfg.ScoreLimit, "score needed to end the round (0 = unlimited)")
	mapWidth := flag.Int("map-width", int(cfg.MapWidth), "map width in blocks")
	mapLength := flag.Int("map-length", int(cfg.MapLength), "map length in blocks")
	mapHeight := flag.Int("map-height", int(cfg.MapHeight), "map height in blocks")
	flag.Parse()

	cfg.Name = *name
	cfg.Port = *port
	cfg.MaxPlayers = *maxPlayers
	cfg.MapPath = *mapPath
	cfg.GameMode = *gameMode
	cfg.ScoreLimit = *scoreLimit
	cfg.MapWidth = int32(*mapWidth)
	cfg.MapLength = int32(*mapLength)
	cfg.MapHeight = int32(*mapHeight)
	if *packs != "" {
		cfg.PackPaths = strings.Split(*packs, ",")
	}

	log := telemetry.New(os.Stdout, "server")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	srv, err := core.New(cfg, clock.NewReal(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	log.Info().Str("name", cfg.Name).Int("port", cfg.Port).Str("mode", cfg.GameMode).
		Str("listen", "udp:"+strconv.Itoa(cfg.Port)).Msg("starting server")

	stop := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(stop)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		close(stop)
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server exited with error")
		}
	}

	log.Info().Msg("server stopped")
}
