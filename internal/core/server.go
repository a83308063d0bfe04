// Package core is the sole translation layer between wire packets and
// the protocol-agnostic domain packages (conn, entity, gamemode,
// physics): it owns the peer table, the voxel map, the entity table,
// the transient object list, the team/game-mode instance, and runs the
// tick loop (§2, §4.1). Every other internal package stays decodable
// and testable without a live socket; core is where they meet.
package core

import (
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stormcoast/voxelwar/internal/clock"
	"github.com/stormcoast/voxelwar/internal/config"
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/entity"
	"github.com/stormcoast/voxelwar/internal/gamemode"
	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/mathutil"
	"github.com/stormcoast/voxelwar/internal/protocol"
	"github.com/stormcoast/voxelwar/internal/transport"
	"github.com/stormcoast/voxelwar/internal/voxel"
)

// tickInterval is the target wall-clock period between simulation
// steps (§4.1 step 6: "yield for ~1/30s wall time").
const tickInterval = 1.0 / 30.0

// Server owns every piece of authoritative state and is the only
// place that wires protocol-agnostic packages to the wire protocol
// and the transport layer.
type Server struct {
	cfg config.Config
	log zerolog.Logger

	// mu guards every field below against concurrent access from the
	// tick loop and the transport worker pool's packet handlers, the
	// same single coarse lock the teacher's game state uses rather
	// than a single-threaded command queue.
	mu sync.Mutex

	clock clock.Clock
	rng   *rand.Rand
	time  float64

	Map      *voxel.Map
	Players  *conn.Table
	Entities *entity.Table
	Bus      *hooks.Bus
	Mode     gamemode.Mode

	host *transport.Host

	objects    []*object
	nextSoundID uint16

	pending *handshakeRegistry
}

// New builds a Server from a settled config. It does not start the
// transport socket; call Run to do that.
func New(cfg config.Config, clk clock.Clock, log zerolog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		log:      log,
		clock:    clk,
		rng:      rand.New(rand.NewSource(1)),
		Map:      cfg.NewMap(),
		Players:  conn.NewTable(),
		Entities: entity.NewTable(256),
		pending:  newHandshakeRegistry(),
	}
	s.Bus = hooks.NewBus(func(r any) { s.log.Error().Interface("panic", r).Msg("hook panicked") })

	if cfg.MapPath != "" {
		if err := s.loadMapFile(cfg.MapPath); err != nil {
			return nil, err
		}
	}

	mode, err := s.buildMode()
	if err != nil {
		return nil, err
	}
	s.Mode = mode

	s.host = transport.New(cfg.MaxPlayers, 8, transport.ServerInfo{
		Name:     cfg.Name,
		Protocol: protocol.Version,
		GameMode: cfg.GameMode,
	}, transport.Handlers{
		OnConnect:    s.onConnect,
		OnPacket:     s.onPacket,
		OnBadPacket:  s.onBadPacket,
		OnDisconnect: s.onDisconnect,
	}, log)

	return s, nil
}

// buildMode constructs the configured gamemode.Mode, wiring its
// entities into the shared entity table and (for Bomb Defusal) the
// shared explosion routine as its Detonate callback (§4.9).
func (s *Server) buildMode() (gamemode.Mode, error) {
	w, l := float64(s.cfg.MapWidth), float64(s.cfg.MapLength)
	base0 := mathutil.Vec3{X: w * 0.1, Y: l * 0.5, Z: float64(s.Map.GetZ(int32(w*0.1), int32(l*0.5), 0))}
	base1 := mathutil.Vec3{X: w * 0.9, Y: l * 0.5, Z: float64(s.Map.GetZ(int32(w*0.9), int32(l*0.5), 0))}

	switch s.cfg.GameMode {
	case "ctf":
		return gamemode.NewCTF(s.Bus, s.Entities, s.Players, s.cfg.ScoreLimit, [2]mathutil.Vec3{base0, base1})
	case "tc":
		mid := mathutil.Vec3{X: w * 0.5, Y: l * 0.5, Z: float64(s.Map.GetZ(int32(w*0.5), int32(l*0.5), 0))}
		return gamemode.NewTC(s.Entities, s.Players, s.cfg.ScoreLimit, []mathutil.Vec3{base0, mid, base1})
	case "bomb":
		site := mathutil.Vec3{X: w * 0.9, Y: l * 0.5, Z: float64(s.Map.GetZ(int32(w*0.9), int32(l*0.5), 0))}
		return gamemode.NewDE(s.Bus, s.Entities, s.Players, s.clock, s.detonate, []mathutil.Vec3{site}, base0, gamemode.DEConfig{})
	default:
		return gamemode.NewCTF(s.Bus, s.Entities, s.Players, s.cfg.ScoreLimit, [2]mathutil.Vec3{base0, base1})
	}
}

// loadMapFile replaces the freshly-allocated empty map's contents with
// a previously-dumped one from disk (§4.6 map persistence), using the
// same raw-deflate format streamed to clients over MapStart/MapChunk.
func (s *Server) loadMapFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.Map.LoadDump(data)
}

// detonate implements the shared explosion routine (§4.5) and is
// wired as Bomb Defusal's Detonate callback, keeping internal/gamemode
// free of a voxel/physics dependency.
func (s *Server) detonate(center mathutil.Vec3) {
	s.explode(center, -1)
}

// Run starts the transport listener and blocks, running the tick loop
// until stop is closed.
func (s *Server) Run(stop <-chan struct{}) error {
	if err := s.host.Listen(s.cfg.Port, 8); err != nil {
		return err
	}
	defer s.host.Close()

	ticker := time.NewTicker(time.Duration(tickInterval * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return nil
		case <-ticker.C:
			s.Tick(s.clock.Now())
		}
	}
}

// Tick advances one simulation step (§4.1): steps transient objects,
// settles and collides entities, drives the game mode, processes due
// respawns, and broadcasts a world-update snapshot.
func (s *Server) Tick(now float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := now - s.time
	if dt <= 0 {
		s.time = now
		return
	}
	s.time = now

	s.stepObjects(dt)

	positions := make(map[uint8]mathutil.Vec3, len(s.Players.All()))
	for _, p := range s.Players.All() {
		if p.Alive() {
			positions[p.ID] = p.Body.Position
		}
	}
	for _, e := range s.Entities.All() {
		e.Update(s.Map, positions)
	}

	for _, p := range s.Players.All() {
		if conn.DueRespawn(p, now) {
			s.respawn(p)
		}
	}

	s.Mode.Tick(now)
	if winner, over := s.Mode.CheckWin(); over {
		s.Bus.OnGameEnd.Fire(hooks.GameEndArgs{WinningTeam: winner})
		s.Mode.Reset(winner)
	}

	s.broadcastWorldUpdate()
}

// respawn picks a random position on the map and commits it (§4.3
// Spawn). The game mode is not consulted for the spawn point; only the
// spawn hooks that conn.Spawn fires can override it.
func (s *Server) respawn(p *conn.Player) {
	point := s.Map.RandomPositionIn(s.rng, 0, 0, s.cfg.MapWidth, s.cfg.MapLength)
	outcome := conn.Spawn(p, s.Bus, point)
	if outcome.Denied {
		return
	}
	s.host.BroadcastReliable(&protocol.CreatePlayer{
		PlayerID: p.ID, Position: outcome.Position, Weapon: weaponWireKind(p),
		Name: p.Name, Team: p.Team,
	}, nil)
}

func (s *Server) broadcastWorldUpdate() {
	snapshot := &protocol.WorldUpdate{}
	for _, p := range s.Players.All() {
		if !p.Alive() {
			continue
		}
		snapshot.Players = append(snapshot.Players, protocol.PlayerSnapshot{
			PlayerID: p.ID, Position: p.Body.Position, Orientation: p.Orientation,
		})
	}
	s.host.BroadcastUnsequenced(snapshot)
}
