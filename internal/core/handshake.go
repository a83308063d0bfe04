package core

import (
	"sync"
	"time"

	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/protocol"
	"github.com/stormcoast/voxelwar/internal/transport"
	"github.com/stormcoast/voxelwar/internal/voxel"
)

// packResponseTimeout bounds how long the Loading handshake waits for
// a PackResponse before assuming the client doesn't have it cached and
// streaming it anyway (§4.3 Loading, §5 "wait_for ... 3s timeout").
const packResponseTimeout = 3 * time.Second

// mapChunkSize bounds a single MapChunk payload (§4.6 streaming).
const mapChunkSize = 1024

// handshakeRegistry tracks the one pending response channel per peer
// id that the Loading state's wait_for needs; it is the Go
// stand-in for §3's "map of pending response futures keyed by expected
// packet type" — kept in internal/core since internal/conn is
// protocol-agnostic and must not know about PackResponse.
type handshakeRegistry struct {
	mu      sync.Mutex
	waiting map[uint8]chan *protocol.PackResponse
}

func newHandshakeRegistry() *handshakeRegistry {
	return &handshakeRegistry{waiting: make(map[uint8]chan *protocol.PackResponse)}
}

func (r *handshakeRegistry) await(id uint8) chan *protocol.PackResponse {
	ch := make(chan *protocol.PackResponse, 1)
	r.mu.Lock()
	r.waiting[id] = ch
	r.mu.Unlock()
	return ch
}

func (r *handshakeRegistry) deliver(id uint8, pkt *protocol.PackResponse) bool {
	r.mu.Lock()
	ch, ok := r.waiting[id]
	if ok {
		delete(r.waiting, id)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	ch <- pkt
	return true
}

func (r *handshakeRegistry) cancel(id uint8) {
	r.mu.Lock()
	delete(r.waiting, id)
	r.mu.Unlock()
}

// onConnect allocates a player and runs the Loading sequence (pack
// handshake, map stream, StateData) on its own goroutine so the
// transport's accept path never blocks on network I/O (§4.3 Loading).
func (s *Server) onConnect(peer *transport.Peer) {
	s.mu.Lock()
	p := conn.NewPlayer(peer.ID)
	p.State = conn.StateLoading
	s.Players.Add(p)
	s.Bus.OnPlayerConnect.Fire(hooks.ConnectArgs{PlayerID: peer.ID})
	s.mu.Unlock()

	go s.runLoading(peer, p)
}

func (s *Server) runLoading(peer *transport.Peer, p *conn.Player) {
	for _, path := range s.cfg.PackPaths {
		if !s.sendPack(peer, path) {
			return
		}
	}
	if !s.sendMap(peer) {
		return
	}
	s.host.SendReliable(peer, &protocol.StateData{Mode: gameModeWireCode(s.cfg.GameMode)})
	for _, existing := range s.Players.All() {
		if existing.ID == p.ID || existing.State != conn.StateSpawned {
			continue
		}
		s.host.SendReliable(peer, &protocol.ExistingPlayer{
			PlayerID: existing.ID, Team: existing.Team, Name: existing.Name,
		})
	}
	p.State = conn.StateJoined
}

// sendPack streams one content pack, honoring the 3s PackResponse
// wait before assuming the client needs the full transfer (§4.3, §5).
func (s *Server) sendPack(peer *transport.Peer, path string) bool {
	data, crc, err := loadPackFile(path)
	if err != nil {
		s.log.Warn().Err(err).Str("pack", path).Msg("failed to load content pack")
		return true // missing optional pack is not fatal to the handshake
	}
	s.host.SendReliable(peer, &protocol.PackStart{TotalSize: uint32(len(data)), Checksum: crc, Name: path})

	wait := s.pending.await(peer.ID)
	select {
	case resp := <-wait:
		if resp.HasPack && resp.Checksum == crc {
			return true
		}
	case <-time.After(packResponseTimeout):
		s.pending.cancel(peer.ID)
	}
	for _, chunk := range voxel.Chunks(data, mapChunkSize) {
		s.host.SendReliable(peer, &protocol.PackChunk{Data: chunk})
	}
	return true
}

func (s *Server) sendMap(peer *transport.Peer) bool {
	dump, err := s.Map.Dump()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to dump voxel map")
		return false
	}
	s.host.SendReliable(peer, &protocol.MapStart{TotalSize: uint32(len(dump))})
	for _, chunk := range voxel.Chunks(dump, mapChunkSize) {
		s.host.SendReliable(peer, &protocol.MapChunk{Data: chunk})
	}
	return true
}

// onPackResponse feeds the Loading goroutine's wait_for.
func (s *Server) onPackResponse(peer *transport.Peer, pkt *protocol.PackResponse) {
	s.pending.deliver(peer.ID, pkt)
}

// onExistingPlayer handles the client's own ExistingPlayer announcing
// its chosen name/team/weapon, completing the Joined transition and
// spawning the player (§4.3 Joined).
// onExistingPlayer is only ever called from dispatch, which already
// holds s.mu. It reports a disconnect decision instead of acting on
// it directly, since Host.Disconnect calls back into onDisconnect
// (which takes the same lock) and must run after dispatch unlocks.
func (s *Server) onExistingPlayer(peer *transport.Peer, pkt *protocol.ExistingPlayer) (protocol.DisconnectReason, bool) {
	p := s.Players.Get(peer.ID)
	if p == nil || p.State != conn.StateJoined {
		return 0, false
	}
	spec, ok := weaponSpecFromWire(pkt.Weapon)
	if !ok {
		return protocol.DisconnectUndefined, true
	}
	if pkt.Team != 0 && pkt.Team != 1 {
		return protocol.DisconnectUndefined, true
	}

	p.Name = conn.NormalizeName(pkt.Name, peer.ID, s.Players.TakenNames(peer.ID))
	p.Team = pkt.Team
	p.AttachWeapon(spec)
	s.Bus.OnPlayerJoin.Fire(hooks.JoinArgs{PlayerID: p.ID, Name: p.Name, Team: p.Team})
	s.respawn(p)
	return 0, false
}

func gameModeWireCode(name string) uint8 {
	switch name {
	case "ctf":
		return 0
	case "tc":
		return 1
	case "bomb":
		return 2
	default:
		return 0
	}
}

func loadPackFile(path string) ([]byte, uint32, error) {
	return readFileCRC32(path)
}
