package core

import (
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/mathutil"
	"github.com/stormcoast/voxelwar/internal/protocol"
	"github.com/stormcoast/voxelwar/internal/transport"
)

// applyDamage runs the shared hurt/kill path (§4.3 Hurt/Kill) and
// translates the outcome into the SetHP/KillAction broadcasts. damager
// is -1 when there is no attributable player (e.g. a DE round-timer
// detonation).
func (s *Server) applyDamage(victim *conn.Player, damage float64, damager int32, cause conn.KillType, source mathutil.Vec3) {
	hurt := conn.Hurt(victim, s.Bus, damage, damager, uint8(cause))
	if peer := s.peerFor(victim.ID); peer != nil {
		s.host.SendReliable(peer, &protocol.SetHP{HP: uint8(hurt.NewHP), Reason: uint8(cause), Source: source})
	}
	if !hurt.Died {
		return
	}
	s.kill(victim, damager, cause)
}

// kill transitions victim to Dead, scores the killer per the default
// mode rule (§4.3: "default mode: suicide -1, kill +1"), and
// broadcasts KillAction.
func (s *Server) kill(victim *conn.Player, killerID int32, cause conn.KillType) {
	outcome := conn.Kill(victim, s.Bus, s.time, s.cfg.MaxRespawnTime, cause, killerID)
	if outcome.Suppressed {
		return
	}
	if killer := s.Players.Get(uint8(killerID)); killer != nil {
		if killerID == int32(victim.ID) {
			killer.Kills--
		} else {
			killer.Kills++
		}
	}
	s.host.BroadcastReliable(&protocol.KillAction{
		PlayerID: victim.ID,
		KillerID: uint8(killerID),
		KillType: uint8(cause),
		RespawnSeconds: uint8(outcome.RespawnTime + 1),
	}, nil)
}

// peerFor resolves a player id to its transport peer for unicasts.
func (s *Server) peerFor(id uint8) *transport.Peer {
	return s.host.PeerByID(id)
}
