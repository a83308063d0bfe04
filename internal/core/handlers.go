package core

import (
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/gamemode"
	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/protocol"
	"github.com/stormcoast/voxelwar/internal/transport"
	"github.com/stormcoast/voxelwar/internal/voxel"
	"github.com/stormcoast/voxelwar/internal/weapon"
)

// onPacket is the transport's single entry point for every decoded
// inbound packet. It dispatches on the packet's concrete type, looks
// up the sending player, and hands off to the protocol-agnostic
// authority checks in internal/conn (§4.4, §4.6).
func (s *Server) onPacket(peer *transport.Peer, pkt protocol.Packet) {
	reason, shouldDisconnect := s.dispatch(peer, pkt)
	if shouldDisconnect {
		// Runs after the lock below is released: Host.Disconnect
		// synchronously calls back into onDisconnect, which takes
		// the same lock, so it must never be invoked while held.
		s.host.Disconnect(peer, reason)
	}
}

func (s *Server) dispatch(peer *transport.Peer, pkt protocol.Packet) (protocol.DisconnectReason, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m := pkt.(type) {
	case *protocol.PackResponse:
		s.onPackResponse(peer, m)
	case *protocol.ExistingPlayer:
		return s.onExistingPlayer(peer, m)
	case *protocol.PositionOrientationData:
		return s.onMove(peer, m)
	case *protocol.InputData:
		s.onInput(peer, m)
	case *protocol.WeaponInput:
		s.onWeaponInput(peer, m)
	case *protocol.HitPacket:
		s.onHit(peer, m)
	case *protocol.BlockAction:
		s.onBlockAction(peer, m)
	case *protocol.BlockLine:
		s.onBlockLine(peer, m)
	case *protocol.UseOrientedItem:
		s.onUseOrientedItem(peer, m)
	case *protocol.SetTool:
		s.onSetTool(peer, m)
	case *protocol.SetColor:
		s.onSetColor(peer, m)
	case *protocol.ChangeWeapon:
		s.onChangeWeapon(peer, m)
	case *protocol.ChangeTeam:
		s.onChangeTeam(peer, m)
	case *protocol.ChatMessage:
		s.onChatMessage(peer, m)
	case *protocol.UseCommand:
		s.onUseCommand(peer, m)
	}
	return 0, false
}

func (s *Server) onBadPacket(peer *transport.Peer, err error) {
	s.log.Warn().Err(err).Uint8("peer", peer.ID).Msg("dropping peer for malformed packet")
}

// onDisconnect runs the disconnect cleanup path (§4.3 Disconnected):
// fire the leave hook, release any carried objective, notify the
// active mode, broadcast PlayerLeft, and drop the player record.
func (s *Server) onDisconnect(peer *transport.Peer, reason protocol.DisconnectReason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.Players.Get(peer.ID)
	if p == nil {
		return
	}
	lastPos := p.Body.Position
	conn.Leave(p, s.Bus)
	s.Entities.ClearCarrier(p.ID)
	if leaver, ok := s.Mode.(gamemode.Leaver); ok {
		leaver.OnPlayerLeave(p.ID, lastPos)
	}
	s.pending.cancel(p.ID)
	s.Players.Remove(p.ID)
	s.host.BroadcastReliable(&protocol.PlayerLeft{PlayerID: p.ID}, nil)
}

func (s *Server) joined(peer *transport.Peer) *conn.Player {
	p := s.Players.Get(peer.ID)
	if p == nil || p.State == conn.StateConnecting || p.State == conn.StateLoading {
		return nil
	}
	return p
}

func (s *Server) onMove(peer *transport.Peer, pkt *protocol.PositionOrientationData) (protocol.DisconnectReason, bool) {
	p := s.joined(peer)
	if p == nil || !p.Alive() {
		return 0, false
	}
	ok, finite := conn.ReconcilePosition(p, pkt.Position, pkt.Orientation)
	if !finite {
		return protocol.DisconnectUndefined, true
	}
	if !ok {
		s.host.SendReliable(peer, &protocol.PositionData{Position: p.Body.Position})
	}
	return 0, false
}

func (s *Server) onInput(peer *transport.Peer, pkt *protocol.InputData) {
	p := s.joined(peer)
	if p == nil || !p.Alive() {
		return
	}
	s.host.BroadcastReliable(pkt, peer)
}

func (s *Server) onWeaponInput(peer *transport.Peer, pkt *protocol.WeaponInput) {
	p := s.joined(peer)
	if p == nil || !p.Alive() || p.Tool != conn.ToolWeapon || p.Weapon == nil {
		return
	}
	p.Weapon.Primary, p.Weapon.Secondary = pkt.Primary, pkt.Secondary
	s.host.BroadcastReliable(pkt, peer)
}

func (s *Server) onHit(peer *transport.Peer, pkt *protocol.HitPacket) {
	shooter := s.joined(peer)
	if shooter == nil {
		return
	}
	victim := s.Players.Get(pkt.VictimID)
	if victim == nil || !victim.Alive() {
		return
	}

	var check conn.HitCheck
	if pkt.Zone == protocol.HitMelee {
		check = conn.CheckMelee(shooter, victim, s.time)
	} else {
		check = conn.CheckHit(shooter, victim, weapon.HitZone(pkt.Zone), s.time)
	}
	if !check.Accepted {
		return
	}
	cause := conn.KillWeapon
	switch {
	case check.Melee:
		cause = conn.KillMelee
	case pkt.Zone == protocol.HitHead:
		cause = conn.KillHeadshot
	}
	s.applyDamage(victim, check.Damage, int32(shooter.ID), cause, shooter.Body.Position)
}

func (s *Server) onBlockAction(peer *transport.Peer, pkt *protocol.BlockAction) {
	p := s.joined(peer)
	if p == nil || !p.Alive() {
		return
	}
	switch pkt.Action {
	case protocol.ActionBuild:
		if p.Block == nil {
			return
		}
		rgb := voxel.RGB{R: p.Block.Color.R, G: p.Block.Color.G, B: p.Block.Color.B}
		if !conn.BuildCheck(p, s.Map, s.Bus, s.time, pkt.X, pkt.Y, pkt.Z, rgb) {
			return
		}
		s.host.BroadcastReliable(&protocol.BlockAction{PlayerID: p.ID, X: pkt.X, Y: pkt.Y, Z: pkt.Z, Action: protocol.ActionBuild}, nil)
	case protocol.ActionDestroy:
		cascaded := conn.DestroyCheck(p, s.Map, s.Bus, s.time, pkt.X, pkt.Y, pkt.Z, nil)
		s.broadcastDestroyed(p.ID, cascaded, protocol.ActionDestroy)
	case protocol.ActionSpade:
		cascaded := conn.SpadeDestroy(p, s.Map, s.Bus, s.time, pkt.X, pkt.Y, pkt.Z)
		s.broadcastDestroyed(p.ID, cascaded, protocol.ActionSpade)
	}
}

func (s *Server) broadcastDestroyed(playerID uint8, cells []voxel.BlockPos, action protocol.BlockActionType) {
	for _, c := range cells {
		s.host.BroadcastReliable(&protocol.BlockAction{PlayerID: playerID, X: c.X, Y: c.Y, Z: c.Z, Action: action}, nil)
	}
}

func (s *Server) onBlockLine(peer *transport.Peer, pkt *protocol.BlockLine) {
	p := s.joined(peer)
	if p == nil || !p.Alive() || p.Block == nil {
		return
	}
	line := conn.BlockLineCheck(p, s.Map, s.time, voxel.BlockPos{X: pkt.X1, Y: pkt.Y1, Z: pkt.Z1}, voxel.BlockPos{X: pkt.X2, Y: pkt.Y2, Z: pkt.Z2})
	if line == nil {
		return
	}
	rgb := voxel.RGB{R: p.Block.Color.R, G: p.Block.Color.G, B: p.Block.Color.B}
	for _, cell := range line {
		if !s.Map.BuildPoint(cell.X, cell.Y, cell.Z, rgb) {
			continue
		}
		p.Block.Build()
		s.host.BroadcastReliable(&protocol.BlockAction{PlayerID: p.ID, X: cell.X, Y: cell.Y, Z: cell.Z, Action: protocol.ActionBuild}, nil)
	}
}

func (s *Server) onUseOrientedItem(peer *transport.Peer, pkt *protocol.UseOrientedItem) {
	p := s.joined(peer)
	if p == nil || !p.Alive() {
		return
	}
	pos, vel, ok := conn.ThrowCheck(p, pkt.Position, pkt.Velocity)
	if !ok {
		return
	}
	pkt.Position, pkt.Velocity = pos, vel
	switch conn.Tool(pkt.Tool) {
	case conn.ToolGrenade:
		if p.Grenade == nil || !p.Grenade.OnPrimary() {
			return
		}
		s.ThrowGrenade(p, pkt.Position, pkt.Velocity)
	case conn.ToolRPG:
		if p.RPG == nil || p.RPG.PrimaryAmmo <= 0 || !p.RPG.CheckPrimaryRapid(s.time, 1) {
			return
		}
		p.RPG.PrimaryAmmo--
		s.FireRocket(p, pkt.Position, pkt.Velocity)
	default:
		return
	}
	s.host.BroadcastReliable(pkt, peer)
}

func (s *Server) onSetTool(peer *transport.Peer, pkt *protocol.SetTool) {
	p := s.joined(peer)
	if p == nil || !p.Alive() {
		return
	}
	p.Tool = conn.Tool(pkt.Tool)
	s.host.BroadcastReliable(pkt, peer)
}

func (s *Server) onSetColor(peer *transport.Peer, pkt *protocol.SetColor) {
	p := s.joined(peer)
	if p == nil || p.Block == nil {
		return
	}
	p.Block.Color = weapon.RGB{R: pkt.R, G: pkt.G, B: pkt.B}
	s.host.BroadcastReliable(pkt, peer)
}

func (s *Server) onChangeWeapon(peer *transport.Peer, pkt *protocol.ChangeWeapon) {
	p := s.joined(peer)
	if p == nil {
		return
	}
	spec, ok := weaponSpecFromWire(pkt.Weapon)
	if !ok {
		return
	}
	p.AttachWeapon(spec)
	if p.Alive() {
		s.kill(p, int32(p.ID), conn.KillClassChange)
	}
}

func (s *Server) onChangeTeam(peer *transport.Peer, pkt *protocol.ChangeTeam) {
	p := s.joined(peer)
	if p == nil || (pkt.Team != 0 && pkt.Team != 1) {
		return
	}
	p.Team = pkt.Team
	if p.Alive() {
		s.kill(p, int32(p.ID), conn.KillTeamChange)
	}
	s.host.BroadcastReliable(pkt, nil)
}

func (s *Server) onChatMessage(peer *transport.Peer, pkt *protocol.ChatMessage) {
	p := s.joined(peer)
	if p == nil {
		return
	}
	value := pkt.Value
	if rewritten, overridden := s.Bus.TryChatMessage.Fire(hooks.ChatArgs{PlayerID: p.ID, ChatType: pkt.ChatType, Value: value}); overridden {
		if rewritten == "" {
			return
		}
		value = rewritten
	}
	s.Bus.OnChatMessage.Fire(hooks.ChatArgs{PlayerID: p.ID, ChatType: pkt.ChatType, Value: value})
	s.host.BroadcastReliable(&protocol.ChatMessage{ChatType: pkt.ChatType, PlayerID: p.ID, Value: value}, nil)
}

func (s *Server) onUseCommand(peer *transport.Peer, pkt *protocol.UseCommand) {
	p := s.joined(peer)
	if p == nil {
		return
	}
	s.Bus.OnUseCommand.Fire(hooks.CommandArgs{PlayerID: p.ID, Value: pkt.Value})
}
