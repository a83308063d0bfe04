package protocol

import (
	"github.com/stormcoast/voxelwar/internal/codec"
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// PositionData is the authoritative snap-back the server sends when a
// client's reported position drifts too far from server truth (§4.3).
type PositionData struct {
	Position mathutil.Vec3
}

func (p *PositionData) TypeCode() TypeCode { return TypePositionData }
func (p *PositionData) Encode(w *codec.Writer) { w.WriteVec3(p.Position) }
func (p *PositionData) Decode(r *codec.Reader) error {
	v, err := r.ReadVec3()
	if err != nil {
		return err
	}
	p.Position = v
	return nil
}

// OrientationData carries a player's facing unit vector, used both as
// a standalone packet and folded into PositionOrientationData by the
// connection layer.
type OrientationData struct {
	Orientation mathutil.Vec3
}

func (p *OrientationData) TypeCode() TypeCode { return TypeOrientationData }
func (p *OrientationData) Encode(w *codec.Writer) { w.WriteVec3(p.Orientation) }
func (p *OrientationData) Decode(r *codec.Reader) error {
	v, err := r.ReadVec3()
	if err != nil {
		return err
	}
	p.Orientation = v
	return nil
}

// PositionOrientationData is the player's combined movement update,
// sent at network tick rate (§4.3).
type PositionOrientationData struct {
	PlayerID    uint8
	Position    mathutil.Vec3
	Orientation mathutil.Vec3
}

func (p *PositionOrientationData) TypeCode() TypeCode { return TypeMovement }
func (p *PositionOrientationData) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteVec3(p.Position)
	w.WriteVec3(p.Orientation)
}
func (p *PositionOrientationData) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	pos, err := r.ReadVec3()
	if err != nil {
		return err
	}
	ori, err := r.ReadVec3()
	if err != nil {
		return err
	}
	p.PlayerID, p.Position, p.Orientation = id, pos, ori
	return nil
}

// WalkAnim is the 4-bit walk + 4-bit animation state packed into one byte.
type WalkAnim struct {
	Walk uint8 // bits 0-3
	Anim uint8 // bits 4-7
}

func (w WalkAnim) pack() uint8   { return (w.Walk & 0x0F) | (w.Anim&0x0F)<<4 }
func unpackWalkAnim(b uint8) WalkAnim {
	return WalkAnim{Walk: b & 0x0F, Anim: (b >> 4) & 0x0F}
}

// InputData carries the movement/action key state for one player.
type InputData struct {
	PlayerID uint8
	State    WalkAnim
}

func (p *InputData) TypeCode() TypeCode { return TypeInputData }
func (p *InputData) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteUint8(p.State.pack())
}
func (p *InputData) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	b, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID = id
	p.State = unpackWalkAnim(b)
	return nil
}

// WeaponInput carries primary/secondary trigger state for one player.
type WeaponInput struct {
	PlayerID  uint8
	Primary   bool
	Secondary bool
}

func (p *WeaponInput) TypeCode() TypeCode { return TypeWeaponInput }
func (p *WeaponInput) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	var b uint8
	if p.Primary {
		b |= 1
	}
	if p.Secondary {
		b |= 2
	}
	w.WriteUint8(b)
}
func (p *WeaponInput) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	b, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID = id
	p.Primary = b&1 != 0
	p.Secondary = b&2 != 0
	return nil
}

// HitZone identifies the body part a HitPacket claims to have struck.
type HitZone uint8

const (
	HitTorso HitZone = 0
	HitHead  HitZone = 1
	HitArms  HitZone = 2
	HitLegs  HitZone = 3
	HitMelee HitZone = 4
)

// HitPacket is a shooter's claim that it struck victim_id in zone.
// Authority lives in the connection layer (§4.4); this is only the
// wire shape.
type HitPacket struct {
	VictimID uint8
	Zone     HitZone
}

func (p *HitPacket) TypeCode() TypeCode { return TypeHitPacket }
func (p *HitPacket) Encode(w *codec.Writer) {
	w.WriteUint8(p.VictimID)
	w.WriteUint8(uint8(p.Zone))
}
func (p *HitPacket) Decode(r *codec.Reader) error {
	v, err := r.ReadUint8()
	if err != nil {
		return err
	}
	z, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.VictimID, p.Zone = v, HitZone(z)
	return nil
}

// SetHP updates a player's hit points and, when it is damage rather
// than a restock, carries the source position for the client's hurt
// direction indicator.
type SetHP struct {
	HP     uint8
	Reason uint8
	Source mathutil.Vec3
}

func (p *SetHP) TypeCode() TypeCode { return TypeSetHP }
func (p *SetHP) Encode(w *codec.Writer) {
	w.WriteUint8(p.HP)
	w.WriteUint8(p.Reason)
	w.WriteVec3(p.Source)
}
func (p *SetHP) Decode(r *codec.Reader) error {
	hp, err := r.ReadUint8()
	if err != nil {
		return err
	}
	reason, err := r.ReadUint8()
	if err != nil {
		return err
	}
	src, err := r.ReadVec3()
	if err != nil {
		return err
	}
	p.HP, p.Reason, p.Source = hp, reason, src
	return nil
}

// UseOrientedItem requests throwing a grenade or firing a rocket
// (§4.4). Tool distinguishes grenade (ToolGrenade) from rocket
// (ToolRPG); authority clamps position/velocity to the player's
// tracked state before this is rebroadcast.
type UseOrientedItem struct {
	PlayerID uint8
	Tool     uint8
	Value    uint8
	Position mathutil.Vec3
	Velocity mathutil.Vec3
}

func (p *UseOrientedItem) TypeCode() TypeCode { return TypeGrenadePacket }
func (p *UseOrientedItem) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteUint8(p.Tool)
	w.WriteUint8(p.Value)
	w.WriteVec3(p.Position)
	w.WriteVec3(p.Velocity)
}
func (p *UseOrientedItem) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	tool, err := r.ReadUint8()
	if err != nil {
		return err
	}
	value, err := r.ReadUint8()
	if err != nil {
		return err
	}
	pos, err := r.ReadVec3()
	if err != nil {
		return err
	}
	vel, err := r.ReadVec3()
	if err != nil {
		return err
	}
	p.PlayerID, p.Tool, p.Value, p.Position, p.Velocity = id, tool, value, pos, vel
	return nil
}

// SetTool selects the player's active tool/weapon slot.
type SetTool struct {
	PlayerID uint8
	Tool     uint8
}

func (p *SetTool) TypeCode() TypeCode { return TypeSetTool }
func (p *SetTool) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteUint8(p.Tool)
}
func (p *SetTool) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	tool, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID, p.Tool = id, tool
	return nil
}

// SetColor sets the player's active block color.
type SetColor struct {
	PlayerID uint8
	R, G, B  uint8
}

func (p *SetColor) TypeCode() TypeCode { return TypeSetColor }
func (p *SetColor) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteRGB(p.R, p.G, p.B)
}
func (p *SetColor) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	rr, g, b, err := r.ReadRGB()
	if err != nil {
		return err
	}
	p.PlayerID, p.R, p.G, p.B = id, rr, g, b
	return nil
}

// ExistingPlayer announces a connecting client's chosen identity
// during the join handshake.
type ExistingPlayer struct {
	PlayerID uint8
	Team     int8
	Weapon   uint8
	Tool     uint8
	Kills    uint32
	R, G, B  uint8
	Name     string
}

func (p *ExistingPlayer) TypeCode() TypeCode { return TypeExistingPlayer }
func (p *ExistingPlayer) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteInt8(p.Team)
	w.WriteUint8(p.Weapon)
	w.WriteUint8(p.Tool)
	w.WriteUint32(p.Kills)
	w.WriteRGB(p.R, p.G, p.B)
	w.WriteFixedString(p.Name, 16)
}
func (p *ExistingPlayer) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	team, err := r.ReadInt8()
	if err != nil {
		return err
	}
	weapon, err := r.ReadUint8()
	if err != nil {
		return err
	}
	tool, err := r.ReadUint8()
	if err != nil {
		return err
	}
	kills, err := r.ReadUint32()
	if err != nil {
		return err
	}
	rr, g, b, err := r.ReadRGB()
	if err != nil {
		return err
	}
	name, err := r.ReadFixedString(16)
	if err != nil {
		return err
	}
	p.PlayerID, p.Team, p.Weapon, p.Tool = id, team, weapon, tool
	p.Kills, p.R, p.G, p.B, p.Name = kills, rr, g, b, name
	return nil
}

// CreatePlayer announces a newly spawned player to every peer.
type CreatePlayer struct {
	PlayerID uint8
	Weapon   uint8
	Team     int8
	Position mathutil.Vec3
	Name     string
}

func (p *CreatePlayer) TypeCode() TypeCode { return TypeCreatePlayer }
func (p *CreatePlayer) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteUint8(p.Weapon)
	w.WriteInt8(p.Team)
	w.WriteVec3(p.Position)
	w.WriteFixedString(p.Name, 16)
}
func (p *CreatePlayer) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	weapon, err := r.ReadUint8()
	if err != nil {
		return err
	}
	team, err := r.ReadInt8()
	if err != nil {
		return err
	}
	pos, err := r.ReadVec3()
	if err != nil {
		return err
	}
	name, err := r.ReadFixedString(16)
	if err != nil {
		return err
	}
	p.PlayerID, p.Weapon, p.Team, p.Position, p.Name = id, weapon, team, pos, name
	return nil
}

// PlayerLeft announces a disconnect to every other peer.
type PlayerLeft struct {
	PlayerID uint8
}

func (p *PlayerLeft) TypeCode() TypeCode { return TypePlayerLeft }
func (p *PlayerLeft) Encode(w *codec.Writer) { w.WriteUint8(p.PlayerID) }
func (p *PlayerLeft) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID = id
	return nil
}

// KillAction reports a kill to every peer for the kill feed.
type KillAction struct {
	PlayerID       uint8
	KillerID       uint8
	KillType       uint8
	RespawnSeconds uint8
}

func (p *KillAction) TypeCode() TypeCode { return TypeKillAction }
func (p *KillAction) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteUint8(p.KillerID)
	w.WriteUint8(p.KillType)
	w.WriteUint8(p.RespawnSeconds)
}
func (p *KillAction) Decode(r *codec.Reader) error {
	pid, err := r.ReadUint8()
	if err != nil {
		return err
	}
	kid, err := r.ReadUint8()
	if err != nil {
		return err
	}
	kt, err := r.ReadUint8()
	if err != nil {
		return err
	}
	resp, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID, p.KillerID, p.KillType, p.RespawnSeconds = pid, kid, kt, resp
	return nil
}

// ChatMessage is a chat line, either team-scoped or global.
type ChatMessage struct {
	ChatType uint8
	PlayerID uint8
	Value    string
}

func (p *ChatMessage) TypeCode() TypeCode { return TypeChatMessage }
func (p *ChatMessage) Encode(w *codec.Writer) {
	w.WriteUint8(p.ChatType)
	w.WriteUint8(p.PlayerID)
	w.WriteString(p.Value)
}
func (p *ChatMessage) Decode(r *codec.Reader) error {
	ct, err := r.ReadUint8()
	if err != nil {
		return err
	}
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	val, err := r.ReadString()
	if err != nil {
		return err
	}
	p.ChatType, p.PlayerID, p.Value = ct, id, val
	return nil
}

// ChangeWeapon requests switching the player's equipped gun.
type ChangeWeapon struct {
	PlayerID uint8
	Weapon   uint8
}

func (p *ChangeWeapon) TypeCode() TypeCode { return TypeChangeWeapon }
func (p *ChangeWeapon) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteUint8(p.Weapon)
}
func (p *ChangeWeapon) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	weapon, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID, p.Weapon = id, weapon
	return nil
}

// ChangeTeam requests switching the player's team.
type ChangeTeam struct {
	PlayerID uint8
	Team     int8
}

func (p *ChangeTeam) TypeCode() TypeCode { return TypeChangeTeam }
func (p *ChangeTeam) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteInt8(p.Team)
}
func (p *ChangeTeam) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	team, err := r.ReadInt8()
	if err != nil {
		return err
	}
	p.PlayerID, p.Team = id, team
	return nil
}

// WeaponReload announces a reload in progress, including current
// ammo/reserve counts so the HUD can animate it.
type WeaponReload struct {
	PlayerID  uint8
	ClipAmmo  uint8
	ReserveAmmo uint8
}

func (p *WeaponReload) TypeCode() TypeCode { return TypeWeaponReload }
func (p *WeaponReload) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteUint8(p.ClipAmmo)
	w.WriteUint8(p.ReserveAmmo)
}
func (p *WeaponReload) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	clip, err := r.ReadUint8()
	if err != nil {
		return err
	}
	reserve, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID, p.ClipAmmo, p.ReserveAmmo = id, clip, reserve
	return nil
}

// Restock announces ammo/grenade/block replenishment, e.g. from an
// ammo crate entity (§4.7).
type Restock struct {
	PlayerID uint8
}

func (p *Restock) TypeCode() TypeCode { return TypeRestock }
func (p *Restock) Encode(w *codec.Writer) { w.WriteUint8(p.PlayerID) }
func (p *Restock) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID = id
	return nil
}

// SetScore updates a player's or team's displayed score.
type SetScore struct {
	PlayerID uint8
	Score    uint8
}

func (p *SetScore) TypeCode() TypeCode { return TypeSetScore }
func (p *SetScore) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteUint8(p.Score)
}
func (p *SetScore) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	score, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID, p.Score = id, score
	return nil
}

// UseCommand dispatches a chat-prefixed server command (§4.8).
type UseCommand struct {
	PlayerID uint8
	Value    string
}

func (p *UseCommand) TypeCode() TypeCode { return TypeUseCommand }
func (p *UseCommand) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteString(p.Value)
}
func (p *UseCommand) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	val, err := r.ReadString()
	if err != nil {
		return err
	}
	p.PlayerID, p.Value = id, val
	return nil
}
