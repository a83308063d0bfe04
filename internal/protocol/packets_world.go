package protocol

import (
	"github.com/stormcoast/voxelwar/internal/codec"
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// BlockActionType distinguishes build from the two destroy variants
// and the spade swing (§3, §4.6).
type BlockActionType uint8

const (
	ActionBuild       BlockActionType = 0
	ActionDestroy     BlockActionType = 1
	ActionSpade       BlockActionType = 2
	ActionGrenade     BlockActionType = 3
)

// BlockAction requests (client->server) or announces (server->client)
// a single-cell build or destroy.
type BlockAction struct {
	PlayerID uint8
	X, Y, Z  int32
	Action   BlockActionType
}

func (p *BlockAction) TypeCode() TypeCode { return TypeBlockAction }
func (p *BlockAction) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteInt32(p.X)
	w.WriteInt32(p.Y)
	w.WriteInt32(p.Z)
	w.WriteUint8(uint8(p.Action))
}
func (p *BlockAction) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	x, err := r.ReadInt32()
	if err != nil {
		return err
	}
	y, err := r.ReadInt32()
	if err != nil {
		return err
	}
	z, err := r.ReadInt32()
	if err != nil {
		return err
	}
	action, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.PlayerID, p.X, p.Y, p.Z, p.Action = id, x, y, z, BlockActionType(action)
	return nil
}

// BlockLine requests a discrete line of blocks, capped at 50 cells by
// the voxel package (§4.6).
type BlockLine struct {
	PlayerID   uint8
	X1, Y1, Z1 int32
	X2, Y2, Z2 int32
}

func (p *BlockLine) TypeCode() TypeCode { return TypeBlockLine }
func (p *BlockLine) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteInt32(p.X1)
	w.WriteInt32(p.Y1)
	w.WriteInt32(p.Z1)
	w.WriteInt32(p.X2)
	w.WriteInt32(p.Y2)
	w.WriteInt32(p.Z2)
}
func (p *BlockLine) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	vals := make([]int32, 6)
	for i := range vals {
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}
		vals[i] = v
	}
	p.PlayerID = id
	p.X1, p.Y1, p.Z1 = vals[0], vals[1], vals[2]
	p.X2, p.Y2, p.Z2 = vals[3], vals[4], vals[5]
	return nil
}

// StateData carries the full per-team and per-mode state snapshot sent
// right after the map finishes streaming (§4.3).
type StateData struct {
	Mode uint8
	Data []byte
}

func (p *StateData) TypeCode() TypeCode { return TypeStateData }
func (p *StateData) Encode(w *codec.Writer) {
	w.WriteUint8(p.Mode)
	w.WriteRaw(p.Data)
}
func (p *StateData) Decode(r *codec.Reader) error {
	mode, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.Mode = mode
	p.Data = r.ReadRaw()
	return nil
}

// MapStart announces the total compressed size of the voxel map dump
// about to be streamed in MapChunk packets (§4.6).
type MapStart struct {
	TotalSize uint32
}

func (p *MapStart) TypeCode() TypeCode { return TypeMapStart }
func (p *MapStart) Encode(w *codec.Writer) { w.WriteUint32(p.TotalSize) }
func (p *MapStart) Decode(r *codec.Reader) error {
	v, err := r.ReadUint32()
	if err != nil {
		return err
	}
	p.TotalSize = v
	return nil
}

// MapChunk carries one slice of the compressed voxel map dump.
type MapChunk struct {
	Data []byte
}

func (p *MapChunk) TypeCode() TypeCode { return TypeMapChunk }
func (p *MapChunk) Encode(w *codec.Writer) { w.WriteRaw(p.Data) }
func (p *MapChunk) Decode(r *codec.Reader) error {
	p.Data = r.ReadRaw()
	return nil
}

// PackStart announces the total size of a content pack transfer.
type PackStart struct {
	TotalSize uint32
	Checksum  uint32
	Name      string
}

func (p *PackStart) TypeCode() TypeCode { return TypePackStart }
func (p *PackStart) Encode(w *codec.Writer) {
	w.WriteUint32(p.TotalSize)
	w.WriteUint32(p.Checksum)
	w.WriteString(p.Name)
}
func (p *PackStart) Decode(r *codec.Reader) error {
	size, err := r.ReadUint32()
	if err != nil {
		return err
	}
	sum, err := r.ReadUint32()
	if err != nil {
		return err
	}
	name, err := r.ReadString()
	if err != nil {
		return err
	}
	p.TotalSize, p.Checksum, p.Name = size, sum, name
	return nil
}

// PackChunk carries one slice of a content pack transfer.
type PackChunk struct {
	Data []byte
}

func (p *PackChunk) TypeCode() TypeCode { return TypePackChunk }
func (p *PackChunk) Encode(w *codec.Writer) { w.WriteRaw(p.Data) }
func (p *PackChunk) Decode(r *codec.Reader) error {
	p.Data = r.ReadRaw()
	return nil
}

// PackResponse is the client's acknowledgement that it already has
// (or has finished downloading) the named content pack (§5, 3s
// timeout per wait_for).
type PackResponse struct {
	Checksum uint32
	HasPack  bool
}

func (p *PackResponse) TypeCode() TypeCode { return TypePackResponse }
func (p *PackResponse) Encode(w *codec.Writer) {
	w.WriteUint32(p.Checksum)
	if p.HasPack {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}
func (p *PackResponse) Decode(r *codec.Reader) error {
	sum, err := r.ReadUint32()
	if err != nil {
		return err
	}
	has, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.Checksum, p.HasPack = sum, has != 0
	return nil
}

// ProgressBar drives the capture-progress HUD widget (territory
// control / bomb defusal countdown, §4.8, §4.9).
type ProgressBar struct {
	EntityID uint8
	Progress float32 // 0..1, negative direction encoded by sign
	Rate     float32
}

func (p *ProgressBar) TypeCode() TypeCode { return TypeProgressBar }
func (p *ProgressBar) Encode(w *codec.Writer) {
	w.WriteUint8(p.EntityID)
	w.WriteFloat32(p.Progress)
	w.WriteFloat32(p.Rate)
}
func (p *ProgressBar) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	progress, err := r.ReadFloat32()
	if err != nil {
		return err
	}
	rate, err := r.ReadFloat32()
	if err != nil {
		return err
	}
	p.EntityID, p.Progress, p.Rate = id, progress, rate
	return nil
}

// PlayerSnapshot is one player's position/orientation as carried
// inside an unsequenced WorldUpdate broadcast.
type PlayerSnapshot struct {
	PlayerID    uint8
	Position    mathutil.Vec3
	Orientation mathutil.Vec3
}

// WorldUpdate is the batched per-tick broadcast of every connected
// player's position and orientation, sent on the unsequenced channel
// (§4.2, §5): clients must accept it out of order and keep latest-wins.
type WorldUpdate struct {
	Players []PlayerSnapshot
}

func (p *WorldUpdate) TypeCode() TypeCode { return TypeWorldUpdate }
func (p *WorldUpdate) Encode(w *codec.Writer) {
	w.WriteUint8(uint8(len(p.Players)))
	for _, pl := range p.Players {
		w.WriteUint8(pl.PlayerID)
		w.WriteVec3(pl.Position)
		w.WriteVec3(pl.Orientation)
	}
}
func (p *WorldUpdate) Decode(r *codec.Reader) error {
	n, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.Players = make([]PlayerSnapshot, 0, n)
	for i := uint8(0); i < n; i++ {
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
		p.Players = append(p.Players, PlayerSnapshot{PlayerID: id, Position: pos, Orientation: ori})
	}
	return nil
}

// PlaySound triggers a one-shot sound effect at a world position, or
// attached to an entity if EntityID is nonzero.
type PlaySound struct {
	SoundID  uint16
	Position mathutil.Vec3
	EntityID uint8
	Looping  bool
}

func (p *PlaySound) TypeCode() TypeCode { return TypePlaySound }
func (p *PlaySound) Encode(w *codec.Writer) {
	w.WriteUint16(p.SoundID)
	w.WriteVec3(p.Position)
	w.WriteUint8(p.EntityID)
	if p.Looping {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}
func (p *PlaySound) Decode(r *codec.Reader) error {
	id, err := r.ReadUint16()
	if err != nil {
		return err
	}
	pos, err := r.ReadVec3()
	if err != nil {
		return err
	}
	entity, err := r.ReadUint8()
	if err != nil {
		return err
	}
	looping, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.SoundID, p.Position, p.EntityID, p.Looping = id, pos, entity, looping != 0
	return nil
}

// StopSound cancels a looping sound previously started by PlaySound.
type StopSound struct {
	SoundID uint16
}

func (p *StopSound) TypeCode() TypeCode { return TypeStopSound }
func (p *StopSound) Encode(w *codec.Writer) { w.WriteUint16(p.SoundID) }
func (p *StopSound) Decode(r *codec.Reader) error {
	id, err := r.ReadUint16()
	if err != nil {
		return err
	}
	p.SoundID = id
	return nil
}

// FogColor sets the client's ambient fog tint.
type FogColor struct {
	R, G, B uint8
}

func (p *FogColor) TypeCode() TypeCode { return TypeFogColor }
func (p *FogColor) Encode(w *codec.Writer) { w.WriteRGB(p.R, p.G, p.B) }
func (p *FogColor) Decode(r *codec.Reader) error {
	rr, g, b, err := r.ReadRGB()
	if err != nil {
		return err
	}
	p.R, p.G, p.B = rr, g, b
	return nil
}
