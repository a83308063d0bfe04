package protocol

import (
	"github.com/stormcoast/voxelwar/internal/codec"
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// EntityKind enumerates the server-owned collidable object types
// (§3, §4.7), including the helicopter and mounted machine-gun
// expansion.
type EntityKind uint8

const (
	EntityFlag       EntityKind = 0
	EntityBase       EntityKind = 1
	EntityHelicopter EntityKind = 2
	EntityAmmoCrate  EntityKind = 3
	EntityHealthCrate EntityKind = 4
	EntityMachineGun EntityKind = 5
)

// ChangeEntityField selects which field ChangeEntity is updating, so a
// single packet shape covers all three mutators (§6).
type ChangeEntityField uint8

const (
	ChangeSetState    ChangeEntityField = 0
	ChangeSetPosition ChangeEntityField = 1
	ChangeSetCarrier  ChangeEntityField = 2
)

// CreateEntity announces a new entity to every peer.
type CreateEntity struct {
	EntityID uint8
	Kind     EntityKind
	Team     int8
	Position mathutil.Vec3
}

func (p *CreateEntity) TypeCode() TypeCode { return TypeCreateEntity }
func (p *CreateEntity) Encode(w *codec.Writer) {
	w.WriteUint8(p.EntityID)
	w.WriteUint8(uint8(p.Kind))
	w.WriteInt8(p.Team)
	w.WriteVec3(p.Position)
}
func (p *CreateEntity) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	kind, err := r.ReadUint8()
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
	p.EntityID, p.Kind, p.Team, p.Position = id, EntityKind(kind), team, pos
	return nil
}

// ChangeEntity updates one field of an existing entity: its carried
// state byte, its position, or its carrier player id (§3, §6).
type ChangeEntity struct {
	EntityID  uint8
	Field     ChangeEntityField
	State     uint8
	Position  mathutil.Vec3
	CarrierID uint8
	HasCarrier bool
}

func (p *ChangeEntity) TypeCode() TypeCode { return TypeChangeEntity }
func (p *ChangeEntity) Encode(w *codec.Writer) {
	w.WriteUint8(p.EntityID)
	w.WriteUint8(uint8(p.Field))
	switch p.Field {
	case ChangeSetState:
		w.WriteUint8(p.State)
	case ChangeSetPosition:
		w.WriteVec3(p.Position)
	case ChangeSetCarrier:
		w.WriteUint8(p.CarrierID)
		if p.HasCarrier {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}
	}
}
func (p *ChangeEntity) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	field, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.EntityID, p.Field = id, ChangeEntityField(field)
	switch p.Field {
	case ChangeSetState:
		s, err := r.ReadUint8()
		if err != nil {
			return err
		}
		p.State = s
	case ChangeSetPosition:
		pos, err := r.ReadVec3()
		if err != nil {
			return err
		}
		p.Position = pos
	case ChangeSetCarrier:
		carrier, err := r.ReadUint8()
		if err != nil {
			return err
		}
		has, err := r.ReadUint8()
		if err != nil {
			return err
		}
		p.CarrierID, p.HasCarrier = carrier, has != 0
	}
	return nil
}

// DestroyEntity removes an entity from every peer's world. Idempotent:
// destroying an already-destroyed entity is a no-op at the caller.
type DestroyEntity struct {
	EntityID uint8
}

func (p *DestroyEntity) TypeCode() TypeCode { return TypeDestroyEntity }
func (p *DestroyEntity) Encode(w *codec.Writer) { w.WriteUint8(p.EntityID) }
func (p *DestroyEntity) Decode(r *codec.Reader) error {
	id, err := r.ReadUint8()
	if err != nil {
		return err
	}
	p.EntityID = id
	return nil
}

// PlaceMG requests mounting a machine gun entity at a build point
// (§4.4, §4.7 expansion).
type PlaceMG struct {
	PlayerID uint8
	X, Y, Z  int32
	Yaw      float32
}

func (p *PlaceMG) TypeCode() TypeCode { return TypePlaceMG }
func (p *PlaceMG) Encode(w *codec.Writer) {
	w.WriteUint8(p.PlayerID)
	w.WriteInt32(p.X)
	w.WriteInt32(p.Y)
	w.WriteInt32(p.Z)
	w.WriteFloat32(p.Yaw)
}
func (p *PlaceMG) Decode(r *codec.Reader) error {
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
	yaw, err := r.ReadFloat32()
	if err != nil {
		return err
	}
	p.PlayerID, p.X, p.Y, p.Z, p.Yaw = id, x, y, z, yaw
	return nil
}
