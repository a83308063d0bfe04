// Package protocol defines the wire packet tagged union: one-byte
// type codes, the Packet interface every variant satisfies, and the
// dispatch registry that maps an inbound type code back to a decoder
// (§4.2, §6, §9 "packet tagged union").
package protocol

import (
	"fmt"

	"github.com/stormcoast/voxelwar/internal/codec"
)

// Version is the protocol version advertised during the handshake.
const Version = 3

// DisconnectReason mirrors the original engine's disconnect codes.
type DisconnectReason uint8

const (
	DisconnectUndefined     DisconnectReason = 0
	DisconnectBanned        DisconnectReason = 1
	DisconnectKicked        DisconnectReason = 2
	DisconnectWrongVersion  DisconnectReason = 3
	DisconnectServerFull    DisconnectReason = 4
)

// TypeCode identifies a packet variant on the wire.
type TypeCode uint8

const (
	TypePositionData        TypeCode = 0
	TypeOrientationData     TypeCode = 1
	TypeWorldUpdate         TypeCode = 2
	TypeMovement            TypeCode = 37
	TypeInputData           TypeCode = 3
	TypeWeaponInput         TypeCode = 4
	TypeHitPacket           TypeCode = 5
	TypeSetHP               TypeCode = 6
	TypeGrenadePacket        TypeCode = 7
	TypeSetTool             TypeCode = 8
	TypeSetColor            TypeCode = 9
	TypeExistingPlayer      TypeCode = 10
	TypeCreatePlayer        TypeCode = 11
	TypeBlockAction         TypeCode = 12
	TypeBlockLine           TypeCode = 13
	TypeStateData           TypeCode = 14
	TypeKillAction          TypeCode = 15
	TypeChatMessage         TypeCode = 16
	TypeMapStart            TypeCode = 17
	TypeMapChunk            TypeCode = 18
	TypePackStart           TypeCode = 19
	TypePackChunk           TypeCode = 20
	TypePackResponse        TypeCode = 21
	TypePlayerLeft          TypeCode = 22
	TypeProgressBar         TypeCode = 23
	TypeCreateEntity        TypeCode = 24
	TypeChangeEntity        TypeCode = 25
	TypeDestroyEntity       TypeCode = 26
	TypeRestock             TypeCode = 27
	TypeChangeWeapon        TypeCode = 28
	TypeChangeTeam          TypeCode = 29
	TypeWeaponReload        TypeCode = 30
	TypePlaySound           TypeCode = 31
	TypeStopSound           TypeCode = 32
	TypePlaceMG             TypeCode = 33
	TypeUseCommand          TypeCode = 34
	TypeFogColor            TypeCode = 35
	TypeSetScore            TypeCode = 36
)

// Packet is satisfied by every wire packet variant.
type Packet interface {
	TypeCode() TypeCode
	Encode(w *codec.Writer)
	Decode(r *codec.Reader) error
}

// Encode serializes p as [u8 type_code][payload].
func Encode(p Packet) []byte {
	w := codec.NewWriter()
	w.WriteUint8(uint8(p.TypeCode()))
	p.Encode(w)
	return w.Bytes()
}

// decoderFor constructs a zero-value Packet for a type code so Decode
// can dispatch into it. Unknown codes are a protocol violation (§7):
// the caller must disconnect the peer with DisconnectUndefined.
func decoderFor(t TypeCode) (Packet, error) {
	switch t {
	case TypePositionData:
		return &PositionData{}, nil
	case TypeOrientationData:
		return &OrientationData{}, nil
	case TypeMovement:
		return &PositionOrientationData{}, nil
	case TypeWorldUpdate:
		return &WorldUpdate{}, nil
	case TypeInputData:
		return &InputData{}, nil
	case TypeWeaponInput:
		return &WeaponInput{}, nil
	case TypeHitPacket:
		return &HitPacket{}, nil
	case TypeSetHP:
		return &SetHP{}, nil
	case TypeGrenadePacket:
		return &UseOrientedItem{}, nil
	case TypeSetTool:
		return &SetTool{}, nil
	case TypeSetColor:
		return &SetColor{}, nil
	case TypeExistingPlayer:
		return &ExistingPlayer{}, nil
	case TypeCreatePlayer:
		return &CreatePlayer{}, nil
	case TypeBlockAction:
		return &BlockAction{}, nil
	case TypeBlockLine:
		return &BlockLine{}, nil
	case TypeStateData:
		return &StateData{}, nil
	case TypeKillAction:
		return &KillAction{}, nil
	case TypeChatMessage:
		return &ChatMessage{}, nil
	case TypeMapStart:
		return &MapStart{}, nil
	case TypeMapChunk:
		return &MapChunk{}, nil
	case TypePackStart:
		return &PackStart{}, nil
	case TypePackChunk:
		return &PackChunk{}, nil
	case TypePackResponse:
		return &PackResponse{}, nil
	case TypePlayerLeft:
		return &PlayerLeft{}, nil
	case TypeProgressBar:
		return &ProgressBar{}, nil
	case TypeCreateEntity:
		return &CreateEntity{}, nil
	case TypeChangeEntity:
		return &ChangeEntity{}, nil
	case TypeDestroyEntity:
		return &DestroyEntity{}, nil
	case TypeRestock:
		return &Restock{}, nil
	case TypeChangeWeapon:
		return &ChangeWeapon{}, nil
	case TypeChangeTeam:
		return &ChangeTeam{}, nil
	case TypeWeaponReload:
		return &WeaponReload{}, nil
	case TypePlaySound:
		return &PlaySound{}, nil
	case TypeStopSound:
		return &StopSound{}, nil
	case TypePlaceMG:
		return &PlaceMG{}, nil
	case TypeUseCommand:
		return &UseCommand{}, nil
	case TypeFogColor:
		return &FogColor{}, nil
	case TypeSetScore:
		return &SetScore{}, nil
	default:
		return nil, fmt.Errorf("protocol: unknown type code %d", t)
	}
}

// Decode reads the type code from data and dispatches to the matching
// variant's Decode method.
func Decode(data []byte) (Packet, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("protocol: empty packet")
	}
	r := codec.NewReader(data[1:])
	t, _ := codec.NewReader(data[:1]).ReadUint8()
	p, err := decoderFor(TypeCode(t))
	if err != nil {
		return nil, err
	}
	if err := p.Decode(r); err != nil {
		return nil, err
	}
	return p, nil
}
