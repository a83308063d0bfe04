package protocol

import (
	"reflect"
	"testing"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// roundTrip encodes p, decodes the result, and returns the decoded
// packet for structural comparison (§8: "encoding any packet then
// decoding yields structural equality").
func roundTrip(t *testing.T, p Packet) Packet {
	t.Helper()
	data := Encode(p)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func TestRoundTripHitPacket(t *testing.T) {
	p := &HitPacket{VictimID: 7, Zone: HitHead}
	got := roundTrip(t, p)
	if !reflect.DeepEqual(p, got) {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestRoundTripCreatePlayer(t *testing.T) {
	p := &CreatePlayer{
		PlayerID: 3,
		Weapon:   1,
		Team:     0,
		Position: mathutil.Vec3{X: 10, Y: 20, Z: 30},
		Name:     "Deuce",
	}
	got := roundTrip(t, p)
	if !reflect.DeepEqual(p, got) {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestRoundTripWorldUpdate(t *testing.T) {
	p := &WorldUpdate{Players: []PlayerSnapshot{
		{PlayerID: 1, Position: mathutil.Vec3{X: 1}, Orientation: mathutil.Vec3{X: 1}},
		{PlayerID: 2, Position: mathutil.Vec3{Y: 2}, Orientation: mathutil.Vec3{Y: 1}},
	}}
	got := roundTrip(t, p)
	if !reflect.DeepEqual(p, got) {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestRoundTripBlockLine(t *testing.T) {
	p := &BlockLine{PlayerID: 4, X1: 1, Y1: 2, Z1: 3, X2: 4, Y2: 5, Z2: 6}
	got := roundTrip(t, p)
	if !reflect.DeepEqual(p, got) {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestRoundTripChangeEntitySetCarrier(t *testing.T) {
	p := &ChangeEntity{EntityID: 2, Field: ChangeSetCarrier, CarrierID: 9, HasCarrier: true}
	got := roundTrip(t, p)
	if !reflect.DeepEqual(p, got) {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestDecodeUnknownTypeCode(t *testing.T) {
	if _, err := Decode([]byte{0xFE}); err == nil {
		t.Fatalf("expected error for unknown type code")
	}
}

func TestDecodeEmptyPacket(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatalf("expected error for empty packet")
	}
}
