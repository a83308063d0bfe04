package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

func TestTableSpawnAndRemoveReturnsIDToPool(t *testing.T) {
	tbl := NewTable(2)

	a, err := tbl.Spawn(KindFlag, mathutil.Vec3{})
	require.NoError(t, err)
	b, err := tbl.Spawn(KindFlag, mathutil.Vec3{})
	require.NoError(t, err)
	_, err = tbl.Spawn(KindFlag, mathutil.Vec3{})
	require.Error(t, err, "expected spawn to fail once capacity is exhausted")

	tbl.Remove(a.ID)
	c, err := tbl.Spawn(KindFlag, mathutil.Vec3{})
	require.NoError(t, err, "expected the freed id to be reusable")
	require.Equal(t, a.ID, c.ID, "expected the freed id to be reused")
	require.NotNil(t, tbl.Get(b.ID), "expected b to remain registered")
}

func TestTableRemoveIsIdempotent(t *testing.T) {
	tbl := NewTable(1)
	e, err := tbl.Spawn(KindFlag, mathutil.Vec3{})
	require.NoError(t, err)
	tbl.Remove(e.ID)
	tbl.Remove(e.ID)
	require.Nil(t, tbl.Get(e.ID), "expected entity to stay removed")
}

func TestClearCarrierReleasesMatchingEntities(t *testing.T) {
	tbl := NewTable(2)
	flag, err := tbl.Spawn(KindFlag, mathutil.Vec3{})
	require.NoError(t, err)
	flag.SetCarrier(5)

	other, err := tbl.Spawn(KindFlag, mathutil.Vec3{})
	require.NoError(t, err)
	other.SetCarrier(9)

	tbl.ClearCarrier(5)

	require.Equal(t, int32(-1), flag.CarrierID, "expected carrier 5's entity to be released")
	require.Equal(t, int32(9), other.CarrierID, "expected unrelated carrier to be untouched")
}
