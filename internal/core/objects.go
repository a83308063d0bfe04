package core

import (
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/mathutil"
	"github.com/stormcoast/voxelwar/internal/physics"
	"github.com/stormcoast/voxelwar/internal/protocol"
)

// objectKind distinguishes the two transient projectile types (§3
// "Object (transient): grenade, rocket").
type objectKind uint8

const (
	objectGrenade objectKind = iota
	objectRocket
)

// object is a self-destroying world projectile, owned by the object
// list rather than the entity table (§3: entities are create/destroy
// wire objects; objects are server-internal physics bodies that never
// get their own id or ChangeEntity replication).
type object struct {
	kind     objectKind
	owner    uint8
	grenade  *physics.GrenadeBody
	rocket   *physics.Rocket
	fuseAt   float64
	dead     bool
}

// ThrowGrenade validates and creates a grenade object from a client's
// UseOrientedItem (§4.4 "Grenade throw / rocket fire", §4.5).
func (s *Server) ThrowGrenade(p *conn.Player, pos, vel mathutil.Vec3) {
	if !pos.Finite() || !vel.Finite() {
		return
	}
	if p.Body.Position.DistanceSq(pos) > 9 {
		pos = p.Body.Position
	}
	s.objects = append(s.objects, &object{
		kind:    objectGrenade,
		owner:   p.ID,
		grenade: physics.NewGrenadeBody(pos, vel),
		fuseAt:  s.time + 3.0,
	})
}

// FireRocket validates and creates a rocket object from the RPG tool.
func (s *Server) FireRocket(p *conn.Player, pos, orientation mathutil.Vec3) {
	if !pos.Finite() || !orientation.Finite() {
		return
	}
	if p.Body.Position.DistanceSq(pos) > 9 {
		pos = p.Body.Position
	}
	s.objects = append(s.objects, &object{
		kind:   objectRocket,
		owner:  p.ID,
		rocket: physics.NewRocket(pos, orientation),
	})
}

// stepObjects advances every live grenade and rocket one tick,
// detonating any that expire or collide (§4.5).
func (s *Server) stepObjects(dt float64) {
	live := s.objects[:0]
	for _, o := range s.objects {
		switch o.kind {
		case objectGrenade:
			s.stepGrenade(o, dt)
		case objectRocket:
			s.stepRocket(o, dt)
		}
		if !o.dead {
			live = append(live, o)
		}
	}
	s.objects = live
}

func (s *Server) stepGrenade(o *object, dt float64) {
	o.grenade.Step(s.Map, dt)
	if s.time >= o.fuseAt {
		s.explode(o.grenade.Position, int32(o.owner))
		o.dead = true
	}
}

func (s *Server) stepRocket(o *object, dt float64) {
	hit := o.rocket.Step(s.Map, dt)
	if hit {
		s.explode(o.rocket.Position, int32(o.owner))
		o.dead = true
	}
}

// explode implements the shared explosion routine (§4.5): destroys a
// 3x3x3 voxel cube, then damages every living player with clear line
// of sight within blast radius. damagerID is -1 for Bomb Defusal's
// round-timer detonation, which has no single thrower.
func (s *Server) explode(center mathutil.Vec3, damagerID int32) {
	cx, cy, cz := int32(center.X), int32(center.Y), int32(center.Z)
	var destroyed []struct{ x, y, z int32 }
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				x, y, z := cx+dx, cy+dy, cz+dz
				if solid, _ := s.Map.Get(x, y, z); solid {
					s.Map.DestroyPoint(x, y, z)
					destroyed = append(destroyed, struct{ x, y, z int32 }{x, y, z})
				}
			}
		}
	}
	for _, d := range destroyed {
		s.host.BroadcastReliable(&protocol.BlockAction{X: d.x, Y: d.y, Z: d.z, Action: protocol.ActionGrenade}, nil)
	}

	for _, p := range s.Players.All() {
		if !p.Alive() {
			continue
		}
		dmg, inRange := physics.BlastDamage(center, p.Body.Position)
		if !inRange {
			continue
		}
		if !mathutil.LineOfSight(s.Map, p.Body.Position, center) {
			continue
		}
		s.applyDamage(p, dmg, damagerID, conn.KillGrenade, center)
	}
}
