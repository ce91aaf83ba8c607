package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
)

const (
	collisionTypeCharacter cp.CollisionType = iota + 1
	collisionTypeGround
	collisionTypeSolid
)

const (
	// Gravity is in pixels per tick squared, screen space (Y down).
	Gravity           = 0.5
	groundGraceFrames = 3
	defaultBodySize   = 32
)

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	bodies       map[ecs.Entity]*bodyInfo
	groundShapes map[*cp.Shape]ecs.Entity
	contacts     map[ecs.Entity]bool
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:        newSpace(),
		bodies:       make(map[ecs.Entity]*bodyInfo),
		groundShapes: make(map[*cp.Shape]ecs.Entity),
		contacts:     make(map[ecs.Entity]bool),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: Gravity})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.ensureHandlers()
	ps.cleanup(w)
	ps.syncEntities(w)

	for e := range ps.contacts {
		delete(ps.contacts, e)
	}
	ps.space.Step(1.0)

	ps.syncTransforms(w)
	ps.flushGround(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	groundHandler := ps.space.NewCollisionHandler(collisionTypeGround, collisionTypeSolid)
	groundHandler.UserData = ps
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		e, ok := sys.groundShapes[shapeA]
		if !ok {
			if e, ok = sys.groundShapes[shapeB]; !ok {
				return true
			}
		}
		// the sensor only reaches below the feet, so any overlap is support
		sys.contacts[e] = true
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if _, ok := ps.bodies[e]; ok {
			return
		}
		info := ps.createBody(e, body, t, ecs.Has(w, e, component.GroundComponent.Kind()))
		ps.bodies[e] = info
		body.Body = info.body
		body.Shape = info.shapes[0]
		if g, ok := ecs.Get(w, e, component.GroundComponent.Kind()); ok && len(info.shapes) > 1 {
			g.SetSensor(info.shapes[1])
		}
	})
}

func (ps *PhysicsSystem) createBody(e ecs.Entity, bodyComp *component.PhysicsBody, t *component.Transform, ground bool) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = defaultBodySize, defaultBodySize
	}

	if bodyComp.Static {
		bb := cp.BB{L: t.X - width/2, B: t.Y - height/2, R: t.X + width/2, T: t.Y + height/2}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shapes: []*cp.Shape{shape}, static: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	// characters never rotate
	body := cp.NewBody(mass, cp.INFINITY)
	body.SetPosition(cp.Vector{X: t.X, Y: t.Y})

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetCollisionType(collisionTypeCharacter)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	info := &bodyInfo{body: body, shapes: []*cp.Shape{shape}}

	if ground {
		sensor := cp.NewBox2(body, cp.BB{
			L: -width * 0.45,
			B: height / 2.0,
			R: width * 0.45,
			T: height/2.0 + 2,
		}, 0)
		sensor.SetSensor(true)
		sensor.SetCollisionType(collisionTypeGround)
		ps.space.AddShape(sensor)
		ps.groundShapes[sensor] = e
		info.shapes = append(info.shapes, sensor)
	}
	return info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.PhysicsBody, t *component.Transform) {
		if body.Static || body.Body == nil {
			return
		}
		pos := body.Body.Position()
		t.X = pos.X
		t.Y = pos.Y
	})
}

// flushGround writes contact results into Ground components and tells the
// character's machine when support changes.
func (ps *PhysicsSystem) flushGround(w *ecs.World) {
	ecs.ForEach(w, component.GroundComponent.Kind(), func(e ecs.Entity, g *component.Ground) {
		if ps.contacts[e] {
			g.Grace = groundGraceFrames
		} else if g.Grace > 0 {
			g.Grace--
		}
		grounded := ps.contacts[e] || g.Grace > 0
		if grounded == g.Grounded {
			return
		}
		g.Grounded = grounded
		if m := machineFor(w, e); m != nil {
			m.NotifyGroundedStateChanged(grounded)
		}
	})
}

// ClearGroundGrace drops any remaining coyote frames, used when a jump starts.
func ClearGroundGrace(w *ecs.World, e ecs.Entity) {
	if g, ok := ecs.Get(w, e, component.GroundComponent.Kind()); ok {
		g.Grace = 0
	}
}

func (ps *PhysicsSystem) cleanup(w *ecs.World) {
	for e, info := range ps.bodies {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		for _, shape := range info.shapes {
			ps.space.RemoveShape(shape)
			delete(ps.groundShapes, shape)
		}
		if !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.bodies, e)
	}
}
