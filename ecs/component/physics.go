package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are created lazily by the physics system.
type PhysicsBody struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Width    float64
	Height   float64
	Mass     float64
	Friction float64
	Static   bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// Ground tracks support under a dynamic body. Grace keeps Grounded true for a
// few frames after contact ends so a single missed contact does not flicker.
type Ground struct {
	Grounded bool
	Grace    int
	sensor   *cp.Shape
}

var GroundComponent = NewComponent[Ground]()

func (g *Ground) Sensor() *cp.Shape { return g.sensor }

func (g *Ground) SetSensor(s *cp.Shape) { g.sensor = s }
