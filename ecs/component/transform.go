package component

// Transform is the world position of an entity's center.
type Transform struct {
	X      float64
	Y      float64
	Facing float64
}

var TransformComponent = NewComponent[Transform]()
