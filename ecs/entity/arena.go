package entity

import (
	"fmt"

	"github.com/milk9111/charfsm/ecs"
	"github.com/milk9111/charfsm/ecs/component"
	"github.com/milk9111/charfsm/prefabs"
)

// BuildArena adds one static platform entity per platform in the spec.
func BuildArena(w *ecs.World, spec prefabs.ArenaSpec) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(spec.Platforms))
	for i, p := range spec.Platforms {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: p.X, Y: p.Y}); err != nil {
			return out, fmt.Errorf("arena: platform %d: %w", i, err)
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Width:    p.Width,
			Height:   p.Height,
			Friction: 0.8,
			Static:   true,
		}); err != nil {
			return out, fmt.Errorf("arena: platform %d: %w", i, err)
		}
		if err := ecs.Add(w, e, component.PlatformTagComponent.Kind(), &component.PlatformTag{}); err != nil {
			return out, fmt.Errorf("arena: platform %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
