package component

type Health struct {
	Current int
	Max     int
	// StunFrames counts down while the entity is reeling from a hit.
	StunFrames int
}

var HealthComponent = NewComponent[Health]()

func (h *Health) Alive() bool {
	return h.Current > 0
}

// DamageRequest is a one-shot component consumed by the damage system.
type DamageRequest struct {
	Amount     int
	StunFrames int
}

var DamageRequestComponent = NewComponent[DamageRequest]()
