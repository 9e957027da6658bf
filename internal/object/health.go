package object

// Health tracks hit points for anything that can be destroyed by damage.
// Current may drop below zero; an entity is alive while Current > 0.
type Health struct {
	Current float64
	Max     float64
}

// NewHealth returns full health with the given maximum.
func NewHealth(max float64) Health {
	return Health{Current: max, Max: max}
}

// ApplyDamage subtracts amount and reports whether the owner is still alive.
func (h *Health) ApplyDamage(amount float64) bool {
	h.Current -= amount
	return h.Current > 0
}

// Reset restores current health to the maximum.
func (h *Health) Reset() {
	h.Current = h.Max
}

// Alive reports whether current health is strictly positive.
func (h Health) Alive() bool {
	return h.Current > 0
}

// Damaged reports whether any health has been lost.
func (h Health) Damaged() bool {
	return h.Current < h.Max
}

// Fraction returns current/max clamped to [0, 1], for HP bars.
func (h Health) Fraction() float64 {
	if h.Max <= 0 || h.Current <= 0 {
		return 0
	}
	if h.Current >= h.Max {
		return 1
	}
	return h.Current / h.Max
}
