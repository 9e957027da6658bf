package sim

// AbilityTracker banks charges earned from score milestones and runs the
// timed heavy-fire window. Remaining counts bullet ticks.
type AbilityTracker struct {
	Charges   int
	Active    bool
	Remaining int
	Duration  int // Window length in bullet ticks
}

// NewAbilityTracker returns an idle tracker with no charges.
func NewAbilityTracker(duration int) AbilityTracker {
	return AbilityTracker{Duration: duration}
}

// Grant banks one charge.
func (a *AbilityTracker) Grant() {
	a.Charges++
}

// Engage reports whether heavy fire is allowed now. An idle tracker with a
// banked charge consumes exactly one and opens the window; an open window
// allows heavy fire without consuming anything.
func (a *AbilityTracker) Engage() bool {
	if a.Active {
		return true
	}
	if a.Charges <= 0 {
		return false
	}
	a.Charges--
	a.Active = true
	a.Remaining = a.Duration
	return true
}

// Tick counts down an open window, closing it at zero.
func (a *AbilityTracker) Tick() {
	if !a.Active {
		return
	}
	a.Remaining--
	if a.Remaining <= 0 {
		a.Remaining = 0
		a.Active = false
	}
}

// Reset drops all charges and closes the window.
func (a *AbilityTracker) Reset() {
	a.Charges = 0
	a.Active = false
	a.Remaining = 0
}
