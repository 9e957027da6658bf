package client

import (
	"github.com/tomz197/skyraid/internal/input"
	"github.com/tomz197/skyraid/internal/loop/sim"
)

// binding maps a held input flag to a simulation key.
type binding struct {
	key  sim.Key
	held func(input.Input) bool
}

var bindings = [...]binding{
	{sim.KeyLeft, func(in input.Input) bool { return in.Left }},
	{sim.KeyRight, func(in input.Input) bool { return in.Right }},
	{sim.KeyBoost, func(in input.Input) bool { return in.Boost }},
	{sim.KeyLight, func(in input.Input) bool { return in.Light }},
	{sim.KeyHeavy, func(in input.Input) bool { return in.Heavy }},
	{sim.KeyConfirm, func(in input.Input) bool { return in.Confirm }},
	{sim.KeyPause, func(in input.Input) bool { return in.Pause }},
	{sim.KeyRestart, func(in input.Input) bool { return in.Restart }},
	{sim.KeyQuit, func(in input.Input) bool { return in.Quit }},
}

// edges appends a press or release event for every binding whose held state
// differs between prev and cur.
func edges(prev, cur input.Input, dst []sim.Event) []sim.Event {
	for _, b := range bindings {
		was, is := b.held(prev), b.held(cur)
		if was != is {
			dst = append(dst, sim.Event{Key: b.key, Pressed: is})
		}
	}
	return dst
}

// pressed reports a false-to-true transition of one flag.
func pressed(prev, cur input.Input, held func(input.Input) bool) bool {
	return held(cur) && !held(prev)
}

// numberPressed returns a newly pressed digit, or -1.
func numberPressed(prev, cur input.Input) int {
	if cur.Number >= 0 && cur.Number != prev.Number {
		return cur.Number
	}
	return -1
}
