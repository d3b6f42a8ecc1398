// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package build

import "fmt"

// State is the phase of a Builder.
type State uint8

const (
	Idle State = iota
	PreparingPermutations
	GeneratingPerVariant
	EmittingChunks
	Done
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PreparingPermutations:
		return "preparing"
	case GeneratingPerVariant:
		return "generating"
	case EmittingChunks:
		return "emitting"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var transitions = map[State][]State{
	Idle:                  {PreparingPermutations},
	PreparingPermutations: {GeneratingPerVariant, Failed},
	GeneratingPerVariant:  {EmittingChunks, Failed},
	EmittingChunks:        {Done, Failed},
}

func (b *Builder) transition(to State) error {
	for _, next := range transitions[b.state] {
		if next == to {
			b.log.Debug("state", "from", b.state, "to", to)
			b.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrState, b.state, to)
}

// fail moves to Failed and returns err.
func (b *Builder) fail(err error) error {
	if b.state != Done && b.state != Failed {
		b.state = Failed
	}
	return err
}
