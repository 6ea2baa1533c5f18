package simulation

import "github.com/sorbentlab/breakthrough/internal/column"

// Observer receives committed frames from the driver. WriteFrame is called
// every WriteEvery steps with the just-committed state; observer failures
// are logged and never abort the run.
type Observer interface {
	WriteFrame(g *column.GridDescriptor, s *column.State, step int, t float64) error
}

// NopObserver discards every frame. Useful for tests that only care about
// the final state.
type NopObserver struct{}

func (NopObserver) WriteFrame(*column.GridDescriptor, *column.State, int, float64) error { return nil }
