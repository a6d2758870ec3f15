// SPDX-License-Identifier: MIT

package fdtd

import (
	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/katalvlaran/acoustic2d/stencil"
)

const (
	panicNilObserver = "fdtd: WithObserver: observer must not be nil"
	panicNilFactory  = "fdtd: WithPropagator: factory must not be nil"
)

// Propagator advances out from the t-1 to the t+1 level given the t level in.
// *stencil.Stepper and *stencil.OpenCLStepper implement it.
type Propagator interface {
	Step(out, in *grid.Dense) error
}

// PropagatorFactory builds a Propagator for the padded (v·dt)² grid.
type PropagatorFactory func(coef stencil.Coefficients, vel *grid.Dense, workers int) (Propagator, error)

// Observer is notified after every completed step with the newest time level
// (padded extent). The field must not be retained or modified.
type Observer interface {
	OnStep(it int, field *grid.Dense) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(it int, field *grid.Dense) error

// OnStep calls f(it, field).
func (f ObserverFunc) OnStep(it int, field *grid.Dense) error { return f(it, field) }

// Option configures NewModel.
type Option func(*modelOptions)

type modelOptions struct {
	observers []Observer
	factory   PropagatorFactory
}

// WithObserver appends an Observer; observers run in registration order.
func WithObserver(o Observer) Option {
	if o == nil {
		panic(panicNilObserver)
	}

	return func(m *modelOptions) { m.observers = append(m.observers, o) }
}

// WithPropagator replaces the CPU stencil with the Propagator built by f.
func WithPropagator(f PropagatorFactory) Option {
	if f == nil {
		panic(panicNilFactory)
	}

	return func(m *modelOptions) { m.factory = f }
}

// CPUPropagator is the default PropagatorFactory.
func CPUPropagator(coef stencil.Coefficients, vel *grid.Dense, workers int) (Propagator, error) {
	s, err := stencil.NewStepper(coef, vel, stencil.WithWorkers(workers))
	if err != nil {
		return nil, err
	}

	return s, nil
}

func gatherOptions(user ...Option) modelOptions {
	o := modelOptions{factory: CPUPropagator}
	for _, set := range user {
		set(&o)
	}

	return o
}
