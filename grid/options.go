// SPDX-License-Identifier: MIT

// Package grid: functional configuration for Dense construction and the
// padding operators.
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - Safe by construction: option constructors panic only on nonsensical values
//     (programmer error); runtime problems surface as sentinel errors.
package grid

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles finite-value validation in Set/Add/Apply.
	DefaultValidateNaNInf = true

	// DefaultWorkers selects GOMAXPROCS workers for Expand/Window.
	DefaultWorkers = 0
)

const panicWorkersInvalid = "grid: WithWorkers: workers must be >= 0"

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
	workers        int  // DefaultWorkers; 0 = GOMAXPROCS
}

// WithValidateNaNInf enables strict finite-value validation (the default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables finite-value validation. Pressure fields that
// may legitimately blow up (unstable runs under investigation) use this so the
// caller can inspect the state instead of getting ErrNaNInf.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithWorkers bounds the goroutines used by Expand and Window.
// Zero means GOMAXPROCS; negative values panic.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// gatherOptions resolves user options over the documented defaults.
// Last writer wins.
func gatherOptions(user ...Option) Options {
	o := Options{
		validateNaNInf: DefaultValidateNaNInf,
		workers:        DefaultWorkers,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
