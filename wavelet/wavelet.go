// SPDX-License-Identifier: MIT

// Package wavelet builds the discrete source excitation of the modeling loop.
//
// Ricker(nt, dt, fm) samples the zero-phase Ricker pulse
//
//	a(t) = (π·fm·(t - 1/fm))²
//	w(t) = (1 - 2a)·exp(-a)
//
// at t = it·dt for it = 0..nt-1. The pulse is centred at t = 1/fm and its
// amplitude spectrum peaks at fm. Output is a pure function of (nt, dt, fm).
package wavelet

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// ErrBadInput indicates a non-positive or non-finite nt, dt or fm.
var ErrBadInput = errors.New("wavelet: nt, dt and fm must be positive and finite")

func validate(nt int, dt, fm float64) error {
	switch {
	case nt <= 0:
		return fmt.Errorf("nt=%d: %w", nt, ErrBadInput)
	case !(dt > 0) || math.IsInf(dt, 0):
		return fmt.Errorf("dt=%g: %w", dt, ErrBadInput)
	case !(fm > 0) || math.IsInf(fm, 0):
		return fmt.Errorf("fm=%g: %w", fm, ErrBadInput)
	}

	return nil
}

// Ricker returns nt samples of the Ricker pulse with peak frequency fm (Hz)
// sampled every dt seconds.
func Ricker(nt int, dt, fm float64) ([]float64, error) {
	if err := validate(nt, dt, fm); err != nil {
		return nil, err
	}
	w := make([]float64, nt)
	for it := range w {
		a := math.Pi * fm * (float64(it)*dt - 1.0/fm)
		a *= a
		w[it] = (1.0 - 2.0*a) * math.Exp(-a)
	}

	return w, nil
}

// TimeAxis returns the nt sample times 0, dt, …, (nt-1)·dt.
func TimeAxis(nt int, dt float64) []float64 {
	if nt <= 0 {
		return nil
	}
	if nt == 1 {
		return []float64{0}
	}

	return floats.Span(make([]float64, nt), 0, float64(nt-1)*dt)
}

// PeakFrequency returns the frequency (Hz) of the largest amplitude bin of the
// real FFT of w sampled every dt seconds. The DC bin is skipped so a biased
// trace still reports its oscillation frequency.
func PeakFrequency(w []float64, dt float64) (float64, error) {
	if len(w) < 2 || !(dt > 0) {
		return 0, fmt.Errorf("PeakFrequency: len=%d dt=%g: %w", len(w), dt, ErrBadInput)
	}
	fft := fourier.NewFFT(len(w))
	coeff := fft.Coefficients(nil, w)
	best, bestAmp := 1, -1.0
	for i := 1; i < len(coeff); i++ {
		if amp := cmplx.Abs(coeff[i]); amp > bestAmp {
			best, bestAmp = i, amp
		}
	}

	return fft.Freq(best) / dt, nil
}
