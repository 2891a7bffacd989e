// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sampling provides inverse-transform sampling of discrete
// distributions.
package sampling // import "github.com/go-daq/evsim/sampling"

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoWeight = xerrors.New("sampling: distribution has no positive weight")
)

// InverseCDF draws indices of a discrete distribution, with probabilities
// proportional to the provided weights.
type InverseCDF struct {
	cdf []float64
}

// NewInverseCDF creates a sampler for the weights w, in their natural order.
// Non-finite and negative weights are treated as zero.
func NewInverseCDF(w []float64) (*InverseCDF, error) {
	cdf := make([]float64, len(w))
	for i, v := range w {
		if v > 0 && !math.IsInf(v, 0) {
			cdf[i] = v
		}
	}
	floats.CumSum(cdf, cdf)
	if len(cdf) == 0 || !(cdf[len(cdf)-1] > 0) {
		return nil, ErrNoWeight
	}
	floats.Scale(1/cdf[len(cdf)-1], cdf)
	return &InverseCDF{cdf: cdf}, nil
}

// Len returns the number of bins of the distribution.
func (inv *InverseCDF) Len() int { return len(inv.cdf) }

// Index returns the bin corresponding to the uniform deviate u in [0, 1).
// Bins with a zero weight are never selected.
func (inv *InverseCDF) Index(u float64) int {
	n := len(inv.cdf)
	i := sort.Search(n, func(i int) bool { return inv.cdf[i] > u })
	if i >= n {
		// u is beyond the last cumulative value because of rounding:
		// pick the last bin with a positive weight.
		i = n - 1
		for i > 0 && inv.cdf[i] == inv.cdf[i-1] {
			i--
		}
	}
	return i
}

// Sample draws one bin index.
func (inv *InverseCDF) Sample(rnd *rand.Rand) int {
	return inv.Index(rnd.Float64())
}
