// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package evsim simulates lists of detected gamma-ray events from sky
// models, exposure, background and instrument responses.
//
// A Sampler owns a seedable random number generator: for a given seed
// and a given sequence of calls, the simulated events are reproducible.
package evsim // import "github.com/go-daq/evsim"

import (
	"github.com/go-daq/evsim/config"
	"github.com/go-daq/evsim/log"
	"golang.org/x/exp/rand"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrCapability is returned when a model lacks a capability an
	// operation requires.
	ErrCapability = xerrors.New("evsim: model lacks a required capability")
)

// Sampler draws simulated events.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	Cfg config.Sampler
	Msg log.MsgStream

	rnd *rand.Rand
}

// New creates a sampler seeded with cfg.Seed.
// A nil msg discards all messages.
func New(cfg config.Sampler, msg log.MsgStream) *Sampler {
	if msg == nil {
		msg = log.Discard
	}
	if cfg.TDelta <= 0 {
		cfg.TDelta = 1
	}
	return &Sampler{
		Cfg: cfg,
		Msg: msg,
		rnd: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Rand returns the random number generator of the sampler.
func (s *Sampler) Rand() *rand.Rand { return s.rnd }

func (s *Sampler) poisson(mu float64) int {
	if !(mu > 0) {
		return 0
	}
	return int(distuv.Poisson{Lambda: mu, Src: s.rnd}.Rand())
}
