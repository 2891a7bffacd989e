// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package job provides a high-level API to simulate a batch of
// independent observations of the same scenario concurrently.
package job // import "github.com/go-daq/evsim/job"

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/go-daq/evsim"
	"github.com/go-daq/evsim/config"
	"github.com/go-daq/evsim/eventio"
	"github.com/go-daq/evsim/internal/iomux"
	"github.com/go-daq/evsim/log"
	"github.com/go-daq/evsim/scenario"
	"github.com/go-daq/evsim/stream"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Result is the outcome of the simulation of one observation.
type Result struct {
	ObsID  int64
	Seed   uint64
	N      int              // number of simulated events
	Events *evsim.EventList // nil unless the batch keeps event lists
	File   string           // FITS file the events were written to, if any
}

// Batch simulates NObs observations of a scenario.
// Observation i has obs_id Observation.ObsID+i and is sampled with the
// seed Sampler.Seed+i, so the batch output does not depend on the number
// of workers.
type Batch struct {
	Cfg config.Scenario

	// OnResult, if set, is called after each simulated observation.
	// Calls are serialized.
	OnResult func(Result)

	// Keep retains the event lists in the results.
	Keep bool

	stdout *iomux.Writer
	msg    log.MsgStream
}

// New creates a new batch of simulations.
//
// Nothing is simulated yet and the batch configuration can be further
// customized or modified.
func New(cfg config.Scenario, stdout io.Writer) *Batch {
	var w *iomux.Writer

	if stdout == nil {
		stdout = os.Stdout
	}

	switch stdout := stdout.(type) {
	case *iomux.Writer:
		w = stdout
	default:
		w = iomux.NewWriter(stdout)
	}

	return &Batch{
		Cfg:    cfg,
		stdout: w,
		msg:    log.NewMsgStream(cfg.Sampler.Name, cfg.Sampler.Level, w),
	}
}

// Run simulates all the observations of the batch.
// Results are returned in observation order.
func (b *Batch) Run(ctx context.Context) ([]Result, error) {
	var (
		nobs    = b.Cfg.Batch.NObs
		workers = b.Cfg.Batch.Workers
	)
	if nobs <= 0 {
		nobs = 1
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > nobs {
		workers = nobs
	}

	var snd *stream.Sender
	if ep := b.Cfg.Output.Stream; ep != "" {
		var err error
		snd, err = stream.Dial(ep)
		if err != nil {
			return nil, fmt.Errorf("could not dial event stream: %w", err)
		}
	}

	b.msg.Infof("simulating %d observations with %d workers...", nobs, workers)

	var (
		mu   sync.Mutex
		res  = make([]Result, nobs)
		idxc = make(chan int)
	)

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer close(idxc)
		for i := 0; i < nobs; i++ {
			select {
			case idxc <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		grp.Go(func() error {
			for i := range idxc {
				r, err := b.simulate(i, snd)
				if err != nil {
					return err
				}
				mu.Lock()
				if b.OnResult != nil {
					b.OnResult(r)
				}
				if !b.Keep {
					r.Events = nil
				}
				res[i] = r
				mu.Unlock()
			}
			return nil
		})
	}

	err := grp.Wait()
	if snd != nil {
		var e error
		if err != nil {
			e = snd.SendErr(err)
		}
		if e == nil {
			e = snd.Close()
		}
		if e != nil && err == nil {
			err = fmt.Errorf("could not close event stream: %w", e)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error while simulating observations: %w", err)
	}

	return res, nil
}

func (b *Batch) simulate(i int, snd *stream.Sender) (Result, error) {
	cfg := b.Cfg
	cfg.Observation.ObsID += int64(i)
	cfg.Sampler.Seed += uint64(i)

	r := Result{ObsID: cfg.Observation.ObsID, Seed: cfg.Sampler.Seed}

	ds, o, err := scenario.Build(cfg)
	if err != nil {
		return r, fmt.Errorf("could not build obs_id=%d: %w", r.ObsID, err)
	}

	name := fmt.Sprintf("%s-%d", cfg.Sampler.Name, r.ObsID)
	smp := evsim.New(cfg.Sampler, log.NewMsgStream(name, cfg.Sampler.Level, b.stdout))

	evts, err := smp.Run(ds, o)
	if err != nil {
		return r, fmt.Errorf("could not simulate obs_id=%d: %w", r.ObsID, err)
	}
	r.Events = evts
	r.N = evts.Len()

	if tmpl := cfg.Output.FITS; tmpl != "" {
		r.File = FileName(tmpl, r.ObsID)
		err = eventio.WriteFile(r.File, evts, ds.GTI)
		if err != nil {
			return r, fmt.Errorf("could not write obs_id=%d: %w", r.ObsID, err)
		}
	}

	if snd != nil {
		err = snd.Send(evts)
		if err != nil {
			return r, fmt.Errorf("could not stream obs_id=%d: %w", r.ObsID, err)
		}
	}

	return r, nil
}

// FileName replaces every "%d" of a file name template with the
// observation id. Other '%' characters are kept as is.
func FileName(tmpl string, obsID int64) string {
	return strings.Replace(tmpl, "%d", strconv.FormatInt(obsID, 10), -1)
}

// Summary describes the number of events simulated in a batch.
type Summary struct {
	NObs   int
	Total  int
	Mean   float64
	StdDev float64
	Min    int
	Max    int
}

// Summarize returns the event count statistics of a batch.
func Summarize(res []Result) Summary {
	var (
		sum Summary
		ns  = make([]float64, 0, len(res))
	)
	for i, r := range res {
		n := r.N
		ns = append(ns, float64(n))
		sum.Total += n
		if i == 0 || n < sum.Min {
			sum.Min = n
		}
		if i == 0 || n > sum.Max {
			sum.Max = n
		}
	}
	sum.NObs = len(ns)
	switch sum.NObs {
	case 0:
	case 1:
		sum.Mean = ns[0]
	default:
		sum.Mean, sum.StdDev = stat.MeanStdDev(ns, nil)
	}
	return sum
}

func (sum Summary) String() string {
	return fmt.Sprintf(
		"nobs=%d events=%d mean=%.2f stddev=%.2f min=%d max=%d",
		sum.NObs, sum.Total, sum.Mean, sum.StdDev, sum.Min, sum.Max,
	)
}
