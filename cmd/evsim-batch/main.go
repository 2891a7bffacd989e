// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command evsim-batch simulates a batch of independent observations of
// the same scenario, concurrently.
//
// Observation i of the batch is sampled with seed+i and gets the
// observation id obs_id+i.
//
// ex:
//
//	$> evsim-batch -cfg scenario.yaml -n 100 -o ./out/obs-%d.fits
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/go-daq/evsim/flags"
	"github.com/go-daq/evsim/job"
	"github.com/go-daq/evsim/log"
	"github.com/schollz/progressbar/v3"
)

func main() {

	var (
		nobs    = flag.Int("n", 0, "number of observations (overrides the scenario)")
		workers = flag.Int("j", 0, "number of concurrent samplers (overrides the scenario)")
		oname   = flag.String("o", "", "output FITS file name template, with a %d verb for the obs_id")
		addr    = flag.String("stream", "", "address of an event stream listener")
		quiet   = flag.Bool("q", false, "disable the progress bar")
	)

	cfg := flags.New()
	if *nobs > 0 {
		cfg.Batch.NObs = *nobs
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *oname != "" {
		cfg.Output.FITS = *oname
	}
	if *addr != "" {
		cfg.Output.Stream = *addr
	}
	if cfg.Batch.NObs <= 0 {
		cfg.Batch.NObs = 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	msg := log.NewMsgStream(cfg.Sampler.Name, cfg.Sampler.Level, os.Stderr)

	b := job.New(cfg, os.Stderr)
	if !*quiet {
		bar := progressbar.NewOptions(cfg.Batch.NObs,
			progressbar.OptionSetDescription("simulating"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetWriter(os.Stdout),
		)
		defer bar.Finish()
		b.OnResult = func(job.Result) { _ = bar.Add(1) }
	}

	start := time.Now()
	res, err := b.Run(ctx)
	if err != nil {
		log.Fatalf("could not run batch: %+v", err)
	}

	msg.Infof("batch done in %v: %v", time.Since(start).Round(time.Millisecond), job.Summarize(res))
}
