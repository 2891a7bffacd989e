// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command evsim simulates the event list of a single observation and
// writes it to a FITS file or sends it to an event stream.
//
// Usage: evsim [options]
//
// ex:
//
//	$> evsim -cfg scenario.yaml -o events.fits
//	$> EVSIM_SAMPLER__SEED=42 evsim -stream tcp://127.0.0.1:4000
package main

import (
	"flag"
	"os"

	"github.com/go-daq/evsim"
	"github.com/go-daq/evsim/eventio"
	"github.com/go-daq/evsim/flags"
	"github.com/go-daq/evsim/job"
	"github.com/go-daq/evsim/log"
	"github.com/go-daq/evsim/scenario"
	"github.com/go-daq/evsim/stream"
)

func main() {

	var (
		oname = flag.String("o", "", "path of the output FITS file (overrides the scenario)")
		addr  = flag.String("stream", "", "address of an event stream listener (overrides the scenario)")
	)

	cfg := flags.New()
	if *oname != "" {
		cfg.Output.FITS = *oname
	}
	if *addr != "" {
		cfg.Output.Stream = *addr
	}

	msg := log.NewMsgStream(cfg.Sampler.Name, cfg.Sampler.Level, os.Stdout)

	ds, o, err := scenario.Build(cfg)
	if err != nil {
		log.Fatalf("could not build scenario: %+v", err)
	}

	smp := evsim.New(cfg.Sampler, msg)
	evts, err := smp.Run(ds, o)
	if err != nil {
		log.Fatalf("could not simulate events: %+v", err)
	}

	if cfg.Output.FITS == "" && cfg.Output.Stream == "" {
		msg.Warnf("no output configured: %d simulated events discarded", evts.Len())
		return
	}

	if cfg.Output.FITS != "" {
		fname := job.FileName(cfg.Output.FITS, o.ObsID)
		err = eventio.WriteFile(fname, evts, ds.GTI)
		if err != nil {
			log.Fatalf("could not write events: %+v", err)
		}
		msg.Infof("wrote %d events to %q", evts.Len(), fname)
	}

	if cfg.Output.Stream != "" {
		snd, err := stream.Dial(cfg.Output.Stream)
		if err != nil {
			log.Fatalf("could not dial event stream: %+v", err)
		}
		err = snd.Send(evts)
		if err != nil {
			log.Fatalf("could not send events: %+v", err)
		}
		err = snd.Close()
		if err != nil {
			log.Fatalf("could not close event stream: %+v", err)
		}
		msg.Infof("sent %d events to %q", evts.Len(), cfg.Output.Stream)
	}
}
