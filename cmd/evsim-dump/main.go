// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command evsim-dump listens for simulated event lists and dumps them on
// screen.
//
// ex:
//
//	$> evsim-dump -addr tcp://127.0.0.1:4000 -n 5
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-daq/evsim"
	"github.com/go-daq/evsim/log"
	"github.com/go-daq/evsim/stream"
)

func main() {

	var (
		addr = flag.String("addr", "tcp://127.0.0.1:4000", "address to listen on")
		nevt = flag.Int("n", 10, "maximum number of events to display per event list (negative for all)")
		meta = flag.Bool("meta", false, "display the event list metadata")
	)

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rcv, err := stream.Listen(*addr)
	if err != nil {
		log.Fatalf("could not listen on %q: %+v", *addr, err)
	}
	defer rcv.Close()

	log.Infof("listening on %q...", *addr)
	for {
		evts, err := rcv.Recv(ctx)
		switch {
		case errors.Is(err, io.EOF):
			log.Infof("end of stream")
			return
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			log.Fatalf("could not receive event list: %+v", err)
		}
		dump(os.Stdout, evts, *nevt, *meta)
	}
}

func dump(w io.Writer, evts *evsim.EventList, nmax int, meta bool) {
	obsID, _ := evts.Meta.Get("OBS_ID")
	fmt.Fprintf(w, "=== obs_id=%v events=%d\n", obsID, evts.Len())
	if meta {
		for _, c := range evts.Meta.Cards() {
			fmt.Fprintf(w, "%-8s = %v\n", c.Name, c.Value)
		}
	}
	for i, evt := range evts.Events {
		if nmax >= 0 && i >= nmax {
			fmt.Fprintf(w, "...\n")
			break
		}
		fmt.Fprintf(w,
			"evt=%-6d t=%12.3f E=%8.4f ra=%9.4f dec=%9.4f detx=%7.4f dety=%7.4f mc_id=%d\n",
			evt.EventID, evt.Time, evt.Energy, evt.RA, evt.Dec, evt.DetX, evt.DetY, evt.MCID,
		)
	}
}
