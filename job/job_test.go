// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package job // import "github.com/go-daq/evsim/job"

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/go-daq/evsim/config"
	"github.com/go-daq/evsim/internal/tcputil"
	"github.com/go-daq/evsim/log"
	"github.com/go-daq/evsim/stream"
)

func newScenario(nobs, workers int) config.Scenario {
	cfg := config.Default()
	cfg.Sampler.Level = log.LvlWarning
	cfg.Sampler.Seed = 42
	cfg.Dataset.BinSz = 0.1
	cfg.Dataset.Width = 2
	cfg.Batch = config.Batch{NObs: nobs, Workers: workers}
	return cfg
}

func TestBatchDeterminism(t *testing.T) {
	run := func(workers int) []Result {
		b := New(newScenario(5, workers), io.Discard)
		b.Keep = true
		res, err := b.Run(context.Background())
		if err != nil {
			t.Fatalf("could not run batch (workers=%d): %+v", workers, err)
		}
		return res
	}

	r1 := run(1)
	r3 := run(3)
	if got, want := len(r1), 5; got != want {
		t.Fatalf("invalid number of results: got=%d, want=%d", got, want)
	}
	for i := range r1 {
		if got, want := r1[i].ObsID, int64(1001+i); got != want {
			t.Fatalf("invalid obs_id %d: got=%d, want=%d", i, got, want)
		}
		if got, want := r1[i].Seed, uint64(42+i); got != want {
			t.Fatalf("invalid seed %d: got=%d, want=%d", i, got, want)
		}
		if r1[i].N != r1[i].Events.Len() {
			t.Fatalf("invalid event count %d: %d != %d", i, r1[i].N, r1[i].Events.Len())
		}
		if !reflect.DeepEqual(r1[i].Events.Events, r3[i].Events.Events) {
			t.Fatalf("obs %d depends on the number of workers", i)
		}
		if v, _ := r1[i].Events.Meta.Get("OBS_ID"); v != r1[i].ObsID {
			t.Fatalf("invalid OBS_ID keyword %d: %v", i, v)
		}
	}
	if reflect.DeepEqual(r1[0].Events.Events, r1[1].Events.Events) {
		t.Fatalf("observations 0 and 1 share the same events")
	}
}

func TestBatchFITS(t *testing.T) {
	dir := t.TempDir()
	cfg := newScenario(3, 2)
	cfg.Output.FITS = filepath.Join(dir, "obs-%d.fits")

	var calls int
	b := New(cfg, io.Discard)
	b.OnResult = func(Result) { calls++ }

	res, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("could not run batch: %+v", err)
	}
	if calls != 3 {
		t.Fatalf("invalid number of callbacks: got=%d, want=3", calls)
	}
	for i, r := range res {
		if r.Events != nil {
			t.Fatalf("event list %d was kept", i)
		}
		want := filepath.Join(dir, "obs-"+[]string{"1001", "1002", "1003"}[i]+".fits")
		if r.File != want {
			t.Fatalf("invalid file name %d: got=%q, want=%q", i, r.File, want)
		}
		if _, err := os.Stat(r.File); err != nil {
			t.Fatalf("could not stat %q: %+v", r.File, err)
		}
	}
}

func TestBatchStream(t *testing.T) {
	ep, err := tcputil.Endpoint()
	if err != nil {
		t.Fatalf("could not find a tcp port: %+v", err)
	}

	rcv, err := stream.Listen(ep)
	if err != nil {
		t.Fatalf("could not listen on %q: %+v", ep, err)
	}
	defer rcv.Close()

	cfg := newScenario(3, 2)
	cfg.Output.Stream = ep

	errc := make(chan error, 1)
	go func() {
		_, err := New(cfg, io.Discard).Run(context.Background())
		errc <- err
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	ids := make(map[int64]bool)
	for {
		evts, err := rcv.Recv(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("could not receive event list: %+v", err)
		}
		v, _ := evts.Meta.Get("OBS_ID")
		ids[v.(int64)] = true
	}
	if err := <-errc; err != nil {
		t.Fatalf("could not run batch: %+v", err)
	}
	if !reflect.DeepEqual(ids, map[int64]bool{1001: true, 1002: true, 1003: true}) {
		t.Fatalf("invalid streamed observations: %v", ids)
	}
}

func TestBatchError(t *testing.T) {
	cfg := newScenario(2, 2)
	cfg.Sources[0].Spatial.Type = "shell"

	_, err := New(cfg, io.Discard).Run(context.Background())
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Result{{N: 10}, {N: 20}, {N: 30}})
	if sum.NObs != 3 || sum.Total != 60 || sum.Min != 10 || sum.Max != 30 {
		t.Fatalf("invalid summary: %+v", sum)
	}
	if sum.Mean != 20 || math.Abs(sum.StdDev-10) > 1e-12 {
		t.Fatalf("invalid summary moments: %+v", sum)
	}

	sum = Summarize([]Result{{N: 7}})
	if sum.Mean != 7 || sum.StdDev != 0 {
		t.Fatalf("invalid single summary: %+v", sum)
	}

	if got, want := Summarize(nil).String(), "nobs=0 events=0 mean=0.00 stddev=0.00 min=0 max=0"; got != want {
		t.Fatalf("invalid summary string:\ngot= %q\nwant=%q", got, want)
	}
}

func TestFileName(t *testing.T) {
	for _, tc := range []struct {
		tmpl string
		want string
	}{
		{"events.fits", "events.fits"},
		{"obs-%d.fits", "obs-42.fits"},
		{"run/%d/events.fits", "run/42/events.fits"},
		{"run%20/evts_%d.fits", "run%20/evts_42.fits"},
		{"obs-%d-%d.fits", "obs-42-42.fits"},
		{"100%.fits", "100%.fits"},
	} {
		if got := FileName(tc.tmpl, 42); got != tc.want {
			t.Fatalf("invalid file name for %q: got=%q, want=%q", tc.tmpl, got, tc.want)
		}
	}
}
