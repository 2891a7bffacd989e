// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream // import "github.com/go-daq/evsim/stream"

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/go-daq/evsim"
	"github.com/go-daq/evsim/internal/tcputil"
)

func newEndpoint(t *testing.T) string {
	t.Helper()
	ep, err := tcputil.Endpoint()
	if err != nil {
		t.Fatalf("could not find a tcp port: %+v", err)
	}
	return ep
}

func TestSendRecv(t *testing.T) {
	ep := newEndpoint(t)

	rcv, err := Listen(ep)
	if err != nil {
		t.Fatalf("could not listen on %q: %+v", ep, err)
	}
	defer rcv.Close()

	snd, err := Dial(ep)
	if err != nil {
		t.Fatalf("could not dial %q: %+v", ep, err)
	}

	var want []*evsim.EventList
	for i := 0; i < 3; i++ {
		evts := &evsim.EventList{Events: []evsim.Event{
			{EventID: 1, Time: float64(i), Energy: 1.5, RA: 83.6, Dec: 22.0, EnergyTrue: 1.5, RATrue: 83.6, DecTrue: 22.0, MCID: 1},
			{EventID: 2, Time: float64(i) + 0.5, Energy: 2.5, RA: 84.6, Dec: 21.0, EnergyTrue: 2.5, RATrue: 84.6, DecTrue: 21.0},
		}}
		evts.Meta.Set("OBS_ID", int64(1000+i))
		want = append(want, evts)
	}

	go func() {
		for _, evts := range want {
			err := snd.Send(evts)
			if err != nil {
				t.Errorf("could not send event list: %+v", err)
				return
			}
		}
		err := snd.Close()
		if err != nil {
			t.Errorf("could not close sender: %+v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := range want {
		got, err := rcv.Recv(ctx)
		if err != nil {
			t.Fatalf("could not receive event list %d: %+v", i, err)
		}
		if !reflect.DeepEqual(got.Events, want[i].Events) {
			t.Fatalf("invalid events %d:\ngot= %+v\nwant=%+v", i, got.Events, want[i].Events)
		}
		if v, ok := got.Meta.Get("OBS_ID"); !ok || v != int64(1000+i) {
			t.Fatalf("invalid OBS_ID %d: got=%v", i, v)
		}
	}

	_, err = rcv.Recv(ctx)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got: %+v", err)
	}
}

func TestRecvCancel(t *testing.T) {
	ep := newEndpoint(t)

	rcv, err := Listen(ep)
	if err != nil {
		t.Fatalf("could not listen on %q: %+v", ep, err)
	}
	defer rcv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err = rcv.Recv(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a deadline error, got: %+v", err)
	}
}

func TestSendErr(t *testing.T) {
	ep := newEndpoint(t)

	rcv, err := Listen(ep)
	if err != nil {
		t.Fatalf("could not listen on %q: %+v", ep, err)
	}
	defer rcv.Close()

	snd, err := Dial(ep)
	if err != nil {
		t.Fatalf("could not dial %q: %+v", ep, err)
	}
	defer snd.Close()

	err = snd.SendErr(errors.New("boom"))
	if err != nil {
		t.Fatalf("could not send error: %+v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = rcv.Recv(ctx)
	if err == nil {
		t.Fatalf("expected a sender error")
	}
}
