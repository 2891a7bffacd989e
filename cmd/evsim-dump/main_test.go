// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-daq/evsim"
)

func TestDump(t *testing.T) {
	evts := &evsim.EventList{Events: []evsim.Event{
		{EventID: 1, Time: 1.5, Energy: 2, RA: 83.6, Dec: 22, MCID: 1},
		{EventID: 2, Time: 2.5, Energy: 3, RA: 83.7, Dec: 22.1},
		{EventID: 3, Time: 3.5, Energy: 4, RA: 83.8, Dec: 22.2},
	}}
	evts.Meta.Set("OBS_ID", int64(42))

	buf := new(bytes.Buffer)
	dump(buf, evts, 2, true)

	out := buf.String()
	for _, want := range []string{
		"=== obs_id=42 events=3\n",
		"OBS_ID   = 42\n",
		"evt=1 ",
		"evt=2 ",
		"...\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "evt=3 ") {
		t.Fatalf("too many events displayed:\n%s", out)
	}
}
