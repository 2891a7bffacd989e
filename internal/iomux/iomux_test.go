// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iomux // import "github.com/go-daq/evsim/internal/iomux"

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestStringer(t *testing.T) {
	want := "hello"

	o := NewWriter(new(bytes.Buffer))
	o.Write([]byte(want))

	got1 := o.String()
	if got1 != want {
		t.Fatalf("invalid stringer: got1=%q, want=%q", got1, want)
	}

	got2 := o.String()
	if got2 != want {
		t.Fatalf("invalid stringer: got2=%q, want=%q", got2, want)
	}
}

type syncer struct {
	bytes.Buffer
	n int
}

func (s *syncer) Sync() error { s.n++; return nil }

func TestSync(t *testing.T) {
	s := new(syncer)
	o := NewWriter(s)
	if err := o.Sync(); err != nil {
		t.Fatalf("could not sync: %+v", err)
	}
	if s.n != 1 {
		t.Fatalf("underlying writer not sync'ed")
	}

	if err := NewWriter(new(bytes.Buffer)).Sync(); err != nil {
		t.Fatalf("could not sync plain writer: %+v", err)
	}
}

func TestConcurrentWrites(t *testing.T) {
	const n = 50
	var (
		buf = new(bytes.Buffer)
		o   = NewWriter(buf)
		wg  sync.WaitGroup
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			fmt.Fprintf(o, "line-%03d\n", i)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != n {
		t.Fatalf("invalid number of lines: got=%d, want=%d", len(lines), n)
	}
	for _, line := range lines {
		if len(line) != len("line-000") {
			t.Fatalf("interleaved line %q", line)
		}
	}
}
