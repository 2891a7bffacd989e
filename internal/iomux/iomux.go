// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iomux provides simple goroutine safe I/O primitives.
package iomux // import "github.com/go-daq/evsim/internal/iomux"

import (
	"fmt"
	"io"
	"sync"
)

// Writer is a goroutine-safe io.Writer, shared by concurrent samplers
// logging to the same output.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	n, err := w.w.Write(p)
	w.mu.Unlock()
	return n, err
}

// Sync flushes the underlying writer, if it can be flushed.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.w.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

func (w *Writer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fmt.Sprintf("%v", w.w)
}

var (
	_ io.Writer = (*Writer)(nil)
)
