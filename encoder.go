// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evsim // import "github.com/go-daq/evsim"

import (
	"encoding/binary"
	"io"
	"math"
)

// Encoder writes little-endian binary values.
// The first error encountered is sticky and reported by Err.
type Encoder struct {
	w   io.Writer
	err error

	buf []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, buf: make([]byte, 8)}
}

func (enc *Encoder) Err() error { return enc.err }

func (enc *Encoder) WriteBool(v bool) {
	var b uint8
	if v {
		b = 1
	}
	enc.WriteU8(b)
}

func (enc *Encoder) WriteU8(v uint8) {
	if enc.err != nil {
		return
	}
	enc.buf[0] = v
	_, enc.err = enc.w.Write(enc.buf[:1])
}

func (enc *Encoder) WriteU64(v uint64) {
	if enc.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(enc.buf[:8], v)
	_, enc.err = enc.w.Write(enc.buf[:8])
}

func (enc *Encoder) WriteI64(v int64) { enc.WriteU64(uint64(v)) }

func (enc *Encoder) WriteF64(v float64) { enc.WriteU64(math.Float64bits(v)) }

func (enc *Encoder) WriteStr(v string) {
	enc.WriteU64(uint64(len(v)))

	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write([]byte(v))
}
