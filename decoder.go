// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evsim // import "github.com/go-daq/evsim"

import (
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/xerrors"
)

// maxStrLen bounds the length of decoded strings.
const maxStrLen = 1 << 20

// Decoder reads little-endian binary values written by an Encoder.
// The first error encountered is sticky and reported by Err.
type Decoder struct {
	r   io.Reader
	err error
	buf []byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, buf: make([]byte, 8)}
}

func (dec *Decoder) Err() error { return dec.err }

func (dec *Decoder) load(n int) {
	if dec.err != nil {
		copy(dec.buf, []byte{0, 0, 0, 0, 0, 0, 0, 0})
		return
	}
	_, dec.err = io.ReadFull(dec.r, dec.buf[:n])
}

func (dec *Decoder) ReadBool() bool {
	return dec.ReadU8() == 1
}

func (dec *Decoder) ReadU8() uint8 {
	dec.load(1)
	return dec.buf[0]
}

func (dec *Decoder) ReadU64() uint64 {
	dec.load(8)
	return binary.LittleEndian.Uint64(dec.buf[:8])
}

func (dec *Decoder) ReadI64() int64 { return int64(dec.ReadU64()) }

func (dec *Decoder) ReadF64() float64 { return math.Float64frombits(dec.ReadU64()) }

func (dec *Decoder) ReadStr() string {
	n := dec.ReadU64()
	if n == 0 || dec.err != nil {
		return ""
	}
	if n > maxStrLen {
		dec.err = xerrors.Errorf("evsim: string too long (len=%d)", n)
		return ""
	}
	str := make([]byte, n)
	_, dec.err = io.ReadFull(dec.r, str)
	return string(str)
}
