// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evsim // import "github.com/go-daq/evsim"

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/xerrors"
)

type Marshaler interface {
	MarshalEvsim() ([]byte, error)
}

type Unmarshaler interface {
	UnmarshalEvsim(p []byte) error
}

// Frame is the unit of data exchanged between evsim processes.
type Frame struct {
	Len  int32     // length of frame body
	Type FrameType // type of frame (events,eof,err)
	Body []byte    // frame payload
}

type FrameType byte

const (
	FrameUnknown FrameType = iota
	FrameEvents
	FrameEOF
	FrameErr
)

func (ft FrameType) String() string {
	switch ft {
	case FrameEvents:
		return "events"
	case FrameEOF:
		return "eof"
	case FrameErr:
		return "err"
	}
	return "unknown"
}

// SendEvents sends an event list as a single frame.
func SendEvents(w io.Writer, evts *EventList) error {
	raw, err := evts.MarshalEvsim()
	if err != nil {
		return xerrors.Errorf("evsim: could not marshal event list: %w", err)
	}
	return SendFrame(w, Frame{Type: FrameEvents, Body: raw})
}

// SendFrame writes a frame to w.
func SendFrame(w io.Writer, frame Frame) error {
	hdr := make([]byte, 4+1)
	binary.LittleEndian.PutUint32(hdr, uint32(len(frame.Body)))
	hdr[4] = byte(frame.Type)
	r := io.MultiReader(bytes.NewReader(hdr), bytes.NewReader(frame.Body))
	_, err := io.Copy(w, r)
	return err
}

// RecvFrame reads a frame from r.
func RecvFrame(r io.Reader) (frame Frame, err error) {
	var hdr = make([]byte, 4+1)
	_, err = io.ReadFull(r, hdr)
	if err != nil {
		return frame, xerrors.Errorf("could not receive evsim frame header: %w", err)
	}
	size := binary.LittleEndian.Uint32(hdr[:4])
	frame.Len = int32(size)
	frame.Type = FrameType(hdr[4])
	if size == 0 {
		return frame, nil
	}

	if size >= math.MaxInt32 {
		return frame, xerrors.Errorf("corrupted frame (len=%d)", size)
	}

	frame.Body = make([]byte, size)
	_, err = io.ReadFull(r, frame.Body)
	if err != nil {
		return frame, xerrors.Errorf("could not receive evsim frame body: %w", err)
	}

	return frame, nil
}

const (
	cardInt uint8 = iota + 1
	cardFloat
	cardBool
	cardStr
)

func (evts *EventList) MarshalEvsim() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)

	enc.WriteU64(uint64(evts.Meta.Len()))
	for _, c := range evts.Meta.Cards() {
		enc.WriteStr(c.Name)
		switch v := c.Value.(type) {
		case int64:
			enc.WriteU8(cardInt)
			enc.WriteI64(v)
		case float64:
			enc.WriteU8(cardFloat)
			enc.WriteF64(v)
		case bool:
			enc.WriteU8(cardBool)
			enc.WriteBool(v)
		case string:
			enc.WriteU8(cardStr)
			enc.WriteStr(v)
		default:
			return nil, xerrors.Errorf("evsim: invalid value type %T for keyword %q", v, c.Name)
		}
		enc.WriteStr(c.Comment)
	}

	enc.WriteU64(uint64(len(evts.Events)))
	for _, evt := range evts.Events {
		enc.WriteI64(evt.EventID)
		enc.WriteF64(evt.Time)
		enc.WriteF64(evt.Energy)
		enc.WriteF64(evt.RA)
		enc.WriteF64(evt.Dec)
		enc.WriteF64(evt.EnergyTrue)
		enc.WriteF64(evt.RATrue)
		enc.WriteF64(evt.DecTrue)
		enc.WriteF64(evt.DetX)
		enc.WriteF64(evt.DetY)
		enc.WriteI64(evt.MCID)
	}
	return buf.Bytes(), enc.Err()
}

func (evts *EventList) UnmarshalEvsim(p []byte) error {
	dec := NewDecoder(bytes.NewReader(p))

	evts.Meta = Meta{}
	n := dec.ReadU64()
	for i := uint64(0); i < n && dec.Err() == nil; i++ {
		var c Card
		c.Name = dec.ReadStr()
		switch kind := dec.ReadU8(); kind {
		case cardInt:
			c.Value = dec.ReadI64()
		case cardFloat:
			c.Value = dec.ReadF64()
		case cardBool:
			c.Value = dec.ReadBool()
		case cardStr:
			c.Value = dec.ReadStr()
		default:
			if dec.Err() != nil {
				return dec.Err()
			}
			return xerrors.Errorf("evsim: invalid value kind %d for keyword %q", kind, c.Name)
		}
		c.Comment = dec.ReadStr()
		evts.Meta.SetCard(c)
	}

	n = dec.ReadU64()
	if dec.Err() != nil {
		return dec.Err()
	}
	// each event takes 96 bytes.
	if n > uint64(len(p))/96 {
		return xerrors.Errorf("evsim: corrupted event list (n=%d)", n)
	}
	evts.Events = make([]Event, n)
	for i := range evts.Events {
		evt := &evts.Events[i]
		evt.EventID = dec.ReadI64()
		evt.Time = dec.ReadF64()
		evt.Energy = dec.ReadF64()
		evt.RA = dec.ReadF64()
		evt.Dec = dec.ReadF64()
		evt.EnergyTrue = dec.ReadF64()
		evt.RATrue = dec.ReadF64()
		evt.DecTrue = dec.ReadF64()
		evt.DetX = dec.ReadF64()
		evt.DetY = dec.ReadF64()
		evt.MCID = dec.ReadI64()
	}
	return dec.Err()
}

var (
	_ Marshaler   = (*EventList)(nil)
	_ Unmarshaler = (*EventList)(nil)
)
