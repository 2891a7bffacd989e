// Copyright 2020 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stream ships simulated event lists between processes over
// nanomsg push/pull sockets.
package stream // import "github.com/go-daq/evsim/stream"

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/go-daq/evsim"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pull"
	"go.nanomsg.org/mangos/v3/protocol/push"
	"golang.org/x/xerrors"

	_ "go.nanomsg.org/mangos/v3/transport/ipc"
	_ "go.nanomsg.org/mangos/v3/transport/tcp"
)

// pollDeadline is how often a blocked receiver checks its context.
const pollDeadline = 100 * time.Millisecond

// ErrClosed is returned when operating on a closed socket.
var ErrClosed = mangos.ErrClosed

// Receiver receives event lists pushed by one or more senders.
type Receiver struct {
	sck mangos.Socket
	lis mangos.Listener
}

// Listen creates a receiver bound to the given endpoint
// (e.g. "tcp://127.0.0.1:4000" or "ipc:///tmp/evsim.ipc").
func Listen(ep string) (*Receiver, error) {
	sck, lis, err := makeListener(pull.NewSocket, ep)
	if err != nil {
		return nil, err
	}
	err = sck.SetOption(mangos.OptionRecvDeadline, pollDeadline)
	if err != nil {
		_ = sck.Close()
		return nil, xerrors.Errorf("stream: could not set receive deadline: %w", err)
	}
	return &Receiver{sck: sck, lis: lis}, nil
}

func makeListener(fun func() (mangos.Socket, error), ep string) (mangos.Socket, mangos.Listener, error) {
	sck, err := fun()
	if err != nil {
		return nil, nil, xerrors.Errorf("stream: could not create socket %q: %w", ep, err)
	}

	lis, err := sck.NewListener(ep, nil)
	if err != nil {
		_ = sck.Close()
		return nil, nil, xerrors.Errorf("stream: could not create listener %q: %w", ep, err)
	}

	err = lis.Listen()
	if err != nil {
		_ = lis.Close()
		_ = sck.Close()
		return nil, nil, xerrors.Errorf("stream: could not listen on %q: %w", ep, err)
	}

	return sck, lis, nil
}

// Recv blocks until an event list is received or ctx is done.
// Recv returns io.EOF once a sender signaled the end of its stream.
func (r *Receiver) Recv(ctx context.Context) (*evsim.EventList, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		raw, err := r.sck.Recv()
		switch {
		case err == nil:
		case errors.Is(err, mangos.ErrRecvTimeout):
			continue
		default:
			return nil, xerrors.Errorf("stream: could not receive frame: %w", err)
		}

		frame, err := evsim.RecvFrame(bytes.NewReader(raw))
		if err != nil {
			return nil, xerrors.Errorf("stream: could not decode frame: %w", err)
		}

		switch frame.Type {
		case evsim.FrameEvents:
			var evts evsim.EventList
			err = evts.UnmarshalEvsim(frame.Body)
			if err != nil {
				return nil, xerrors.Errorf("stream: could not unmarshal event list: %w", err)
			}
			return &evts, nil
		case evsim.FrameEOF:
			return nil, io.EOF
		case evsim.FrameErr:
			return nil, xerrors.Errorf("stream: sender error: %s", frame.Body)
		default:
			return nil, xerrors.Errorf("stream: unexpected frame type %v", frame.Type)
		}
	}
}

// Close closes the receiver.
func (r *Receiver) Close() error {
	err := r.sck.Close()
	if err != nil && !errors.Is(err, mangos.ErrClosed) {
		return xerrors.Errorf("stream: could not close receiver: %w", err)
	}
	return nil
}

// Sender pushes event lists to a receiver.
type Sender struct {
	sck mangos.Socket
}

// Dial creates a sender connected to the receiver at the given endpoint.
// Dialing does not block: event lists are queued until the receiver is up.
func Dial(ep string) (*Sender, error) {
	sck, err := push.NewSocket()
	if err != nil {
		return nil, xerrors.Errorf("stream: could not create socket %q: %w", ep, err)
	}

	err = sck.DialOptions(ep, map[string]interface{}{
		mangos.OptionDialAsynch: true,
	})
	if err != nil {
		_ = sck.Close()
		return nil, xerrors.Errorf("stream: could not dial %q: %w", ep, err)
	}
	return &Sender{sck: sck}, nil
}

// Send pushes an event list.
func (s *Sender) Send(evts *evsim.EventList) error {
	buf := new(bytes.Buffer)
	err := evsim.SendEvents(buf, evts)
	if err != nil {
		return err
	}
	return s.send(buf.Bytes())
}

// SendErr pushes an error to the receiver.
func (s *Sender) SendErr(e error) error {
	buf := new(bytes.Buffer)
	err := evsim.SendFrame(buf, evsim.Frame{Type: evsim.FrameErr, Body: []byte(e.Error())})
	if err != nil {
		return err
	}
	return s.send(buf.Bytes())
}

func (s *Sender) send(p []byte) error {
	err := s.sck.Send(p)
	if err != nil {
		return xerrors.Errorf("stream: could not send frame: %w", err)
	}
	return nil
}

// Close signals the end of the stream and closes the sender.
func (s *Sender) Close() error {
	buf := new(bytes.Buffer)
	err := evsim.SendFrame(buf, evsim.Frame{Type: evsim.FrameEOF})
	if err != nil {
		return err
	}
	err = s.send(buf.Bytes())
	if err != nil {
		_ = s.sck.Close()
		return err
	}

	// leave the EOF frame time to be flushed before tearing down.
	time.Sleep(pollDeadline)

	err = s.sck.Close()
	if err != nil && !errors.Is(err, mangos.ErrClosed) {
		return xerrors.Errorf("stream: could not close sender: %w", err)
	}
	return nil
}
