// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tcputil provides functions for tcp.
package tcputil // import "github.com/go-daq/evsim/internal/tcputil"

import (
	"net"
	"strconv"
)

// GetTCPPort returns a free TCP port on the loopback interface.
func GetTCPPort() (string, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return "", err
	}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return "", err
	}
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port), nil
}

// Endpoint returns a nanomsg TCP endpoint on a free loopback port.
func Endpoint() (string, error) {
	port, err := GetTCPPort()
	if err != nil {
		return "", err
	}
	return "tcp://127.0.0.1:" + port, nil
}
