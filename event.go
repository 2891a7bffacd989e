// Copyright 2019 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package evsim // import "github.com/go-daq/evsim"

import (
	"sort"
)

// Event is a simulated detection event.
type Event struct {
	EventID int64
	Time    float64 // s since the reference epoch

	Energy float64 // reconstructed energy (TeV)
	RA     float64 // reconstructed position (deg)
	Dec    float64

	EnergyTrue float64 // TeV
	RATrue     float64 // deg
	DecTrue    float64

	DetX float64 // field-of-view coordinates (deg)
	DetY float64

	MCID int64 // identifier of the model component the event was drawn from
}

// EventList is a table of events with its metadata.
type EventList struct {
	Events []Event
	Meta   Meta
}

// Len returns the number of events.
func (evts *EventList) Len() int {
	if evts == nil {
		return 0
	}
	return len(evts.Events)
}

// Stack concatenates event lists, in order.
// The metadata of the lists are merged, later keys overriding earlier ones.
func Stack(lists ...*EventList) *EventList {
	n := 0
	for _, l := range lists {
		n += l.Len()
	}
	out := &EventList{Events: make([]Event, 0, n)}
	for _, l := range lists {
		if l == nil {
			continue
		}
		out.Events = append(out.Events, l.Events...)
		out.Meta.Merge(&l.Meta)
	}
	return out
}

// SortByTime sorts events by increasing time.
// Events with equal times keep their relative order.
func (evts *EventList) SortByTime() {
	sort.SliceStable(evts.Events, func(i, j int) bool {
		return evts.Events[i].Time < evts.Events[j].Time
	})
}

// Select keeps the events for which keep returns true.
func (evts *EventList) Select(keep func(evt Event) bool) {
	o := evts.Events[:0]
	for _, evt := range evts.Events {
		if keep(evt) {
			o = append(o, evt)
		}
	}
	evts.Events = o
}

// Card is a metadata keyword.
// Values are either int64, float64, bool or string.
type Card struct {
	Name    string
	Value   interface{}
	Comment string
}

// Meta is an insertion-ordered set of metadata keywords.
type Meta struct {
	cards []Card
	idx   map[string]int
}

// Set sets the value of a keyword.
// Existing keywords keep their position.
func (m *Meta) Set(name string, v interface{}) {
	m.SetCard(Card{Name: name, Value: v})
}

// SetCard sets a keyword with its comment.
func (m *Meta) SetCard(c Card) {
	switch v := c.Value.(type) {
	case int:
		c.Value = int64(v)
	case float32:
		c.Value = float64(v)
	}
	if m.idx == nil {
		m.idx = make(map[string]int)
	}
	if i, ok := m.idx[c.Name]; ok {
		m.cards[i] = c
		return
	}
	m.idx[c.Name] = len(m.cards)
	m.cards = append(m.cards, c)
}

// Get returns the value of a keyword.
func (m *Meta) Get(name string) (interface{}, bool) {
	i, ok := m.idx[name]
	if !ok {
		return nil, false
	}
	return m.cards[i].Value, true
}

// Cards returns the keywords in insertion order.
func (m *Meta) Cards() []Card { return m.cards }

// Len returns the number of keywords.
func (m *Meta) Len() int { return len(m.cards) }

// Merge sets all the keywords of o into m.
func (m *Meta) Merge(o *Meta) {
	for _, c := range o.cards {
		m.SetCard(c)
	}
}
