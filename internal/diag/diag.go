// Package diag carries per-item diagnostics out of the reconciliation core.
//
// Core components never fail a batch because of one malformed item. They
// record an Event into an injected Sink instead and move on.
package diag

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Level is the severity of an Event.
type Level string

const (
	LevelInfo Level = "info"
	LevelWarn Level = "warn"
)

// Stage names the component that recorded an event.
type Stage string

const (
	StageImport  Stage = "import"
	StageVoucher Stage = "voucher"
	StageMatch   Stage = "match"
	StageJournal Stage = "journal"
	StageBalance Stage = "trial_balance"
)

// Event is one diagnostic.
type Event struct {
	Level   Level
	Stage   Stage
	Ref     string // statement/voucher/entry the event concerns, if any
	Message string
}

func (e Event) String() string {
	if e.Ref == "" {
		return fmt.Sprintf("%s [%s]: %s", e.Level, e.Stage, e.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", e.Level, e.Stage, e.Ref, e.Message)
}

// Sink receives diagnostics.
type Sink interface {
	Record(e Event)
}

// Warnf records a warning on s.
func Warnf(s Sink, stage Stage, ref, format string, args ...any) {
	s.Record(Event{Level: LevelWarn, Stage: stage, Ref: ref, Message: fmt.Sprintf(format, args...)})
}

// Infof records an informational event on s.
func Infof(s Sink, stage Stage, ref, format string, args ...any) {
	s.Record(Event{Level: LevelInfo, Stage: stage, Ref: ref, Message: fmt.Sprintf(format, args...)})
}

type discard struct{}

func (discard) Record(Event) {}

// Discard drops every event.
var Discard Sink = discard{}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Recorder collects events in memory, in order.
type Recorder struct {
	events []Event
}

// Record implements Sink.
func (r *Recorder) Record(e Event) {
	r.events = append(r.events, e)
}

// Events returns the recorded events.
func (r *Recorder) Events() []Event {
	return r.events
}

// Count returns the number of events at level.
func (r *Recorder) Count(level Level) int {
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}

// LogSink forwards events to a zerolog logger.
type LogSink struct {
	Logger zerolog.Logger
}

// Record implements Sink.
func (s LogSink) Record(e Event) {
	ev := s.Logger.Info()
	if e.Level == LevelWarn {
		ev = s.Logger.Warn()
	}
	ev = ev.Str("stage", string(e.Stage))
	if e.Ref != "" {
		ev = ev.Str("ref", e.Ref)
	}
	ev.Msg(e.Message)
}

// Multi fans events out to several sinks.
type Multi []Sink

// Record implements Sink.
func (m Multi) Record(e Event) {
	for _, s := range m {
		s.Record(e)
	}
}
