package resolver

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/logging"
)

// TransferListener observes resolutions. Calls may arrive concurrently from
// different sessions. Size is -1 when unknown.
type TransferListener interface {
	CacheHit(id identity.Identity, path string)
	Started(id identity.Identity, size int64)
	Progressed(id identity.Identity, transferred, size int64)
	Succeeded(id identity.Identity, transferred int64)
	Failed(id identity.Identity, err error)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) CacheHit(identity.Identity, string) {}
func (NopListener) Started(identity.Identity, int64) {}
func (NopListener) Progressed(identity.Identity, int64, int64) {}
func (NopListener) Succeeded(identity.Identity, int64) {}
func (NopListener) Failed(identity.Identity, error) {}

// Listeners fans every event out to ls in order.
func Listeners(ls ...TransferListener) TransferListener {
	return multiListener(ls)
}

type multiListener []TransferListener

func (m multiListener) CacheHit(id identity.Identity, path string) {
	for _, l := range m {
		l.CacheHit(id, path)
	}
}

func (m multiListener) Started(id identity.Identity, size int64) {
	for _, l := range m {
		l.Started(id, size)
	}
}

func (m multiListener) Progressed(id identity.Identity, transferred, size int64) {
	for _, l := range m {
		l.Progressed(id, transferred, size)
	}
}

func (m multiListener) Succeeded(id identity.Identity, transferred int64) {
	for _, l := range m {
		l.Succeeded(id, transferred)
	}
}

func (m multiListener) Failed(id identity.Identity, err error) {
	for _, l := range m {
		l.Failed(id, err)
	}
}

// EventKind names a TransferListener callback.
type EventKind string

const (
	EventCacheHit   EventKind = "cache-hit"
	EventStarted    EventKind = "started"
	EventProgressed EventKind = "progressed"
	EventSucceeded  EventKind = "succeeded"
	EventFailed     EventKind = "failed"
)

// Event is one recorded callback.
type Event struct {
	Kind     EventKind
	Identity identity.Identity
	Bytes    int64
	Size     int64
	Path     string
	Err      error
}

// RecordingListener keeps every event in order. Safe for concurrent use.
type RecordingListener struct {
	mu     sync.Mutex
	events []Event
}

func (l *RecordingListener) record(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

// Events returns a copy of the recorded events.
func (l *RecordingListener) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// Kinds returns the kinds of the recorded events, with consecutive
// progress events collapsed into one.
func (l *RecordingListener) Kinds() []EventKind {
	var kinds []EventKind
	for _, e := range l.Events() {
		if e.Kind == EventProgressed && len(kinds) > 0 && kinds[len(kinds)-1] == EventProgressed {
			continue
		}
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (l *RecordingListener) CacheHit(id identity.Identity, path string) {
	l.record(Event{Kind: EventCacheHit, Identity: id, Path: path})
}

func (l *RecordingListener) Started(id identity.Identity, size int64) {
	l.record(Event{Kind: EventStarted, Identity: id, Size: size})
}

func (l *RecordingListener) Progressed(id identity.Identity, transferred, size int64) {
	l.record(Event{Kind: EventProgressed, Identity: id, Bytes: transferred, Size: size})
}

func (l *RecordingListener) Succeeded(id identity.Identity, transferred int64) {
	l.record(Event{Kind: EventSucceeded, Identity: id, Bytes: transferred})
}

func (l *RecordingListener) Failed(id identity.Identity, err error) {
	l.record(Event{Kind: EventFailed, Identity: id, Err: err})
}

// LogListener writes events to a zerolog logger. Progress is logged at
// trace level, everything else at debug, failures at warn.
type LogListener struct {
	Logger zerolog.Logger
}

// NewLogListener returns a listener logging under the
// "resolver.transfer" component.
func NewLogListener() *LogListener {
	return &LogListener{Logger: logging.GetLogger("resolver.transfer")}
}

func (l *LogListener) CacheHit(id identity.Identity, path string) {
	l.Logger.Debug().Str("artifact", id.Coordinate()).Str("path", path).Msg("Cache hit")
}

func (l *LogListener) Started(id identity.Identity, size int64) {
	l.Logger.Debug().Str("artifact", id.Coordinate()).Int64("size", size).Msg("Download started")
}

func (l *LogListener) Progressed(id identity.Identity, transferred, size int64) {
	l.Logger.Trace().Str("artifact", id.Coordinate()).Int64("transferred", transferred).Int64("size", size).Msg("Download progress")
}

func (l *LogListener) Succeeded(id identity.Identity, transferred int64) {
	l.Logger.Debug().Str("artifact", id.Coordinate()).Int64("transferred", transferred).Msg("Download complete")
}

func (l *LogListener) Failed(id identity.Identity, err error) {
	l.Logger.Warn().Err(err).Str("artifact", id.Coordinate()).Msg("Download failed")
}
