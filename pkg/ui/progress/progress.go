// Package progress draws pterm progress bars for artifact downloads.
package progress

import (
	"io"
	"sync"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/logging"
)

var log = logging.GetLogger("ui.progress")

type bar struct {
	printer *pterm.ProgressbarPrinter
	size    int64
	shown   int64
}

// Listener is a resolver.TransferListener that shows one bar per download
// of known size. Downloads of unknown size and cache hits draw nothing.
type Listener struct {
	mu   sync.Mutex
	w    io.Writer
	bars map[string]*bar
}

// New returns a Listener drawing to w.
func New(w io.Writer) *Listener {
	return &Listener{w: w, bars: map[string]*bar{}}
}

// Active returns the number of bars currently drawn.
func (l *Listener) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bars)
}

func (l *Listener) CacheHit(identity.Identity, string) {}

func (l *Listener) Started(id identity.Identity, size int64) {
	if size <= 0 {
		return
	}
	key := id.Coordinate()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.bars[key]; ok {
		return
	}
	printer, err := pterm.DefaultProgressbar.
		WithTotal(int(size)).
		WithTitle(key).
		WithWriter(l.w).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		log.Debug().Err(err).Str("artifact", key).Msg("Progress bar unavailable")
		return
	}
	l.bars[key] = &bar{printer: printer, size: size}
}

func (l *Listener) Progressed(id identity.Identity, transferred, _ int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bars[id.Coordinate()]
	if !ok {
		return
	}
	if transferred > b.size {
		transferred = b.size
	}
	if delta := transferred - b.shown; delta > 0 {
		b.printer.Add(int(delta))
		b.shown = transferred
	}
}

func (l *Listener) Succeeded(id identity.Identity, _ int64) {
	l.finish(id)
}

func (l *Listener) Failed(id identity.Identity, _ error) {
	l.finish(id)
}

func (l *Listener) finish(id identity.Identity) {
	key := id.Coordinate()
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bars[key]
	if !ok {
		return
	}
	delete(l.bars, key)
	if _, err := b.printer.Stop(); err != nil {
		log.Debug().Err(err).Str("artifact", key).Msg("Failed to stop progress bar")
	}
}
