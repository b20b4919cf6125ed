package watcher

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"plugd/pkg/acplug"
)

// Source is the event stream a Watcher drives. *acplug.Stream satisfies it.
type Source interface {
	Next(ctx context.Context) (acplug.Event, error)
	State() acplug.PowerState
	Close() error
}

// Dialer establishes a fresh Source. Streams are single-shot, so the watcher
// dials again after every stream ends or fails.
type Dialer func(ctx context.Context) (Source, error)

const (
	defaultMinBackoff = time.Second
	defaultMaxBackoff = 30 * time.Second

	// Per-subscriber channel depth. A subscriber that falls further behind
	// loses its oldest events rather than stalling the watch loop.
	subBuffer = 16
)

// Config configures a Watcher. Zero fields get package defaults; Dial is
// required.
type Config struct {
	Dial       Dialer
	Logger     *zerolog.Logger
	Publisher  Publisher
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Watcher owns the connect/consume/reconnect loop around acplug streams.
type Watcher struct {
	dial       Dialer
	log        zerolog.Logger
	pub        Publisher
	minBackoff time.Duration
	maxBackoff time.Duration

	mu          sync.RWMutex
	connected   bool
	state       acplug.PowerState
	haveState   bool
	transitions uint64
	lastEvent   time.Time

	subMu sync.Mutex
	subs  map[chan PlugEvent]struct{}
}

// Snapshot is a read-only projection of the watcher state for /status.
type Snapshot struct {
	State         string `json:"state"`
	Plugged       bool   `json:"plugged"`
	Connected     bool   `json:"connected"`
	Transitions   uint64 `json:"transitions"`
	LastEventUnix int64  `json:"last_event_unix,omitempty"`
}

func New(cfg Config) *Watcher {
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = defaultMinBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	return &Watcher{
		dial:       cfg.Dial,
		log:        *cfg.Logger,
		pub:        cfg.Publisher,
		minBackoff: cfg.MinBackoff,
		maxBackoff: cfg.MaxBackoff,
		subs:       make(map[chan PlugEvent]struct{}),
	}
}

// Run blocks until ctx is done, holding at most one live stream at a time.
// Dial failures and ended streams are retried with capped doubling backoff;
// a successful connect resets the backoff.
func (w *Watcher) Run(ctx context.Context) error {
	backoff := w.minBackoff
	for {
		src, err := w.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Warn().Err(err).Dur("retry_in", backoff).Msg("acpid connect failed")
			reconnectsTotal.Inc()
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			backoff = doubleCapped(backoff, w.maxBackoff)
			continue
		}
		backoff = w.minBackoff
		w.setConnected(src.State())
		w.log.Info().Stringer("state", src.State()).Msg("acpid stream established")

		err = w.consume(ctx, src)
		_ = src.Close()
		w.setDisconnected()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch {
		case err == io.EOF:
			w.log.Info().Msg("acpid closed the stream")
		default:
			w.log.Error().Err(err).Msg("acpid stream failed")
		}
		reconnectsTotal.Inc()
		if !sleepCtx(ctx, backoff) {
			return ctx.Err()
		}
		backoff = doubleCapped(backoff, w.maxBackoff)
	}
}

func (w *Watcher) consume(ctx context.Context, src Source) error {
	for {
		ev, err := src.Next(ctx)
		if err != nil {
			return err
		}
		w.record(ev)
	}
}

func (w *Watcher) record(ev acplug.Event) {
	pe := PlugEvent{Event: ev, At: time.Now()}

	w.mu.Lock()
	if ev == acplug.Plugged {
		w.state = acplug.StatePlugged
	} else {
		w.state = acplug.StateUnplugged
	}
	w.haveState = true
	w.transitions++
	w.lastEvent = pe.At
	w.mu.Unlock()

	eventsTotal.WithLabelValues(ev.String()).Inc()
	w.log.Info().Stringer("event", ev).Msg("adapter transition")
	w.pub.Publish(pe)

	w.subMu.Lock()
	for ch := range w.subs {
		select {
		case ch <- pe:
		default:
			// Full: shed the oldest buffered event, then retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- pe:
			default:
			}
		}
	}
	w.subMu.Unlock()
}

// Subscribe returns a feed of future transitions and a cancel func. The feed
// is buffered; slow consumers lose oldest-first instead of blocking the
// watcher.
func (w *Watcher) Subscribe() (<-chan PlugEvent, func()) {
	ch := make(chan PlugEvent, subBuffer)
	w.subMu.Lock()
	w.subs[ch] = struct{}{}
	w.subMu.Unlock()
	cancel := func() {
		w.subMu.Lock()
		if _, ok := w.subs[ch]; ok {
			delete(w.subs, ch)
			close(ch)
		}
		w.subMu.Unlock()
	}
	return ch, cancel
}

// Ready reports whether a live stream is currently held.
func (w *Watcher) Ready() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

// Status returns a copy of the current watcher state.
func (w *Watcher) Status() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	snap := Snapshot{
		Connected:   w.connected,
		Transitions: w.transitions,
	}
	if w.haveState {
		snap.State = w.state.String()
		snap.Plugged = w.state.Plugged()
	} else {
		snap.State = "unknown"
	}
	if !w.lastEvent.IsZero() {
		snap.LastEventUnix = w.lastEvent.Unix()
	}
	return snap
}

func (w *Watcher) setConnected(state acplug.PowerState) {
	w.mu.Lock()
	w.connected = true
	w.state = state
	w.haveState = true
	w.mu.Unlock()
	connectedGauge.Set(1)
}

// setDisconnected keeps the last known adapter state; only liveness changes.
func (w *Watcher) setDisconnected() {
	w.mu.Lock()
	w.connected = false
	w.mu.Unlock()
	connectedGauge.Set(0)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func doubleCapped(d, max time.Duration) time.Duration {
	d *= 2
	if d > max {
		return max
	}
	return d
}
