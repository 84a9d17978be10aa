package network

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
	"github.com/varoOP/aniview/internal/live"
)

// State is the reachability of the remote side
type State int

const (
	Offline State = iota
	Online
)

func (s State) String() string {
	if s == Online {
		return "online"
	}
	return "offline"
}

// Monitor probes reachability and gates work on it
type Monitor struct {
	log      zerolog.Logger
	client   *http.Client
	probeURL string
	timeout  time.Duration
	states   *live.Value[State]

	mu       sync.Mutex
	watching bool
	stop     context.CancelFunc
	done     chan struct{}
}

var _ domain.Connectivity = (*Monitor)(nil)

// NewMonitor creates a monitor probing probeURL with the given timeout
func NewMonitor(log zerolog.Logger, client *http.Client, probeURL string, timeout time.Duration) *Monitor {
	if client == nil {
		client = &http.Client{}
	}
	return &Monitor{
		log:      log.With().Str("module", "network").Logger(),
		client:   client,
		probeURL: probeURL,
		timeout:  timeout,
		states:   live.New[State](),
	}
}

// Check performs a one-shot reachability probe. Anything that prevents an HTTP
// response within the timeout counts as offline.
func (m *Monitor) Check(ctx context.Context) State {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		m.log.Warn().Err(err).Str("probe_url", m.probeURL).Msg("invalid probe request, assuming offline")
		return Offline
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.log.Debug().Err(err).Str("probe_url", m.probeURL).Msg("probe failed")
		return Offline
	}
	resp.Body.Close()

	return Online
}

// RunGated invokes exactly one of onOnline or onOffline, exactly once. While
// watching, the last observed state is used instead of a fresh probe.
func (m *Monitor) RunGated(ctx context.Context, onOnline, onOffline func()) {
	state, ok := m.known()
	if !ok {
		state = m.Check(ctx)
	}

	m.log.Trace().Stringer("state", state).Bool("cached", ok).Msg("gated run")

	if state == Online {
		onOnline()
		return
	}
	onOffline()
}

func (m *Monitor) known() (State, bool) {
	m.mu.Lock()
	watching := m.watching
	m.mu.Unlock()
	if !watching {
		return Offline, false
	}
	return m.states.Get()
}

// Start polls reachability every interval until ctx is done or Close is called.
// Calling Start while already watching is a no-op.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watching {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.watching = true
	m.stop = cancel
	m.done = make(chan struct{})

	// publish the first state before returning so RunGated never races an empty value
	m.publish(m.Check(ctx))

	go m.poll(ctx, interval, m.done)
}

func (m *Monitor) poll(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.publish(m.Check(ctx))
		}
	}
}

func (m *Monitor) publish(state State) {
	if prev, ok := m.states.Get(); !ok || prev != state {
		m.log.Info().Stringer("state", state).Msg("connectivity changed")
	}
	m.states.Set(state)
}

// States exposes the watched connectivity as a latest-value stream
func (m *Monitor) States() *live.Value[State] {
	return m.states
}

// Subscribe registers for connectivity updates. Close the subscription on teardown.
func (m *Monitor) Subscribe() *live.Subscription[State] {
	return m.states.Subscribe()
}

// Close stops polling and unregisters every subscriber
func (m *Monitor) Close() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.watching = false
	m.stop = nil
	m.done = nil
	m.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
	m.states.Close()
}
