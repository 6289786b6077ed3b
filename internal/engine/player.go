package engine

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/roach88/patchbay/internal/graph"
)

// DefaultTickInterval is the wall-clock period between trace passes while
// playback is active. It is independent of audio backend timing.
const DefaultTickInterval = 16 * time.Millisecond

// Player owns the current graph snapshot and drives the tracer from a
// periodic timer while playback is active.
//
// Thread-safety model:
//   - Run(): must be called from exactly one goroutine; all trace passes
//     happen there, run-to-completion.
//   - Apply(), Play(), Pause(): safe from any goroutine. Apply swaps in a
//     brand-new (nodes, edges) pair; in-flight passes keep reading the
//     pair they started with.
//
// The tick cadence is reset when an edit changes graph topology (node or
// edge identity), but not on cosmetic changes such as repositioning.
type Player struct {
	tracer   *Tracer
	mutator  *Mutator
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	snap    graph.Snapshot
	topo    string
	playing bool
	started time.Time

	wake chan struct{} // coalesced play/pause/topology signal (buffered, size 1)
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithTickInterval overrides the trace period.
func WithTickInterval(d time.Duration) PlayerOption {
	return func(p *Player) {
		p.interval = d
	}
}

// WithPlayerLogger sets the logger. Defaults to slog.Default().
func WithPlayerLogger(log *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.log = log
	}
}

// WithTimeSource replaces the wall clock, for deterministic tests.
func WithTimeSource(now func() time.Time) PlayerOption {
	return func(p *Player) {
		p.now = now
	}
}

// NewPlayer creates a Player around a tracer and mutator.
func NewPlayer(tracer *Tracer, mutator *Mutator, opts ...PlayerOption) *Player {
	p := &Player{
		tracer:   tracer,
		mutator:  mutator,
		interval: DefaultTickInterval,
		log:      slog.Default(),
		now:      time.Now,
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply replaces the current snapshot with a new (nodes, edges) pair,
// routing the difference through the mutator. Returns the notifications
// the mutator fired.
//
// The tick cadence restarts only when the topology signature changed.
func (p *Player) Apply(nodes []*graph.Node, edges []graph.Edge) []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	fired := p.mutator.DiffAndApply(p.snap.Nodes, p.snap.Edges, nodes, edges)

	p.snap = graph.Snapshot{Nodes: nodes, Edges: edges}
	topo := topologySignature(nodes, edges)
	if topo != p.topo {
		p.topo = topo
		p.signal()
	}
	return fired
}

// Play starts (or resumes) playback. The transport clock starts on the
// first Play.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return
	}
	p.playing = true
	if p.started.IsZero() {
		p.started = p.now()
	}
	p.log.Info("playback started")
	p.signal()
}

// Pause suspends playback. The snapshot and note state are kept.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.playing = false
	p.log.Info("playback paused")
	p.signal()
}

// Playing reports whether playback is active.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// signal wakes the run loop. Non-blocking: the buffer of one coalesces
// bursts of edits into a single cadence reset. Callers hold p.mu.
func (p *Player) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run drives the tick loop until the context is cancelled.
// Must be called from exactly one goroutine.
func (p *Player) Run(ctx context.Context) error {
	p.log.Info("player starting", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	ticker.Stop() // armed only while playing
	defer ticker.Stop()
	armed := false

	for {
		select {
		case <-ctx.Done():
			p.log.Info("player stopping: context cancelled")
			return ctx.Err()

		case <-p.wake:
			// Play state or topology changed: rearm or disarm the ticker.
			// Rearming on topology change resets the cadence.
			if p.Playing() {
				ticker.Reset(p.interval)
				armed = true
			} else if armed {
				ticker.Stop()
				armed = false
			}

		case <-ticker.C:
			p.tick()
		}
	}
}

// tick runs one trace pass against the current snapshot.
func (p *Player) tick() {
	p.mu.Lock()
	snap := p.snap
	playing := p.playing
	t := p.now().Sub(p.started).Seconds()
	p.mu.Unlock()

	if !playing {
		return
	}
	p.tracer.Trace(t, snap.Nodes, snap.Edges)
}

// topologySignature fingerprints node and edge identity. Cosmetic state
// (positions, parameter values) deliberately does not contribute.
func topologySignature(nodes []*graph.Node, edges []graph.Edge) string {
	parts := make([]string, 0, len(nodes)+len(edges))
	for _, n := range nodes {
		parts = append(parts, "n:"+n.ID)
	}
	for _, e := range edges {
		parts = append(parts, "e:"+e.Key())
	}
	slices.Sort(parts)
	return strings.Join(parts, "|")
}
