package capture

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/nullgraph/lldpd/pkg/codec"
	"github.com/nullgraph/lldpd/pkg/lldperr"
	"github.com/nullgraph/lldpd/pkg/logging"
	"github.com/nullgraph/lldpd/pkg/neighbor"
	"github.com/nullgraph/lldpd/pkg/storage"
)

// Worker is the capture worker's receive loop: one Engine per target
// interface, decoding frames and upserting neighbor records (spec section
// 4.3). It is stateless across restarts — all durable state lives in the
// neighbor store.
type Worker struct {
	Interfaces []string
	Store      *neighbor.Store
	Sessions   *storage.Storage // may be nil; session logging is diagnostic only

	mu      sync.Mutex
	engines map[string]*Engine

	// Incremented concurrently from one handlePacket goroutine per
	// interface; always access via sync/atomic.
	framesDecoded  uint64
	framesDropped  uint64
	malformedCount uint64
}

// reconnectInterval gates how often Run retries opening a capture handle
// that just failed, via ReconnectBackoff.
const reconnectInterval = 5 * time.Second

// maxReconnectAttempts bounds the retry loop so a permanently-broken
// interface (renamed, removed, permission revoked) does not retry forever.
const maxReconnectAttempts = 3

// Run opens a capture handle on every configured interface and blocks
// until stop is closed, then releases everything and returns. It never
// returns an error for a single interface failing to open or capture —
// those are logged and the interface is dropped (after retrying with
// ReconnectBackoff) — only for total failure across all interfaces (spec
// section 4.3: "exit code 0 only if at least one interface ran to
// termination, otherwise 2").
func (w *Worker) Run(stop <-chan struct{}) error {
	started := time.Now().UTC()
	w.engines = make(map[string]*Engine, len(w.Interfaces))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for _, name := range w.Interfaces {
		name := name
		engine, ok := w.openWithRetry(stop, name)
		if !ok {
			continue
		}
		w.mu.Lock()
		w.engines[name] = engine
		w.mu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := engine.StartCapture(stop, func(pkt gopacket.Packet) {
				w.handlePacket(name, pkt)
			}); err != nil {
				logging.Warning("capture worker: capture on %s ended: %v", name, err)
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}

	wg.Wait()

	w.mu.Lock()
	for _, e := range w.engines {
		e.Close()
	}
	w.mu.Unlock()

	if w.Sessions != nil {
		exitReason := "graceful"
		if succeeded == 0 && len(w.Interfaces) > 0 {
			exitReason = "all_interfaces_failed"
		}
		_ = w.Sessions.AddSession(storage.SessionRecord{
			StartedAt:      started,
			EndedAt:        time.Now().UTC(),
			Interfaces:     w.Interfaces,
			FramesDecoded:  atomic.LoadUint64(&w.framesDecoded),
			FramesDropped:  atomic.LoadUint64(&w.framesDropped),
			MalformedCount: atomic.LoadUint64(&w.malformedCount),
			ExitReason:     exitReason,
		})
	}

	if len(w.Interfaces) > 0 && succeeded == 0 {
		return lldperr.Newf(lldperr.L2IOError, "all %d interfaces failed", len(w.Interfaces))
	}
	return nil
}

// openWithRetry opens a capture handle on name, retrying up to
// maxReconnectAttempts times with ReconnectBackoff-gated pacing between
// attempts when the open fails transiently. It gives up and returns
// ok=false if stop closes first or every attempt fails.
func (w *Worker) openWithRetry(stop <-chan struct{}, name string) (*Engine, bool) {
	backoff := NewReconnectBackoff(reconnectInterval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	var lastErr error
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		if attempt > 1 {
			if err := backoff.Wait(ctx); err != nil {
				logging.Warning("capture worker: giving up on %s: stopped before reconnect", name)
				return nil, false
			}
		}
		engine, err := New(name, logging.Verbosity())
		if err == nil {
			return engine, true
		}
		lastErr = err
		logging.Warning("capture worker: failed to open %s (attempt %d/%d): %v", name, attempt, maxReconnectAttempts, err)
	}
	logging.Warning("capture worker: dropping %s after %d failed attempts: %v", name, maxReconnectAttempts, lastErr)
	return nil, false
}

// handlePacket decodes one captured packet and upserts the resulting
// neighbor record. Decode failures are logged at debug and dropped; they
// never abort the capture session (spec section 4.1 / 7).
func (w *Worker) handlePacket(iface string, pkt gopacket.Packet) {
	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	if ethLayer == nil {
		return
	}
	raw := pkt.Data()

	frame, err := codec.DecodeFrame(raw)
	if err != nil {
		atomic.AddUint64(&w.malformedCount, 1)
		atomic.AddUint64(&w.framesDropped, 1)
		logging.VDebug(2, "capture worker: dropping malformed frame on %s: %v", iface, err)
		return
	}

	now := time.Now().UTC()
	record := neighbor.FromFrame(frame, iface, now, raw)
	if _, err := w.Store.Upsert(record); err != nil {
		atomic.AddUint64(&w.framesDropped, 1)
		logging.Warning("capture worker: upsert failed on %s: %v", iface, err)
		return
	}
	atomic.AddUint64(&w.framesDecoded, 1)
}
