// Package fusionws streams order lifecycle events over the relayer
// websocket feed.
package fusionws

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/nvidaurre/swaprouter/business/intent/domain"
	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/wsconn"
)

// Config holds watcher configuration.
type Config struct {
	URL    string
	APIKey string
}

// Watcher subscribes to order events and fans them out per order hash.
// One websocket connection is held per chain, dialed on first use.
type Watcher struct {
	cfg    Config
	logger logger.LoggerInterface

	mu    sync.Mutex
	conns map[uint64]*chainFeed
}

type chainFeed struct {
	conn *wsconn.Client

	mu   sync.Mutex
	subs map[string][]chan domain.OrderEvent
}

// NewWatcher creates an order event watcher.
func NewWatcher(cfg Config, log logger.LoggerInterface) *Watcher {
	return &Watcher{
		cfg:    cfg,
		logger: log,
		conns:  make(map[uint64]*chainFeed),
	}
}

type wireEvent struct {
	Event  string `json:"event"`
	Result struct {
		OrderHash string `json:"orderHash"`
	} `json:"result"`
}

// Watch returns a channel of events for one order. The channel is closed
// when ctx is cancelled or the connection shuts down.
func (w *Watcher) Watch(ctx context.Context, orderHash string, chainID uint64) (<-chan domain.OrderEvent, error) {
	feed, err := w.feed(ctx, chainID)
	if err != nil {
		return nil, err
	}

	ch := make(chan domain.OrderEvent, 16)
	key := strings.ToLower(orderHash)

	feed.mu.Lock()
	feed.subs[key] = append(feed.subs[key], ch)
	feed.mu.Unlock()

	go func() {
		<-ctx.Done()
		feed.remove(key, ch)
	}()

	return ch, nil
}

func (w *Watcher) feed(ctx context.Context, chainID uint64) (*chainFeed, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if feed, ok := w.conns[chainID]; ok {
		return feed, nil
	}
	if w.cfg.URL == "" {
		return nil, fmt.Errorf("no websocket url configured")
	}

	wsCfg := wsconn.DefaultConfig(strings.TrimRight(w.cfg.URL, "/") + "/v1.0/" + strconv.FormatUint(chainID, 10))
	wsCfg.Headers = map[string]string{"Authorization": "Bearer " + w.cfg.APIKey}

	conn := wsconn.New(wsCfg)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connecting order event feed for chain %d: %w", chainID, err)
	}

	feed := &chainFeed{
		conn: conn,
		subs: make(map[string][]chan domain.OrderEvent),
	}
	w.conns[chainID] = feed
	go w.pump(chainID, feed)
	return feed, nil
}

// pump reads the raw feed and dispatches events to subscribers of the
// matching order hash. It exits when the connection's message channel
// closes, then drops the feed so the next Watch redials.
func (w *Watcher) pump(chainID uint64, feed *chainFeed) {
	ctx := context.Background()
	for msg := range feed.conn.Messages() {
		var ev wireEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			w.logger.Debug(ctx, "discarding unparseable order event", "chain_id", chainID, "error", err)
			continue
		}
		if ev.Result.OrderHash == "" {
			continue
		}

		event := domain.OrderEvent{
			EventType: ev.Event,
			OrderHash: ev.Result.OrderHash,
			Data:      msg,
		}

		feed.mu.Lock()
		for _, ch := range feed.subs[strings.ToLower(ev.Result.OrderHash)] {
			select {
			case ch <- event:
			default:
				w.logger.Warn(ctx, "dropping order event, subscriber not keeping up",
					"chain_id", chainID, "order_hash", ev.Result.OrderHash)
			}
		}
		feed.mu.Unlock()
	}

	feed.closeAll()
	w.mu.Lock()
	delete(w.conns, chainID)
	w.mu.Unlock()
}

func (f *chainFeed) remove(key string, ch chan domain.OrderEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := f.subs[key]
	for i, sub := range subs {
		if sub == ch {
			f.subs[key] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(f.subs[key]) == 0 {
		delete(f.subs, key)
	}
}

func (f *chainFeed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, subs := range f.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(f.subs, key)
	}
}

// Close shuts down all chain feeds.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for chainID, feed := range w.conns {
		if err := feed.conn.Close(); err != nil {
			w.logger.Debug(context.Background(), "closing order event feed", "chain_id", chainID, "error", err)
		}
		delete(w.conns, chainID)
	}
}
