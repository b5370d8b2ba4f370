package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errWriterStopped = errors.New("store writer stopped")

// writer persists dirty keys in the background. Only the latest value per key
// is kept, so a burst of toggles costs one write and the last value wins.
type writer struct {
	kv      KV
	onError func(key string, err error)

	mu      sync.Mutex
	pending map[string]string

	wake    chan struct{}
	flushes chan chan struct{}
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newWriter(kv KV, onError func(string, error)) *writer {
	return &writer{
		kv:      kv,
		onError: onError,
		pending: make(map[string]string),
		wake:    make(chan struct{}, 1),
		flushes: make(chan chan struct{}),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// enqueue never blocks
func (w *writer) enqueue(key, value string) {
	w.mu.Lock()
	w.pending[key] = value
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case ack := <-w.flushes:
			w.drain()
			close(ack)
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]string)
	w.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	keys := make([]string, 0, len(batch))
	for k := range batch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		ctx, cancel := context.WithTimeout(context.Background(), defaultIOTimeout)
		err := w.kv.Set(ctx, k, batch[k])
		cancel()
		if err != nil {
			w.onError(k, err)
		}
	}
}

func (w *writer) flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case w.flushes <- ack:
	case <-w.done:
		return errWriterStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *writer) stop(ctx context.Context) error {
	w.once.Do(func() { close(w.quit) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
