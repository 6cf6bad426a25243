package kv

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/apexcharge/paddock/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var storeFaults = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "paddock_store_faults_total",
		Help: "Backend faults swallowed by the record store, by operation",
	},
	[]string{"op"},
)

// Store wraps a Backend so that reads and writes never fail. A read fault
// looks like an absent key. A write fault keeps the value in a process-local
// overlay that is served to later reads until a durable write succeeds.
//
// Update serializes read-modify-write cycles per key inside this process.
// Writers in other processes are not coordinated: last write wins.
type Store struct {
	backend Backend
	log     *slog.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	overlayMu sync.RWMutex
	overlay   map[string][]byte
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		log:     logger.Component("kv_store"),
		locks:   make(map[string]*sync.Mutex),
		overlay: make(map[string][]byte),
	}
}

func (s *Store) lock(key string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Store) fault(op, key string, err error) {
	storeFaults.WithLabelValues(op).Inc()
	s.log.Warn("store fault swallowed", "op", op, "key", key, "error", err)
}

// Read returns the raw document stored under key.
func (s *Store) Read(ctx context.Context, key string) (json.RawMessage, bool) {
	s.overlayMu.RLock()
	v, ok := s.overlay[key]
	s.overlayMu.RUnlock()
	if ok {
		if v == nil {
			return nil, false
		}
		return slices.Clone(v), true
	}

	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.fault("read", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return raw, true
}

// Write stores value under key as JSON.
func (s *Store) Write(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.fault("marshal", key, err)
		return
	}
	s.put(ctx, key, raw)
}

func (s *Store) put(ctx context.Context, key string, raw []byte) {
	if err := s.backend.Put(ctx, key, raw); err != nil {
		s.fault("write", key, err)
		s.overlayMu.Lock()
		s.overlay[key] = raw
		s.overlayMu.Unlock()
		return
	}
	s.overlayMu.Lock()
	delete(s.overlay, key)
	s.overlayMu.Unlock()
}

// Remove deletes key. A failed delete is remembered as a tombstone in the overlay.
func (s *Store) Remove(ctx context.Context, key string) {
	unlock := s.lock(key)
	defer unlock()

	if err := s.backend.Delete(ctx, key); err != nil {
		s.fault("delete", key, err)
		s.overlayMu.Lock()
		s.overlay[key] = nil
		s.overlayMu.Unlock()
		return
	}
	s.overlayMu.Lock()
	delete(s.overlay, key)
	s.overlayMu.Unlock()
}

// Update runs fn on the current document under the key's lock and writes
// what it returns. When fn fails nothing is written and its error is returned.
func (s *Store) Update(ctx context.Context, key string, fn func(raw json.RawMessage, ok bool) (any, error)) error {
	unlock := s.lock(key)
	defer unlock()

	raw, ok := s.Read(ctx, key)
	next, err := fn(raw, ok)
	if err != nil {
		return err
	}
	s.Write(ctx, key, next)
	return nil
}

// WriteAll stores every value, in one transaction when the backend supports it.
func (s *Store) WriteAll(ctx context.Context, values map[string]any) {
	raws := make(map[string][]byte, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			s.fault("marshal", key, err)
			continue
		}
		raws[key] = raw
	}

	batcher, ok := s.backend.(Batcher)
	if !ok {
		for key, raw := range raws {
			s.put(ctx, key, raw)
		}
		return
	}
	if err := batcher.PutBatch(ctx, raws); err != nil {
		s.fault("write_batch", "", err)
		s.overlayMu.Lock()
		for key, raw := range raws {
			s.overlay[key] = raw
		}
		s.overlayMu.Unlock()
		return
	}
	s.overlayMu.Lock()
	for key := range raws {
		delete(s.overlay, key)
	}
	s.overlayMu.Unlock()
}

// Keys lists stored keys, including values only held in the overlay.
func (s *Store) Keys(ctx context.Context) []string {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		s.fault("keys", "", err)
	}
	s.overlayMu.RLock()
	defer s.overlayMu.RUnlock()
	for k, v := range s.overlay {
		if i := slices.Index(keys, k); v == nil && i >= 0 {
			keys = slices.Delete(keys, i, i+1)
		} else if v != nil && i < 0 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func (s *Store) Close() error {
	return s.backend.Close()
}
