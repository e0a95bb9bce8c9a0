package middleware

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

const replayedHeader = "X-Idempotency-Replayed"

// IdempotencyStore remembers responses to POST requests carrying an
// Idempotency-Key header so retries replay instead of re-applying.
type IdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stopChan chan struct{}
}

type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // default 24h
	Cleanup time.Duration // default 1h
}

// NewIdempotencyStore creates a store and starts its cleanup loop
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go store.cleanupLoop(cfg.Cleanup)

	return store
}

// Stop ends the cleanup loop. Safe to call more than once.
func (s *IdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// Len returns the number of stored entries, in flight or complete
func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *IdempotencyStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if !entry.inFlight && entry.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// begin returns a completed entry to replay, or registers key as in flight
// and returns nil. Concurrent duplicates wait for the first to finish.
func (s *IdempotencyStore) begin(key string) *idempotencyEntry {
	for {
		s.mu.Lock()
		entry, ok := s.entries[key]
		switch {
		case !ok, !entry.inFlight && !entry.expiresAt.After(s.now()):
			entry = &idempotencyEntry{inFlight: true, done: make(chan struct{})}
			s.entries[key] = entry
			s.mu.Unlock()
			return nil
		case entry.inFlight:
			s.mu.Unlock()
			<-entry.done
		default:
			s.mu.Unlock()
			return entry
		}
	}
}

// abort forgets an in-flight key so waiting duplicates run themselves
func (s *IdempotencyStore) abort(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && entry.inFlight {
		delete(s.entries, key)
		close(entry.done)
	}
}

func (s *IdempotencyStore) complete(key string, status int, headers http.Header, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[key]
	entry.status = status
	entry.headers = headers
	entry.body = body
	entry.expiresAt = s.now().Add(s.ttl)
	entry.inFlight = false
	close(entry.done)
}

// fingerprint identifies a request by client, key, method, target, response
// encoding and body. Each field is length-prefixed so adjacent values cannot
// run together.
func fingerprint(client, idempotencyKey, method, target, encoding string, body []byte) string {
	h, _ := blake2b.New256(nil)
	for _, part := range [][]byte{[]byte(client), []byte(idempotencyKey), []byte(method), []byte(target), []byte(encoding), body} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write(part)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// negotiatedEncoding is the content coding Compress will apply. Stored
// bodies are captured after compression, so it must be part of the key.
func negotiatedEncoding(r *http.Request) string {
	if acceptsGzip(r) {
		return "gzip"
	}
	return "identity"
}

// idempotencyResponseWriter captures the response for caching
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// replay writes a stored response. Headers already set by outer middleware
// (request ID, rate limit) keep their current values.
func replay(w http.ResponseWriter, entry *idempotencyEntry) {
	for k, v := range entry.headers {
		if _, ok := w.Header()[k]; ok {
			continue
		}
		w.Header()[k] = append([]string(nil), v...)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(entry.status)
	_, _ = w.Write(entry.body)
}

// Idempotency returns middleware that replays POST responses for repeated
// Idempotency-Key values. Signup and unregister carry their inputs in the
// URL, so the query string is part of the fingerprint.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempotencyKey := r.Header.Get("Idempotency-Key")
			if r.Method != http.MethodPost || idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := fingerprint(ClientIP(r), idempotencyKey, r.Method, r.URL.RequestURI(), negotiatedEncoding(r), body)
			if entry := store.begin(key); entry != nil {
				replay(w, entry)
				return
			}

			irw := &idempotencyResponseWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if p := recover(); p != nil {
					store.abort(key)
					panic(p)
				}
			}()

			next.ServeHTTP(irw, r)
			store.complete(key, irw.status, irw.Header().Clone(), irw.body.Bytes())
		})
	}
}
