package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var ErrSuperseded = errors.New("request superseded by a newer handle")

// Superseder tracks which handle each client is currently looking at. When a
// client switches handle, its in-flight requests for the old one are
// cancelled with ErrSuperseded so their results are never delivered.
// Requests for the same handle run side by side.
type Superseder struct {
	mu      sync.Mutex
	nextID  uint64
	clients map[string]*clientRequests
	logger  zerolog.Logger
}

type clientRequests struct {
	handle   string
	inflight map[uint64]context.CancelCauseFunc
}

func NewSuperseder(logger zerolog.Logger) *Superseder {
	return &Superseder{clients: make(map[string]*clientRequests), logger: logger}
}

// Begin registers a request. The returned func must be called when the
// request finishes. An empty clientID opts out of superseding.
func (s *Superseder) Begin(ctx context.Context, clientID, handle string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	if clientID == "" {
		return ctx, func() { cancel(nil) }
	}
	handle = strings.ToLower(strings.TrimSpace(handle))

	s.mu.Lock()
	reqs, ok := s.clients[clientID]
	if !ok {
		reqs = &clientRequests{inflight: make(map[uint64]context.CancelCauseFunc)}
		s.clients[clientID] = reqs
	}
	if reqs.handle != handle {
		if len(reqs.inflight) > 0 {
			s.logger.Debug().
				Str("client_id", clientID).
				Str("from", reqs.handle).
				Str("to", handle).
				Int("cancelled", len(reqs.inflight)).
				Msg("superseding stale requests")
		}
		for id, stale := range reqs.inflight {
			stale(ErrSuperseded)
			delete(reqs.inflight, id)
		}
		reqs.handle = handle
	}
	s.nextID++
	id := s.nextID
	reqs.inflight[id] = cancel
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		if reqs, ok := s.clients[clientID]; ok {
			delete(reqs.inflight, id)
			if len(reqs.inflight) == 0 {
				delete(s.clients, clientID)
			}
		}
		s.mu.Unlock()
		cancel(nil)
	}
}

// Superseded reports whether ctx was cancelled because its client moved on.
func Superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}
