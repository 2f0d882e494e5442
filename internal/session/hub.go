package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/engine"
	"github.com/virtualboard/board/internal/geometry"
	"github.com/virtualboard/board/internal/typeid"
)

// StoreFactory builds the item store for a new session.
type StoreFactory func() (*board.Store, error)

// Hub tracks the live sessions. Sessions share nothing: each has its own
// store and engine.
type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]*Session // sessionID -> session
	register   chan *Session
	unregister chan *Session
	done       chan struct{}
	stopOnce   sync.Once

	newStore    StoreFactory
	initialSize geometry.Size
}

func NewHub(newStore StoreFactory, initialSize geometry.Size) *Hub {
	return &Hub{
		sessions:    make(map[string]*Session),
		register:    make(chan *Session),
		unregister:  make(chan *Session),
		done:        make(chan struct{}),
		newStore:    newStore,
		initialSize: initialSize,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case s := <-h.register:
			h.addSession(s)
		case s := <-h.unregister:
			h.removeSession(s)
		case <-h.done:
			return
		}
	}
}

// Stop closes every live connection and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.mu.RLock()
		sessions := make([]*Session, 0, len(h.sessions))
		for _, s := range h.sessions {
			sessions = append(sessions, s)
		}
		h.mu.RUnlock()

		for _, s := range sessions {
			if s.conn != nil {
				s.conn.Close(websocket.StatusGoingAway, "server shutting down")
			}
		}
		close(h.done)
	})
}

// Open creates a session with a freshly seeded board for conn.
func (h *Hub) Open(conn *websocket.Conn) (*Session, error) {
	store, err := h.newStore()
	if err != nil {
		return nil, fmt.Errorf("seed board: %w", err)
	}

	eng := engine.New(store, h.initialSize)
	return NewSession(h, conn, eng, typeid.NewSessionID(), uuid.New().String()), nil
}

// Serve registers s, greets the client and pumps messages until the
// connection ends.
func (h *Hub) Serve(ctx context.Context, s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
		s.engine.Close()
		return
	}

	s.welcome()
	go s.WritePump(ctx)
	s.ReadPump(ctx)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) addSession(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	slog.Info("session opened", "session", s.ID, "client", s.ClientID)
}

func (h *Hub) removeSession(s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s.ID)
	close(s.send)
	h.mu.Unlock()

	slog.Info("session closed", "session", s.ID)
}
