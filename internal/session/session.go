package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/virtualboard/board/internal/board"
	"github.com/virtualboard/board/internal/engine"
	"github.com/virtualboard/board/internal/geometry"
	"github.com/virtualboard/board/internal/tool"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

var errBadMessage = errors.New("bad message")

// Session is one connected board view. It owns its engine; every
// incoming message is applied on the read goroutine, one at a time.
type Session struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	engine   *engine.Engine
	ID       string
	ClientID string
}

func NewSession(hub *Hub, conn *websocket.Conn, eng *engine.Engine, sessionID, clientID string) *Session {
	return &Session{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		engine:   eng,
		ID:       sessionID,
		ClientID: clientID,
	}
}

func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.engine.Close()
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	s.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "session", s.ID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.ID)
			s.sendError(&msg, fmt.Errorf("%w: %v", errBadMessage, err))
			continue
		}

		s.handleMessage(&msg)
	}
}

func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "session", s.ID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) Send(msg *Message) {
	msg.SessionID = s.ID
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "session", s.ID, "type", msg.Type)
	}
}

// welcome greets the client and sends the initial frame.
func (s *Session) welcome() {
	payload, _ := json.Marshal(WelcomePayload{SessionID: s.ID, ClientID: s.ClientID})
	s.Send(&Message{Type: TypeWelcome, Payload: payload})
	s.sendFrame()
}

// handleMessage applies one client message and, if the view changed,
// sends the new frame.
func (s *Session) handleMessage(msg *Message) {
	if err := s.apply(msg); err != nil {
		slog.Debug("message rejected", "type", msg.Type, "error", err, "session", s.ID)
		s.sendError(msg, err)
	}

	if s.engine.Dirty() {
		s.sendFrame()
	}
}

func (s *Session) apply(msg *Message) error {
	eng := s.engine
	store := eng.Store()

	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			eng.PointerDown(p.point())
		case TypePointerMove:
			eng.PointerMove(p.point())
		default:
			eng.PointerUp(p.point())
		}

	case TypeWheel:
		var p WheelPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		eng.Wheel(p.DeltaY)

	case TypeResize:
		var p ResizePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		eng.Resize(geometry.Size{Width: p.Width, Height: p.Height})

	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		t, err := tool.ParseTool(p.Tool)
		if err != nil {
			return err
		}
		if p.Color != "" {
			eng.SetStyle(tool.Style{Color: p.Color, Filled: p.Filled})
		}
		eng.SetTool(t)

	case TypeItemAdd:
		var p ItemAddPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		id, err := store.AddItem(p.Item)
		if err != nil {
			return err
		}
		payload, _ := json.Marshal(ItemAddedPayload{ID: id})
		s.Send(&Message{Type: TypeItemAdded, Seq: msg.Seq, Payload: payload})

	case TypeItemMove:
		var p ItemMovePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return store.SetPosition(p.ID, board.Position{Top: p.Top, Left: p.Left})

	case TypeItemResize:
		var p ItemResizePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return store.SetDimensions(p.ID, board.Dimensions{Width: p.Width, Height: p.Height})

	case TypeItemSelect:
		var p ItemRefPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return store.SetSelected(p.ID)

	case TypeItemRemove:
		var p ItemRefPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return store.Remove(p.ID)

	default:
		return fmt.Errorf("%w: unknown message type %q", errBadMessage, msg.Type)
	}

	return nil
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %s has no payload", errBadMessage, msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", errBadMessage, msg.Type, err)
	}
	return nil
}

func (s *Session) sendFrame() {
	frame, commands := s.engine.Flush()
	payload, err := json.Marshal(FramePayload{Frame: frame, Commands: commands})
	if err != nil {
		slog.Error("marshal frame", "error", err, "session", s.ID)
		return
	}
	s.Send(&Message{Type: TypeFrame, Payload: payload})
}

func (s *Session) sendError(msg *Message, err error) {
	payload, _ := json.Marshal(ErrorPayload{
		Code:   errorCode(err),
		Reason: err.Error(),
		Seq:    msg.Seq,
	})
	s.Send(&Message{Type: TypeError, Payload: payload})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errBadMessage):
		return CodeBadMessage
	case errors.Is(err, board.ErrInvalidReference):
		return CodeInvalidReference
	case errors.Is(err, board.ErrUnknownItemType):
		return CodeUnknownItemType
	case errors.Is(err, board.ErrInvalidItem):
		return CodeInvalidItem
	case errors.Is(err, board.ErrInvalidDimensions):
		return CodeInvalidDimensions
	case errors.Is(err, board.ErrImmutableDimensions):
		return CodeImmutableDimensions
	case errors.Is(err, tool.ErrUnknownTool):
		return CodeUnknownTool
	default:
		return CodeInternal
	}
}
