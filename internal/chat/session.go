package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muthakira-dev/muthakira/internal/domain"
	"github.com/muthakira-dev/muthakira/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// inboundEvent mirrors Event for the client-to-server direction; Data stays
// raw until the event name picks the payload type.
type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type publicMessagePayload struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type directMessagePayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// Session binds one websocket connection to its presence entry and pumps
// events in both directions. The lifecycle is linear: the connection joins
// the hub on start, stays active until the transport drops, then leaves.
// There is no resume; a reconnecting client gets a fresh session and id.
type Session struct {
	hub  *Hub
	conn *websocket.Conn
	id   domain.ConnectionId
	recv <-chan Event
}

// NewSession registers the connection with the hub. The caller must invoke
// Run exactly once afterwards.
func NewSession(hub *Hub, conn *websocket.Conn, id domain.ConnectionId) *Session {
	return &Session{hub: hub, conn: conn, id: id, recv: hub.Join(id)}
}

// Run blocks until the connection is gone and its presence entry is removed.
func (s *Session) Run() {
	go s.writePump()
	s.readPump()
}

// readPump consumes client events until the transport drops, then tears the
// session down. Teardown closes the outbound channel, which stops writePump.
func (s *Session) readPump() {
	defer func() {
		s.hub.Leave(s.id)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Debug("chat connection closed unexpectedly", "connection_id", s.id, "error", err)
			}
			return
		}

		var ev inboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			logger.Log.Debug("ignoring malformed chat event", "connection_id", s.id, "error", err)
			continue
		}
		s.dispatch(ev)
	}
}

func (s *Session) dispatch(ev inboundEvent) {
	switch ev.Event {
	case "chat:setName":
		var name string
		if err := json.Unmarshal(ev.Data, &name); err != nil {
			return
		}
		s.hub.SetName(s.id, name)

	case "chat:message":
		var payload publicMessagePayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return
		}
		name := payload.Name
		if name == "" {
			name = s.hub.DisplayName(s.id)
		}
		s.hub.BroadcastPublic(name, payload.Text)

	case "chat:dm":
		var payload directMessagePayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return
		}
		s.hub.SendDirect(s.id, payload.To, payload.Text)

	default:
		logger.Log.Debug("ignoring unknown chat event", "connection_id", s.id, "event", ev.Event)
	}
}

// writePump forwards hub events to the socket and keeps the connection alive
// with pings. Exits when the hub closes the outbound channel on Leave.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-s.recv:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
