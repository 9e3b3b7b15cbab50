// Package chat implements the real-time subsystem: presence tracking, public
// broadcast with durable history, and point-to-point direct messages over
// persistent connections.
package chat

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/muthakira-dev/muthakira/internal/domain"
	"github.com/muthakira-dev/muthakira/internal/logger"
	"github.com/muthakira-dev/muthakira/internal/service/utils"
)

const (
	maxNameLen = 40
	maxTextLen = 600

	// outbound buffer per connection; fan-out never blocks on a slow reader,
	// it drops instead
	sendBufferSize = 64
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_clients",
		Help: "Number of currently connected chat clients",
	})
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total number of chat messages routed",
	}, []string{"kind"})
)

// Event is the wire envelope for everything pushed to a connection.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// subscriber is one live connection's presence entry plus its outbound queue.
type subscriber struct {
	id   domain.ConnectionId
	name domain.DisplayName
	send chan Event
}

// ChatLogStore is the chat.json collection.
type ChatLogStore interface {
	Read() []domain.ChatMessage
	Update(fn func([]domain.ChatMessage) ([]domain.ChatMessage, error)) error
}

// Hub owns the presence registry and routes every chat event. All mutation
// happens under its lock; the registry is never exposed as a raw map.
type Hub struct {
	mu   sync.RWMutex
	subs map[domain.ConnectionId]*subscriber

	store        ChatLogStore
	persistLimit int
	replayLimit  int
}

func NewHub(store ChatLogStore, persistLimit, replayLimit int) *Hub {
	return &Hub{
		subs:         make(map[domain.ConnectionId]*subscriber),
		store:        store,
		persistLimit: persistLimit,
		replayLimit:  replayLimit,
	}
}

// DefaultName derives a stable label for an unnamed connection.
func DefaultName(id domain.ConnectionId) domain.DisplayName {
	suffix := id
	if runes := []rune(id); len(runes) > 4 {
		suffix = string(runes[len(runes)-4:])
	}
	return "مشارك-" + suffix
}

// Join registers a connection and returns its outbound event channel. The
// updated presence snapshot goes to everyone; the most recent persisted
// messages are replayed to the new connection only.
func (h *Hub) Join(id domain.ConnectionId) <-chan Event {
	sub := &subscriber{id: id, name: DefaultName(id), send: make(chan Event, sendBufferSize)}

	h.mu.Lock()
	h.subs[id] = sub
	h.fanOutLocked(Event{Event: "chat:users", Data: h.snapshotLocked()})
	h.mu.Unlock()

	connectedClients.Inc()

	history := h.store.Read()
	if len(history) > h.replayLimit {
		history = history[len(history)-h.replayLimit:]
	}
	h.deliver(sub, Event{Event: "chat:history", Data: history})

	return sub.send
}

// Leave removes the connection's presence entry, closes its channel and
// broadcasts the shrunk snapshot. Safe to call once per connection.
func (h *Hub) Leave(id domain.ConnectionId) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		close(sub.send)
		delete(h.subs, id)
		h.fanOutLocked(Event{Event: "chat:users", Data: h.snapshotLocked()})
	}
	h.mu.Unlock()

	if ok {
		connectedClients.Dec()
	}
}

// SetName renames a connection and re-broadcasts the snapshot. An empty name
// keeps the current one.
func (h *Hub) SetName(id domain.ConnectionId, name string) {
	name = utils.TruncateRunes(utils.SanitizeText(name), maxNameLen)

	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[id]
	if !ok {
		return
	}
	if name != "" {
		sub.name = name
	}
	h.fanOutLocked(Event{Event: "chat:users", Data: h.snapshotLocked()})
}

// DisplayName returns the current name for a connection, or the derived
// default if it is not connected.
func (h *Hub) DisplayName(id domain.ConnectionId) domain.DisplayName {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if sub, ok := h.subs[id]; ok {
		return sub.name
	}
	return DefaultName(id)
}

// BroadcastPublic delivers a public message to every connection, then appends
// it to the durable log trimmed to the retention window. Empty text is a
// silent no-op. Delivery happens before persistence: live participants see
// the message even if the persistence step fails.
func (h *Hub) BroadcastPublic(name, text string) {
	name = utils.TruncateRunes(utils.SanitizeText(name), maxNameLen)
	// Truncate after sanitizing: escaping can expand the text (& becomes
	// &amp;), and the cap applies to what is delivered and stored.
	text = utils.TruncateRunes(utils.SanitizeText(text), maxTextLen)
	if text == "" {
		return
	}

	msg := domain.ChatMessage{
		Id:   uuid.NewString(),
		Name: name,
		Text: text,
		Time: time.Now().UTC(),
	}

	h.mu.Lock()
	h.fanOutLocked(Event{Event: "chat:message", Data: msg})
	h.mu.Unlock()

	messagesTotal.WithLabelValues("public").Inc()

	err := h.store.Update(func(log []domain.ChatMessage) ([]domain.ChatMessage, error) {
		log = append(log, msg)
		if len(log) > h.persistLimit {
			log = log[len(log)-h.persistLimit:]
		}
		return log, nil
	})
	if err != nil {
		// Non-fatal: the message was already delivered to live participants.
		logger.Log.Error("failed to persist chat message", "message_id", msg.Id, "error", err)
	}
}

// SendDirect routes a message to one connection, with an identical echo to
// the sender. Unknown targets and empty text are silently dropped; there is
// no delivery acknowledgment anywhere in the protocol. Direct messages are
// never persisted.
func (h *Hub) SendDirect(from domain.ConnectionId, to domain.ConnectionId, text string) {
	text = utils.TruncateRunes(utils.SanitizeText(text), maxTextLen)
	if to == "" || text == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sender, ok := h.subs[from]
	if !ok {
		return
	}
	target, ok := h.subs[to]
	if !ok {
		return
	}

	dm := domain.DirectMessage{
		Id:       uuid.NewString(),
		From:     from,
		FromName: sender.name,
		To:       to,
		Text:     text,
		Time:     time.Now().UTC(),
	}

	ev := Event{Event: "chat:dm", Data: dm}
	h.deliver(sender, ev)
	h.deliver(target, ev)

	messagesTotal.WithLabelValues("direct").Inc()
}

// History returns the most recent persisted messages, up to limit.
func (h *Hub) History(limit int) []domain.ChatMessage {
	log := h.store.Read()
	if len(log) > limit {
		log = log[len(log)-limit:]
	}
	return log
}

// ActiveCount returns the number of live connections.
func (h *Hub) ActiveCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// snapshotLocked copies the registry so broadcast never iterates the live
// map. Sorted by connection id for stable output; order carries no meaning.
func (h *Hub) snapshotLocked() []domain.ChatUser {
	users := make([]domain.ChatUser, 0, len(h.subs))
	for _, sub := range h.subs {
		users = append(users, domain.ChatUser{Id: sub.id, Name: sub.name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Id < users[j].Id })
	return users
}

func (h *Hub) fanOutLocked(ev Event) {
	for _, sub := range h.subs {
		h.deliver(sub, ev)
	}
}

// deliver enqueues without blocking; a full buffer means the reader has
// stalled and the event is dropped for that connection.
func (h *Hub) deliver(sub *subscriber, ev Event) {
	select {
	case sub.send <- ev:
	default:
		logger.Log.Warn("dropping chat event for slow connection", "connection_id", sub.id, "event", ev.Event)
	}
}
