package ws

import (
	"contenteval/internal/service"
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Session message types
const (
	MsgConnected        MessageType = "connected"
	MsgEvaluationResult MessageType = "evaluation_result"
	MsgHistoryCleared   MessageType = "history_cleared"
	MsgRecordsRefreshed MessageType = "records_refreshed"
)

// service event -> wire message type
var eventTypes = map[string]MessageType{
	service.EventEvaluationResult: MsgEvaluationResult,
	service.EventHistoryCleared:   MsgHistoryCleared,
	service.EventRecordsRefreshed: MsgRecordsRefreshed,
}

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for evaluator sessions
type Hub struct {
	// session id -> open connections (one per browser tab)
	sessions map[string]map[*Connection]bool

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID  string
	OperatorID string
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to broadcast. An empty SessionID reaches every session.
type BroadcastMessage struct {
	SessionID string
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		sessions:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.sessions[conn.SessionID] == nil {
				h.sessions[conn.SessionID] = make(map[*Connection]bool)
			}
			h.sessions[conn.SessionID][conn] = true
			log.Printf("Operator %s connected to session %s", conn.OperatorID, conn.SessionID)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.sessions[conn.SessionID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.sessions, conn.SessionID)
				}
				log.Printf("Operator %s disconnected from session %s", conn.OperatorID, conn.SessionID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.SessionID != "" {
				for conn := range h.sessions[msg.SessionID] {
					deliver(conn, data)
				}
			} else {
				for _, conns := range h.sessions {
					for conn := range conns {
						deliver(conn, data)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func deliver(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
		// Drop message if buffer full
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// ConnectionCount returns the number of open connections for a session
func (h *Hub) ConnectionCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// BroadcastToSession sends a message to every tab of one session (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, event string, payload interface{}) {
	msgType, ok := eventTypes[event]
	if !ok {
		log.Printf("Dropping unknown event %q for session %s", event, sessionID)
		return
	}
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message:   newMessage(msgType, payload),
	}
}

// BroadcastToAll sends a message to every connected session (implements service.Broadcaster)
func (h *Hub) BroadcastToAll(event string, payload interface{}) {
	msgType, ok := eventTypes[event]
	if !ok {
		log.Printf("Dropping unknown event %q", event)
		return
	}
	h.broadcast <- &BroadcastMessage{
		Message: newMessage(msgType, payload),
	}
}

func newMessage(msgType MessageType, payload interface{}) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: msgType, Payload: data}
}
