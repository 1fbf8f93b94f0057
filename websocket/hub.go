package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/apex/log"

	"incident-intel-service/metrics"
	"incident-intel-service/models"
)

// AnalyzedIncident is the broadcast payload for one analyzed report.
type AnalyzedIncident struct {
	Incident       models.IncidentReport       `json:"incident"`
	Classification models.ClassificationResult `json:"classification"`
	Priority       models.PriorityScore        `json:"priority"`
	Suggestions    []models.ResponseSuggestion `json:"suggestions"`
}

// BroadcastMessage wraps every websocket frame sent to dashboard clients.
type BroadcastMessage struct {
	Type      string           `json:"type"`
	Data      AnalyzedIncident `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// Hub manages WebSocket connections and broadcasting
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Inbound messages to fan out
	broadcast chan []byte

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mutex sync.RWMutex

	connectedClients int
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.clients[client] = true
			h.connectedClients = len(h.clients)
			h.mutex.Unlock()
			metrics.WebsocketClients.Set(float64(h.connectedClients))
			log.Infof("Client connected. Total clients: %d", h.connectedClients)

		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connectedClients = len(h.clients)
			}
			h.mutex.Unlock()
			metrics.WebsocketClients.Set(float64(h.connectedClients))
			log.Infof("Client disconnected. Total clients: %d", h.connectedClients)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.connectedClients = len(h.clients)
			h.mutex.Unlock()
			metrics.WebsocketClients.Set(float64(h.connectedClients))
		}
	}
}

// BroadcastAnalyzedIncident fans one analyzed incident out to every
// connected dashboard client.
func (h *Hub) BroadcastAnalyzedIncident(event AnalyzedIncident) {
	message := BroadcastMessage{
		Type:      "incident_analyzed",
		Data:      event,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Errorf("Failed to marshal broadcast message: %v", err)
		return
	}

	h.broadcast <- data
}

// ClientCount returns the current number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connectedClients
}
